package modelselection

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/linear"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

func TestTrainTestSplit(t *testing.T) {
	train, test, err := TrainTestSplit(80, 0.2, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(test) != 16 || len(train) != 64 {
		t.Fatalf("sizes = %d/%d, want 64/16", len(train), len(test))
	}

	seen := append(append([]int(nil), train...), test...)
	sort.Ints(seen)
	for i, v := range seen {
		if v != i {
			t.Fatalf("split is not a partition of [0, 80): %v", seen)
		}
	}

	_, test2, _ := TrainTestSplit(80, 0.2, 42)
	for i := range test {
		if test[i] != test2[i] {
			t.Fatal("same seed should give the same split")
		}
	}
}

func TestTrainTestSplitCeil(t *testing.T) {
	// ceil(0.25·10) = 3
	train, test, err := TrainTestSplit(10, 0.25, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(test) != 3 || len(train) != 7 {
		t.Errorf("sizes = %d/%d, want 7/3", len(train), len(test))
	}
}

func TestTrainTestSplitErrors(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		testSize float64
		kind     error
	}{
		{"zero test size", 10, 0, errors.ErrInvalidConfiguration},
		{"full test size", 10, 1, errors.ErrInvalidConfiguration},
		{"one row", 1, 0.2, errors.ErrInsufficientSample},
		{"no rows", 0, 0.2, errors.ErrInsufficientSample},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := TrainTestSplit(tt.n, tt.testSize, 42)
			if !errors.Is(err, tt.kind) {
				t.Errorf("got %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestKFold(t *testing.T) {
	folds, err := NewKFold(3).Split(10)
	if err != nil {
		t.Fatal(err)
	}
	wantTest := [][]int{{0, 1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	for i, f := range folds {
		if len(f.TestIndices) != len(wantTest[i]) {
			t.Fatalf("fold %d test = %v, want %v", i, f.TestIndices, wantTest[i])
		}
		for j := range f.TestIndices {
			if f.TestIndices[j] != wantTest[i][j] {
				t.Fatalf("fold %d test = %v, want %v", i, f.TestIndices, wantTest[i])
			}
		}
		if len(f.TrainIndices)+len(f.TestIndices) != 10 {
			t.Errorf("fold %d does not cover all rows", i)
		}
	}

	if _, err := NewKFold(5).Split(4); !errors.Is(err, errors.ErrInsufficientSample) {
		t.Errorf("rows < folds: got %v", err)
	}
	if _, err := NewKFold(1).Split(4); !errors.Is(err, errors.ErrInvalidConfiguration) {
		t.Errorf("k = 1: got %v", err)
	}
}

func TestCrossValScore(t *testing.T) {
	n := 20
	X := mat.NewDense(n, 1, nil)
	y := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		X.Set(i, 0, float64(i))
		y.Set(i, 0, 3*float64(i)+1)
	}

	calls := 0
	newModel := func() (model.Regressor, error) {
		calls++
		return linear.NewLinearRegression(), nil
	}
	res, err := CrossValScore(newModel, X, y, NewKFold(5))
	if err != nil {
		t.Fatal(err)
	}
	if calls != 5 {
		t.Errorf("estimator built %d times, want one per fold", calls)
	}
	if len(res.Scores) != 5 {
		t.Fatalf("got %d scores, want 5", len(res.Scores))
	}
	for i, s := range res.Scores {
		if math.Abs(s-1) > 1e-9 {
			t.Errorf("fold %d R² = %v, want 1", i, s)
		}
	}
	if math.Abs(res.Mean()-1) > 1e-9 {
		t.Errorf("Mean() = %v", res.Mean())
	}
	if res.Std() > 1e-9 {
		t.Errorf("Std() = %v", res.Std())
	}
}

func TestCrossValScoreTooFewRows(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{1, 2, 3})
	_, err := CrossValScore(func() (model.Regressor, error) {
		return linear.NewLinearRegression(), nil
	}, X, y, NewKFold(5))
	if !errors.Is(err, errors.ErrInsufficientSample) {
		t.Errorf("got %v, want InsufficientSample", err)
	}
}

type panicky struct{ model.Regressor }

func (panicky) Fit(X, y mat.Matrix) error { panic("boom") }

func TestCrossValScoreRecoversPanic(t *testing.T) {
	X := mat.NewDense(10, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	y := mat.NewDense(10, 1, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	_, err := CrossValScore(func() (model.Regressor, error) {
		return panicky{}, nil
	}, X, y, NewKFold(2))

	var pe *errors.PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want PanicError", err)
	}
}

func TestRows(t *testing.T) {
	m := mat.NewDense(3, 2, []float64{1, 2, 3, 4, 5, 6})
	got := Rows(m, []int{2, 0})
	want := mat.NewDense(2, 2, []float64{5, 6, 1, 2})
	if !mat.Equal(got, want) {
		t.Errorf("Rows = %v", mat.Formatted(got))
	}
}

package analysis

import (
	"math"
	"testing"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

var nan = math.NaN()

func TestPearsonPerfect(t *testing.T) {
	res, err := Pearson([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Coefficient-1) > 1e-12 {
		t.Errorf("r = %v, want 1", res.Coefficient)
	}
	if res.N != 5 {
		t.Errorf("n = %d, want 5", res.N)
	}
	if res.PValue != 0 {
		t.Errorf("p = %v, want 0 for a perfect fit", res.PValue)
	}
	if res.Method != MethodPearson {
		t.Errorf("method = %v", res.Method)
	}
}

func TestSpearmanDescending(t *testing.T) {
	res, err := Spearman([]float64{1, 2, 3, 4, 5}, []float64{10, 8, 6, 4, 2})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Coefficient+1) > 1e-12 {
		t.Errorf("rho = %v, want -1", res.Coefficient)
	}
	if res.N != 5 {
		t.Errorf("n = %d, want 5", res.N)
	}
}

func TestSpearmanMonotoneNonlinear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{1, 8, 27, 64, 125, 216}
	res, err := Spearman(x, y)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Coefficient-1) > 1e-12 {
		t.Errorf("rho = %v, want 1 for a monotone relation", res.Coefficient)
	}
	p, _ := Pearson(x, y)
	if p.Coefficient >= 1 {
		t.Errorf("Pearson r = %v should be below 1 for a cubic", p.Coefficient)
	}
}

func TestPairwiseNaNDrop(t *testing.T) {
	x := []float64{1, 2, nan, 4, 5}
	y := []float64{2, 4, 6, nan, 10}
	for _, fn := range []func(x, y []float64) (CorrelationResult, error){Pearson, Spearman} {
		res, err := fn(x, y)
		if err != nil {
			t.Fatal(err)
		}
		if res.N != 3 {
			t.Errorf("n = %d, want 3", res.N)
		}
		if math.Abs(res.Coefficient-1) > 1e-12 {
			t.Errorf("coefficient = %v, want 1", res.Coefficient)
		}
	}
}

func TestInsufficientSample(t *testing.T) {
	res, err := Pearson([]float64{1, nan, 3}, []float64{nan, 2, 5})
	if !errors.Is(err, errors.ErrInsufficientSample) {
		t.Fatalf("err = %v, want insufficient sample", err)
	}
	var ise *errors.InsufficientSampleError
	if !errors.As(err, &ise) || ise.N != 1 {
		t.Errorf("error should carry n=1: %v", err)
	}
	if res.N != 1 {
		t.Errorf("result n = %d, want 1", res.N)
	}
}

func TestDegenerateInput(t *testing.T) {
	_, err := Pearson([]float64{0.3, 0.3, 0.3}, []float64{1, 2, 3})
	if !errors.Is(err, errors.ErrDegenerateInput) {
		t.Errorf("err = %v, want degenerate input", err)
	}
	_, err = Spearman([]float64{1, 2, 3}, []float64{4, 4, 4})
	if !errors.Is(err, errors.ErrDegenerateInput) {
		t.Errorf("err = %v, want degenerate input", err)
	}
}

func TestLengthMismatch(t *testing.T) {
	_, err := Pearson([]float64{1, 2, 3}, []float64{1, 2})
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("err = %v, want DimensionError", err)
	}
}

func TestPValue(t *testing.T) {
	tests := []struct {
		name   string
		r      float64
		n      int
		lo, hi float64
	}{
		{"two points", 1, 2, 1, 1},
		{"no correlation", 0, 30, 0.999999, 1},
		{"strong", 0.9, 20, 0, 1e-6},
		{"moderate", 0.5, 10, 0.14, 0.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := correlationPValue(tt.r, tt.n)
			if p < tt.lo-1e-12 || p > tt.hi+1e-12 {
				t.Errorf("p(%v, %d) = %v, want in [%v, %v]", tt.r, tt.n, p, tt.lo, tt.hi)
			}
		})
	}
}

func TestPearsonTwoPoints(t *testing.T) {
	res, err := Pearson([]float64{1, 2}, []float64{5, 3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Coefficient+1) > 1e-12 || res.PValue != 1 {
		t.Errorf("got %+v, want r=-1 p=1", res)
	}
}

func TestRankTies(t *testing.T) {
	got := rank([]float64{10, 20, 20, 5})
	want := []float64{2, 3.5, 3.5, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("rank = %v, want %v", got, want)
			break
		}
	}
}

func TestSignificant(t *testing.T) {
	if !Significant(0.01, 0.05) || Significant(0.05, 0.05) {
		t.Error("Significant should be a strict comparison")
	}
}

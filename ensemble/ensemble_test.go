package ensemble

import (
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/metrics"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// friedmanLike は x0 が支配的、x2 が無関係なデータを返す
func friedmanLike(rows int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(3, 3))
	X := mat.NewDense(rows, 3, nil)
	y := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		a, b, c := rng.Float64(), rng.Float64(), rng.Float64()
		X.SetRow(i, []float64{a, b, c})
		y.Set(i, 0, 10*math.Sin(math.Pi*a)+2*b+0.1*rng.NormFloat64())
	}
	return X, y
}

func trainR2(t *testing.T, m model.Regressor, X, y *mat.Dense) float64 {
	t.Helper()
	if err := m.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	pred, err := m.Predict(X)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := metrics.R2Score(y.ColView(0), mat.NewVecDense(len(model.Column(pred)), model.Column(pred)))
	if err != nil {
		t.Fatal(err)
	}
	return r2
}

func TestRandomForestFits(t *testing.T) {
	X, y := friedmanLike(120)
	rf := NewRandomForestRegressor()
	rf.NEstimators = 30

	if r2 := trainR2(t, rf, X, y); r2 < 0.9 {
		t.Errorf("training R² = %v, want >= 0.9", r2)
	}
	if len(rf.Trees()) != 30 {
		t.Errorf("got %d trees, want 30", len(rf.Trees()))
	}

	imp, err := rf.FeatureImportances()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(floats.Sum(imp)-1) > 1e-9 {
		t.Errorf("importances sum to %v", floats.Sum(imp))
	}
	if floats.MaxIdx(imp) != 0 {
		t.Errorf("x0 should dominate, importances = %v", imp)
	}
}

func TestRandomForestDeterministicAcrossWorkers(t *testing.T) {
	X, y := friedmanLike(60)

	serial := NewRandomForestRegressor()
	serial.NEstimators = 20
	serial.Workers = 1
	wide := NewRandomForestRegressor()
	wide.NEstimators = 20
	wide.Workers = 8

	if err := serial.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := wide.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	ps, _ := serial.Predict(X)
	pw, _ := wide.Predict(X)
	if !mat.Equal(ps, pw) {
		t.Error("forest predictions depend on worker count")
	}

	other := NewRandomForestRegressor()
	other.NEstimators = 20
	other.Seed = 7
	if err := other.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	po, _ := other.Predict(X)
	if mat.Equal(ps, po) {
		t.Error("a different seed should give different bootstrap samples")
	}
}

func TestGradientBoostingFits(t *testing.T) {
	X, y := friedmanLike(120)
	gb := NewGradientBoostingRegressor()

	if r2 := trainR2(t, gb, X, y); r2 < 0.9 {
		t.Errorf("training R² = %v, want >= 0.9", r2)
	}

	loss := gb.TrainLoss()
	if len(loss) != 100 {
		t.Fatalf("got %d stages, want 100", len(loss))
	}
	for m := 1; m < len(loss); m++ {
		if loss[m] > loss[m-1]+1e-9 {
			t.Fatalf("training loss rose at stage %d: %v -> %v", m, loss[m-1], loss[m])
		}
	}

	imp, err := gb.FeatureImportances()
	if err != nil {
		t.Fatal(err)
	}
	if floats.MaxIdx(imp) != 0 {
		t.Errorf("x0 should dominate, importances = %v", imp)
	}
	if math.Abs(floats.Sum(imp)-1) > 1e-9 {
		t.Errorf("importances sum to %v", floats.Sum(imp))
	}
	// x2 はノイズのみ。後段の残差フィットに引きずられないこと
	if imp[2] > 0.1 {
		t.Errorf("irrelevant x2 importance = %v, want < 0.1", imp[2])
	}
}

func TestGradientBoostingSubsample(t *testing.T) {
	X, y := friedmanLike(80)

	a := NewGradientBoostingRegressor()
	a.Subsample = 0.5
	b := NewGradientBoostingRegressor()
	b.Subsample = 0.5
	if err := a.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	if err := b.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	pa, _ := a.Predict(X)
	pb, _ := b.Predict(X)
	if !mat.Equal(pa, pb) {
		t.Error("same seed should reproduce the same subsamples")
	}
}

func TestEnsembleErrors(t *testing.T) {
	X, y := friedmanLike(10)

	gb := NewGradientBoostingRegressor()
	gb.Subsample = 1.5
	if err := gb.Fit(X, y); err == nil {
		t.Error("subsample > 1 should be rejected")
	}

	rf := NewRandomForestRegressor()
	if _, err := rf.FeatureImportances(); err == nil {
		t.Error("FeatureImportances before Fit should fail")
	}
	rf.NEstimators = 0
	if err := rf.Fit(X, y); err == nil {
		t.Error("zero trees should be rejected")
	}

	rf = NewRandomForestRegressor()
	rf.NEstimators = 5
	if err := rf.Fit(X, y); err != nil {
		t.Fatal(err)
	}
	_, err := rf.Predict(mat.NewDense(2, 2, nil))
	var de *errors.DimensionError
	if !errors.As(err, &de) {
		t.Errorf("got %v, want DimensionError", err)
	}
}

func TestMinSamplesReachTrees(t *testing.T) {
	X, y := friedmanLike(40)

	// 行数より大きい min_samples_split では根で分割できない
	rf := NewRandomForestRegressor()
	rf.NEstimators = 5
	rf.MinSamplesSplit = 100
	gb := NewGradientBoostingRegressor()
	gb.NEstimators = 5
	gb.MinSamplesSplit = 100

	for _, m := range []model.Regressor{rf, gb} {
		if err := m.Fit(X, y); err != nil {
			t.Fatal(err)
		}
		pred, err := m.Predict(X)
		if err != nil {
			t.Fatal(err)
		}
		col := model.Column(pred)
		if floats.Max(col)-floats.Min(col) > 1e-9 {
			t.Errorf("%T: predictions vary (%v..%v), want a single leaf", m, floats.Min(col), floats.Max(col))
		}
	}

	bad := NewGradientBoostingRegressor()
	bad.MinSamplesLeaf = 0
	if err := bad.Fit(X, y); err == nil {
		t.Error("min_samples_leaf 0 should be rejected by the trees")
	}
}

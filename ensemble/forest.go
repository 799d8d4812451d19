// Package ensemble implements bagged and boosted regression trees.
package ensemble

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/core/parallel"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/tree"
)

// DefaultSeed is the random state of both ensembles.
const DefaultSeed uint64 = 42

// RandomForestRegressor averages unpruned trees grown on bootstrap samples.
// Every tree considers all features at each split.
type RandomForestRegressor struct {
	state *model.StateManager

	NEstimators     int
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int
	Bootstrap       bool
	Seed            uint64
	Workers         int // 0 means one per CPU

	trees []*tree.DecisionTreeRegressor
}

// NewRandomForestRegressor returns a 100-tree forest seeded with DefaultSeed.
func NewRandomForestRegressor() *RandomForestRegressor {
	return &RandomForestRegressor{
		state:           model.NewStateManager("RandomForestRegressor"),
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Bootstrap:       true,
		Seed:            DefaultSeed,
	}
}

// Fit grows the trees concurrently. Tree i draws its bootstrap sample from
// its own PCG stream (Seed, i), so the fit does not depend on scheduling.
func (f *RandomForestRegressor) Fit(X, y mat.Matrix) error {
	n, p, err := model.CheckFitInput("RandomForestRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	if f.NEstimators < 1 {
		return errors.NewValidationError("n_estimators", "must be at least 1", f.NEstimators)
	}

	Xd := mat.DenseCopyOf(X)
	yd := mat.DenseCopyOf(y)
	trees := make([]*tree.DecisionTreeRegressor, f.NEstimators)

	err = parallel.ForEach(f.NEstimators, f.Workers, func(i int) (err error) {
		defer errors.Recover(&err, "RandomForestRegressor.Fit")

		Xi, yi := Xd, yd
		if f.Bootstrap {
			rng := rand.New(rand.NewPCG(f.Seed, uint64(i)))
			Xi, yi = resample(Xd, yd, bootstrapRows(rng, n))
		}
		t := tree.NewDecisionTreeRegressor(
			tree.WithMaxDepth(f.MaxDepth),
			tree.WithMinSamplesSplit(f.MinSamplesSplit),
			tree.WithMinSamplesLeaf(f.MinSamplesLeaf),
		)
		if err := t.Fit(Xi, yi); err != nil {
			return err
		}
		trees[i] = t
		return nil
	})
	if err != nil {
		return err
	}

	f.trees = trees
	f.state.SetFitted(p, n)
	return nil
}

// Predict returns the mean of the tree predictions.
func (f *RandomForestRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := f.state.CheckPredictInput("Predict", X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	sum := make([]float64, r)
	for _, t := range f.trees {
		pred, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		floats.Add(sum, model.Column(pred))
	}
	floats.Scale(1/float64(len(f.trees)), sum)
	return mat.NewDense(r, 1, sum), nil
}

// FeatureImportances averages the normalised per-tree importances.
func (f *RandomForestRegressor) FeatureImportances() ([]float64, error) {
	if err := f.state.RequireFitted("FeatureImportances"); err != nil {
		return nil, err
	}
	return averageImportances(f.trees)
}

// IsFitted reports whether Fit has succeeded.
func (f *RandomForestRegressor) IsFitted() bool { return f.state.IsFitted() }

// Trees returns the fitted trees.
func (f *RandomForestRegressor) Trees() []*tree.DecisionTreeRegressor { return f.trees }

func bootstrapRows(rng *rand.Rand, n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = rng.IntN(n)
	}
	return rows
}

func resample(X, y *mat.Dense, rows []int) (*mat.Dense, *mat.Dense) {
	_, p := X.Dims()
	Xs := mat.NewDense(len(rows), p, nil)
	ys := mat.NewDense(len(rows), 1, nil)
	for k, i := range rows {
		Xs.SetRow(k, X.RawRowView(i))
		ys.Set(k, 0, y.At(i, 0))
	}
	return Xs, ys
}

func averageImportances(trees []*tree.DecisionTreeRegressor) ([]float64, error) {
	var sum []float64
	for _, t := range trees {
		imp, err := t.FeatureImportances()
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = make([]float64, len(imp))
		}
		floats.Add(sum, imp)
	}
	if total := floats.Sum(sum); total > 0 {
		floats.Scale(1/total, sum)
	}
	return sum, nil
}

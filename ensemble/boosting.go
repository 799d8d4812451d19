package ensemble

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/tree"
)

// GradientBoostingRegressor fits shallow trees to the residuals of the
// squared-error loss, starting from the training mean.
type GradientBoostingRegressor struct {
	state *model.StateManager

	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Subsample       float64 // fraction of rows per stage; 1 uses every row
	Seed            uint64

	init   float64
	stages []*tree.DecisionTreeRegressor
	loss   []float64
}

// NewGradientBoostingRegressor returns 100 depth-3 stages with learning rate 0.1.
func NewGradientBoostingRegressor() *GradientBoostingRegressor {
	return &GradientBoostingRegressor{
		state:           model.NewStateManager("GradientBoostingRegressor"),
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Subsample:       1,
		Seed:            DefaultSeed,
	}
}

// Fit runs the boosting stages sequentially.
func (g *GradientBoostingRegressor) Fit(X, y mat.Matrix) error {
	n, p, err := model.CheckFitInput("GradientBoostingRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	switch {
	case g.NEstimators < 1:
		return errors.NewValidationError("n_estimators", "must be at least 1", g.NEstimators)
	case g.LearningRate <= 0:
		return errors.NewValidationError("learning_rate", "must be positive", g.LearningRate)
	case g.Subsample <= 0 || g.Subsample > 1:
		return errors.NewValidationError("subsample", "must be in (0, 1]", g.Subsample)
	}

	Xd := mat.DenseCopyOf(X)
	target := model.Column(y)
	rng := rand.New(rand.NewPCG(g.Seed, g.Seed))

	g.init = stat.Mean(target, nil)
	current := make([]float64, n)
	for i := range current {
		current[i] = g.init
	}
	residual := mat.NewDense(n, 1, nil)
	g.stages = make([]*tree.DecisionTreeRegressor, 0, g.NEstimators)
	g.loss = make([]float64, 0, g.NEstimators)

	for m := 0; m < g.NEstimators; m++ {
		for i := 0; i < n; i++ {
			residual.Set(i, 0, target[i]-current[i])
		}

		Xm, rm := Xd, residual
		if g.Subsample < 1 {
			Xm, rm = resample(Xd, residual, subsampleRows(rng, n, g.Subsample))
		}

		t := tree.NewDecisionTreeRegressor(
			tree.WithMaxDepth(g.MaxDepth),
			tree.WithMinSamplesSplit(g.MinSamplesSplit),
			tree.WithMinSamplesLeaf(g.MinSamplesLeaf),
		)
		if err := t.Fit(Xm, rm); err != nil {
			return errors.Wrapf(err, "boosting stage %d", m)
		}
		step, err := t.Predict(Xd)
		if err != nil {
			return err
		}
		floats.AddScaled(current, g.LearningRate, model.Column(step))
		if err := errors.CheckNumericalStability("GradientBoostingRegressor.Fit", current, m); err != nil {
			return err
		}

		loss := squaredLoss(target, current)
		if err := errors.CheckScalar("GradientBoostingRegressor.Fit", loss, m); err != nil {
			return err
		}
		g.stages = append(g.stages, t)
		g.loss = append(g.loss, loss)
	}

	g.state.SetFitted(p, n)
	return nil
}

// Predict returns init + learning_rate · Σ stage predictions.
func (g *GradientBoostingRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := g.state.CheckPredictInput("Predict", X); err != nil {
		return nil, err
	}
	r, _ := X.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = g.init
	}
	for _, t := range g.stages {
		step, err := t.Predict(X)
		if err != nil {
			return nil, err
		}
		floats.AddScaled(out, g.LearningRate, model.Column(step))
	}
	return mat.NewDense(r, 1, out), nil
}

// FeatureImportances sums the raw impurity decrease of every stage and
// normalises once, so late stages fitting small residuals weigh little.
func (g *GradientBoostingRegressor) FeatureImportances() ([]float64, error) {
	if err := g.state.RequireFitted("FeatureImportances"); err != nil {
		return nil, err
	}
	p, _ := g.state.Dimensions()
	sum := make([]float64, p)
	for _, t := range g.stages {
		floats.Add(sum, t.RawImportances())
	}
	if total := floats.Sum(sum); total > 0 {
		floats.Scale(1/total, sum)
	}
	return sum, nil
}

// TrainLoss returns the training mean squared error after each stage.
func (g *GradientBoostingRegressor) TrainLoss() []float64 {
	return append([]float64(nil), g.loss...)
}

// IsFitted reports whether Fit has succeeded.
func (g *GradientBoostingRegressor) IsFitted() bool { return g.state.IsFitted() }

func subsampleRows(rng *rand.Rand, n int, frac float64) []int {
	k := int(frac * float64(n))
	if k < 1 {
		k = 1
	}
	perm := rng.Perm(n)
	return perm[:k]
}

func squaredLoss(y, pred []float64) float64 {
	var s float64
	for i := range y {
		d := y[i] - pred[i]
		s += d * d
	}
	return s / float64(len(y))
}

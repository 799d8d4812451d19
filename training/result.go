package training

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/RudolfRTC/AI-Research/metrics"
	"github.com/RudolfRTC/AI-Research/models"
)

// Key identifies a result in the run history. Two runs with the same model,
// feature list and target are the same experiment.
type Key struct {
	Model    models.Kind
	Features string
	Target   string
}

// Result is the record of one completed run. MAPE values are percentages.
// Results carry no trained estimator.
type Result struct {
	RunID        string        `json:"run_id" yaml:"run_id"`
	Model        models.Kind   `json:"model" yaml:"model"`
	Features     string        `json:"features" yaml:"features"`
	Target       string        `json:"target" yaml:"target"`
	R2           float64       `json:"r2" yaml:"r2"`
	MAPE         float64       `json:"mape" yaml:"mape"`
	RMSE         float64       `json:"rmse" yaml:"rmse"`
	CVMeanR2     float64       `json:"cv_mean_r2" yaml:"cv_mean_r2"`
	CVScores     []float64     `json:"cv_scores" yaml:"cv_scores"`
	BaselineR2   float64       `json:"baseline_r2" yaml:"baseline_r2"`
	BaselineMAPE float64       `json:"baseline_mape" yaml:"baseline_mape"`
	BaselineRMSE float64       `json:"baseline_rmse" yaml:"baseline_rmse"`
	TrainSize    int           `json:"train_size" yaml:"train_size"`
	TestSize     int           `json:"test_size" yaml:"test_size"`
	Duration     time.Duration `json:"duration" yaml:"duration"`

	// Hold-out target and model prediction, kept for plotting only.
	TestActual    []float64 `json:"-" yaml:"-"`
	TestPredicted []float64 `json:"-" yaml:"-"`
}

// Key returns the history key of r.
func (r Result) Key() Key {
	return Key{Model: r.Model, Features: r.Features, Target: r.Target}
}

// FeatureList splits the stored feature label back into names.
func (r Result) FeatureList() []string {
	return splitFeatures(r.Features)
}

// HasFeature reports whether name was one of the run's inputs.
func (r Result) HasFeature(name string) bool {
	for _, f := range r.FeatureList() {
		if f == name {
			return true
		}
	}
	return false
}

// MAPEReduction is the relative MAPE improvement over the baseline,
// (baseline − model) / baseline. ok is false when the baseline MAPE is not
// positive.
func (r Result) MAPEReduction() (reduction float64, ok bool) {
	if !(r.BaselineMAPE > 0) {
		return 0, false
	}
	return (r.BaselineMAPE - r.MAPE) / r.BaselineMAPE, true
}

// 小数点以下の桁数
const (
	scoreDigits = 4
	mapeDigits  = 2
)

func newResult(cfg Config, model, baseline metrics.Evaluation, cv []float64, cvMean float64) Result {
	scores := make([]float64, len(cv))
	for i, s := range cv {
		scores[i] = scalar.RoundEven(s, scoreDigits)
	}
	return Result{
		Model:        cfg.Model,
		Features:     cfg.FeatureLabel(),
		Target:       cfg.Target,
		R2:           scalar.RoundEven(model.R2, scoreDigits),
		MAPE:         scalar.RoundEven(model.MAPE*100, mapeDigits),
		RMSE:         scalar.RoundEven(model.RMSE, scoreDigits),
		CVMeanR2:     scalar.RoundEven(cvMean, scoreDigits),
		CVScores:     scores,
		BaselineR2:   scalar.RoundEven(baseline.R2, scoreDigits),
		BaselineMAPE: scalar.RoundEven(baseline.MAPE*100, mapeDigits),
		BaselineRMSE: scalar.RoundEven(baseline.RMSE, scoreDigits),
	}
}

func splitFeatures(label string) []string {
	if label == "" {
		return nil
	}
	return strings.Split(label, ", ")
}

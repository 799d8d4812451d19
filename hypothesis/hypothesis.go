// Package hypothesis judges the RQ4 hypotheses (H4a–H4d) against the results
// recorded in a run history.
package hypothesis

import (
	"fmt"
	"strings"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/training"
)

// Status is the verdict on one hypothesis.
type Status string

const (
	Supported        Status = "SUPPORTED"
	NotSupported     Status = "NOT SUPPORTED"
	InsufficientData Status = "INSUFFICIENT DATA"
)

// Thresholds.
const (
	MaxToolLifeMAPE      = 15.0 // percent
	MinToolLifeR2        = 0.75
	MinMAPEReduction     = 10.0 // percent of the baseline MAPE
	TopImportanceFeature = 3
)

// Definition is the fixed wording of a hypothesis.
type Definition struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Criterion   string `json:"criterion" yaml:"criterion"`
}

// Definitions lists the hypotheses in evaluation order.
var Definitions = []Definition{
	{
		ID:          "H4a",
		Description: "Conductivity-based features improve predictive accuracy for tool life beyond hardness-only baselines.",
		Criterion:   "MAPE < 15% AND R² > 0.75 for tool_life target",
	},
	{
		ID:          "H4b",
		Description: "ML models incorporating conductivity achieve > 10% lower MAPE than the HardnessOnly baseline.",
		Criterion:   "Relative MAPE improvement > 10% vs baseline",
	},
	{
		ID:          "H4c",
		Description: "Random Forest or Gradient Boosting outperforms linear models when conductivity features are included.",
		Criterion:   "Non-linear model R² exceeds linear model R²",
	},
	{
		ID:          "H4d",
		Description: "Feature importance analysis ranks conductivity among the top-3 predictors.",
		Criterion:   "Conductivity in top-3 features by importance",
	},
}

// Outcome is the verdict on one hypothesis plus the numbers behind it.
type Outcome struct {
	Definition `yaml:",inline"`

	Status      Status             `json:"status" yaml:"status"`
	Model       models.Kind        `json:"model,omitempty" yaml:"model,omitempty"`
	Target      string             `json:"target,omitempty" yaml:"target,omitempty"`
	Evidence    map[string]float64 `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	TopFeatures []string           `json:"top_features,omitempty" yaml:"top_features,omitempty"`
	Message     string             `json:"message" yaml:"message"`
}

// Evaluator judges hypotheses. Table and NewModel are only needed for H4d,
// which refits the best ensemble on the full table.
type Evaluator struct {
	Table    *dataset.Table
	NewModel training.ModelFunc
}

// NewEvaluator returns an evaluator using the default model factory.
func NewEvaluator(t *dataset.Table) *Evaluator {
	return &Evaluator{Table: t, NewModel: models.New}
}

// Evaluate returns one outcome per Definition, in order. An empty snapshot
// yields InsufficientData for all four. The error is non-nil only when the
// H4d refit fails.
func (e *Evaluator) Evaluate(snapshot []training.Result) ([]Outcome, error) {
	out := make([]Outcome, len(Definitions))
	for i, def := range Definitions {
		out[i] = Outcome{Definition: def}
	}
	if len(snapshot) == 0 {
		for i := range out {
			out[i].Status = InsufficientData
			out[i].Message = "No models trained yet. Train a model to evaluate hypotheses."
		}
		return out, nil
	}

	evalToolLife(&out[0], snapshot)
	evalBaselineReduction(&out[1], snapshot)
	evalNonlinear(&out[2], snapshot)
	if err := e.evalImportance(&out[3], snapshot); err != nil {
		return nil, err
	}
	return out, nil
}

// evalToolLife: lowest-MAPE tool_life run must have MAPE < 15% and R² > 0.75.
func evalToolLife(o *Outcome, results []training.Result) {
	var best *training.Result
	for i := range results {
		r := &results[i]
		if r.Target != dataset.ColToolLife {
			continue
		}
		if best == nil || r.MAPE < best.MAPE {
			best = r
		}
	}
	if best == nil {
		o.Status = InsufficientData
		o.Message = "No models trained on tool_life target yet."
		return
	}

	o.Model, o.Target = best.Model, best.Target
	o.Evidence = map[string]float64{"mape": best.MAPE, "r2": best.R2}
	o.Status = verdict(best.MAPE < MaxToolLifeMAPE && best.R2 > MinToolLifeR2)
	o.Message = fmt.Sprintf("Best model (%s): MAPE = %.2f%%, R² = %.4f", best.Model, best.MAPE, best.R2)
}

// evalBaselineReduction: best relative MAPE reduction over the baseline
// must exceed 10%.
func evalBaselineReduction(o *Outcome, results []training.Result) {
	var best *training.Result
	bestReduction := 0.0
	for i := range results {
		r := &results[i]
		red, ok := r.MAPEReduction()
		if !ok {
			continue
		}
		red *= 100
		if best == nil || red > bestReduction {
			best, bestReduction = r, red
		}
	}
	if best == nil {
		o.Status = InsufficientData
		o.Message = "No baseline comparisons available."
		return
	}

	o.Model, o.Target = best.Model, best.Target
	o.Evidence = map[string]float64{
		"mape":          best.MAPE,
		"baseline_mape": best.BaselineMAPE,
		"reduction_pct": bestReduction,
	}
	passed := bestReduction > MinMAPEReduction
	o.Status = verdict(passed)
	o.Message = fmt.Sprintf("Best improvement (%s on %s): %.1f%% MAPE reduction vs baseline", best.Model, best.Target, bestReduction)
	if !passed {
		o.Message += " (need > 10%)"
	}
}

// evalNonlinear: best ensemble R² must exceed the best linear-family R².
func evalNonlinear(o *Outcome, results []training.Result) {
	var bestLinear, bestNonlinear *training.Result
	for i := range results {
		r := &results[i]
		switch {
		case r.Model.IsLinearFamily():
			if bestLinear == nil || r.R2 > bestLinear.R2 {
				bestLinear = r
			}
		case r.Model.IsEnsemble():
			if bestNonlinear == nil || r.R2 > bestNonlinear.R2 {
				bestNonlinear = r
			}
		}
	}
	if bestLinear == nil || bestNonlinear == nil {
		o.Status = InsufficientData
		o.Message = "Need at least one linear model (Linear Regression/SVR) and one non-linear model (Random Forest/Gradient Boosting) trained to evaluate."
		return
	}

	o.Model, o.Target = bestNonlinear.Model, bestNonlinear.Target
	o.Evidence = map[string]float64{"nonlinear_r2": bestNonlinear.R2, "linear_r2": bestLinear.R2}
	passed := bestNonlinear.R2 > bestLinear.R2
	o.Status = verdict(passed)
	cmp := ">"
	if !passed {
		cmp = "<="
	}
	o.Message = fmt.Sprintf("%s (R² = %.4f) %s %s (R² = %.4f)",
		bestNonlinear.Model, bestNonlinear.R2, cmp, bestLinear.Model, bestLinear.R2)
}

// evalImportance refits the best ensemble that used conductivity on the full
// table and checks that conductivity ranks in the top three.
func (e *Evaluator) evalImportance(o *Outcome, results []training.Result) error {
	var best *training.Result
	for i := range results {
		r := &results[i]
		if !r.Model.IsEnsemble() || !r.HasFeature(dataset.ColConductivity) {
			continue
		}
		if best == nil || r.R2 > best.R2 {
			best = r
		}
	}
	if best == nil {
		o.Status = InsufficientData
		o.Message = "Need a Random Forest or Gradient Boosting model trained with conductivity in the feature set to evaluate."
		return nil
	}

	newModel := e.NewModel
	if newModel == nil {
		newModel = models.New
	}
	ranked, err := training.RankImportances(e.Table, best.FeatureList(), best.Target, best.Model, newModel)
	if err != nil {
		return err
	}

	top := make([]string, 0, TopImportanceFeature)
	for i := 0; i < len(ranked) && i < TopImportanceFeature; i++ {
		top = append(top, ranked[i].Feature)
	}
	o.Model, o.Target = best.Model, best.Target
	o.TopFeatures = top
	o.Evidence = map[string]float64{
		"r2":                best.R2,
		"conductivity_rank": float64(training.Rank(ranked, dataset.ColConductivity)),
	}
	passed := training.Rank(ranked, dataset.ColConductivity) <= TopImportanceFeature
	o.Status = verdict(passed)
	o.Message = fmt.Sprintf("Top-3 features for %s: [%s]", best.Model, strings.Join(top, ", "))
	if !passed {
		o.Message += " (conductivity not in top 3)"
	}
	return nil
}

func verdict(passed bool) Status {
	if passed {
		return Supported
	}
	return NotSupported
}

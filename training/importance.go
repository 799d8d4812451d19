package training

import (
	"sort"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// FeatureImportance is one ranked input of a fitted ensemble.
type FeatureImportance struct {
	Feature    string  `json:"feature" yaml:"feature"`
	Importance float64 `json:"importance" yaml:"importance"`
}

// Importances fits kind on every complete row of t with the orchestrator's
// model factory. See RankImportances.
func (o *Orchestrator) Importances(t *dataset.Table, features []string, target string, kind models.Kind) ([]FeatureImportance, error) {
	return RankImportances(t, features, target, kind, o.newModel)
}

// RankImportances fits a fresh kind from newModel on every complete row of t
// and returns the feature importances in descending order. Equal
// importances keep the order of features.
func RankImportances(t *dataset.Table, features []string, target string, kind models.Kind, newModel ModelFunc) (ranked []FeatureImportance, err error) {
	defer errors.Recover(&err, "training.RankImportances")

	if t == nil {
		return nil, errors.NewInvalidConfigurationError("dataset", "no dataset", nil)
	}
	cfg := NewConfig(kind, features, target)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cols := append(append([]string(nil), features...), target)
	if err := dataset.RequireColumns(t, cols...); err != nil {
		return nil, err
	}
	data, err := t.DropMissing(cols...)
	if err != nil {
		return nil, err
	}
	if data.Len() < 2 {
		return nil, errors.NewInsufficientSampleError("training.RankImportances", data.Len(), 2)
	}
	X, err := data.Matrix(features...)
	if err != nil {
		return nil, err
	}
	y, err := data.Matrix(target)
	if err != nil {
		return nil, err
	}

	est, err := newModel(kind)
	if err != nil {
		return nil, err
	}
	imp, ok := est.(model.FeatureImportancer)
	if !ok {
		return nil, errors.NewValueError("training.RankImportances", kind.String()+" does not expose feature importances")
	}
	if err := est.Fit(X, y); err != nil {
		return nil, err
	}
	values, err := imp.FeatureImportances()
	if err != nil {
		return nil, err
	}

	ranked = make([]FeatureImportance, len(features))
	for i, f := range features {
		ranked[i] = FeatureImportance{Feature: f, Importance: values[i]}
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].Importance > ranked[b].Importance
	})
	return ranked, nil
}

// Rank returns the 1-based position of feature in ranked, or 0.
func Rank(ranked []FeatureImportance, feature string) int {
	for i, fi := range ranked {
		if fi.Feature == feature {
			return i + 1
		}
	}
	return 0
}

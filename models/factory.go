// Package models maps the supported model kinds to fresh estimators with
// fixed hyperparameters.
package models

import (
	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/ensemble"
	"github.com/RudolfRTC/AI-Research/linear"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/svm"
)

// Kind identifies a supported regression model.
type Kind int

const (
	LinearRegression Kind = iota + 1
	SVR
	RandomForest
	GradientBoosting
)

var names = map[Kind]string{
	LinearRegression: "Linear Regression",
	SVR:              "SVR",
	RandomForest:     "Random Forest",
	GradientBoosting: "Gradient Boosting",
}

// Kinds returns every supported kind in display order.
func Kinds() []Kind {
	return []Kind{LinearRegression, SVR, RandomForest, GradientBoosting}
}

// Names returns the display names of Kinds().
func Names() []string {
	out := make([]string, 0, len(names))
	for _, k := range Kinds() {
		out = append(out, k.String())
	}
	return out
}

// ParseKind maps a display name to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if names[k] == name {
			return k, nil
		}
	}
	return 0, errors.NewUnknownModelError(name, Names())
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return "Unknown"
}

// Valid reports whether k is one of Kinds().
func (k Kind) Valid() bool {
	_, ok := names[k]
	return ok
}

// IsEnsemble reports whether k exposes feature importances.
func (k Kind) IsEnsemble() bool {
	return k == RandomForest || k == GradientBoosting
}

// IsLinearFamily reports whether k belongs to the linear/kernel group
// compared against the ensembles.
func (k Kind) IsLinearFamily() bool {
	return k == LinearRegression || k == SVR
}

// MarshalText encodes k as its display name.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, errors.NewUnknownModelError(k.String(), Names())
	}
	return []byte(k.String()), nil
}

// UnmarshalText parses a display name.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// New returns an unfitted estimator for kind. Every call builds a new
// instance, so two fits never share state.
func New(kind Kind) (model.Regressor, error) {
	switch kind {
	case LinearRegression:
		return linear.NewLinearRegression(), nil
	case SVR:
		return svm.NewSVR(), nil
	case RandomForest:
		return ensemble.NewRandomForestRegressor(), nil
	case GradientBoosting:
		return ensemble.NewGradientBoostingRegressor(), nil
	default:
		return nil, errors.NewUnknownModelError(kind.String(), Names())
	}
}

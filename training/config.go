package training

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// Defaults used by NewConfig.
const (
	DefaultSeed     uint64 = 42
	DefaultTestSize        = 0.2
	DefaultCVFolds         = 5
)

// BaselineColumn is the single input of the hardness-only baseline.
const BaselineColumn = dataset.ColHardness

// validate is shared by every Config; validator caches struct metadata.
var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

// Config describes one training run.
type Config struct {
	Model    models.Kind `json:"model" yaml:"model"`
	Features []string    `json:"features" yaml:"features" validate:"required,min=1,unique,dive,required"`
	Target   string      `json:"target" yaml:"target" validate:"required"`
	TestSize float64     `json:"test_size" yaml:"test_size" validate:"gt=0,lt=1"`
	CVFolds  int         `json:"cv_folds" yaml:"cv_folds" validate:"gte=2"`
	Seed     uint64      `json:"seed" yaml:"seed"`
}

// NewConfig returns a config with the default split, fold count and seed.
func NewConfig(kind models.Kind, features []string, target string) Config {
	return Config{
		Model:    kind,
		Features: append([]string(nil), features...),
		Target:   target,
		TestSize: DefaultTestSize,
		CVFolds:  DefaultCVFolds,
		Seed:     DefaultSeed,
	}
}

// Validate checks the config on its own. Range failures and cross-field
// failures are InvalidConfigurationErrors; an unsupported model kind is an
// UnknownModelError.
func (c Config) Validate() error {
	if !c.Model.Valid() {
		return errors.NewUnknownModelError(c.Model.String(), models.Names())
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewInvalidConfigurationError(fe.Field(), failedRule(fe), fe.Value())
		}
		return errors.Wrap(err, "validate training config")
	}

	for _, f := range c.Features {
		if !dataset.IsFeature(f) {
			return errors.NewInvalidConfigurationError("features", "not a feature column", f)
		}
		if f == c.Target {
			return errors.NewInvalidConfigurationError("target", "target is also selected as a feature", c.Target)
		}
	}
	if !dataset.IsTarget(c.Target) {
		return errors.NewInvalidConfigurationError("target", "not a target column", c.Target)
	}
	return nil
}

// ValidateFor checks the config against the columns of t. The baseline
// needs a hardness column even when hardness is not a selected feature.
func (c Config) ValidateFor(t *dataset.Table) error {
	if err := c.Validate(); err != nil {
		return err
	}
	var missing []string
	for _, name := range c.required() {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.NewInvalidConfigurationError("columns", "missing from dataset", missing)
	}
	return nil
}

// FeatureLabel joins the features the way result keys store them.
func (c Config) FeatureLabel() string {
	return strings.Join(c.Features, ", ")
}

// required lists every column a run reads, without duplicates.
func (c Config) required() []string {
	cols := append(append([]string(nil), c.Features...), c.Target)
	for _, f := range c.Features {
		if f == BaselineColumn {
			return cols
		}
	}
	return append(cols, BaselineColumn)
}

func failedRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
	return fmt.Sprintf("failed %q rule (%s)", fe.Tag(), fe.Param())
}

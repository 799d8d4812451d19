// Package config loads the YAML configuration of the machinability CLI.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/training"
)

// configValidate is the validator for configuration structs. Initialized in
// init() with the custom model-name rule.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()
	configValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = configValidate.RegisterValidation("modelkind", validateModelKind)
}

// validateModelKind accepts the display name of a supported model.
func validateModelKind(fl validator.FieldLevel) bool {
	_, err := models.ParseKind(fl.Field().String())
	return err == nil
}

// Config is the top-level configuration.
type Config struct {
	LogLevel string         `json:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	Dataset  DatasetConfig  `json:"dataset" yaml:"dataset"`
	Training TrainingConfig `json:"training" yaml:"training"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// DatasetConfig selects the data source. CSV (a .csv or .xlsx path) wins over
// the generator when set.
type DatasetConfig struct {
	Samples int    `json:"samples" yaml:"samples" validate:"gt=0"`
	Seed    uint64 `json:"seed" yaml:"seed"`
	CSV     string `json:"csv" yaml:"csv"`
}

// TrainingConfig holds the run settings shared by train and benchmark.
type TrainingConfig struct {
	Model    string   `json:"model" yaml:"model" validate:"modelkind"`
	Models   []string `json:"models" yaml:"models" validate:"required,min=1,unique,dive,modelkind"`
	Features []string `json:"features" yaml:"features" validate:"required,min=1,unique,dive,oneof=conductivity hardness composition_C composition_Mn composition_Cr"`
	Target   string   `json:"target" yaml:"target" validate:"oneof=tool_life Ra Fc"`
	TestSize float64  `json:"test_size" yaml:"test_size" validate:"gt=0,lt=1"`
	CVFolds  int      `json:"cv_folds" yaml:"cv_folds" validate:"gte=2"`
	Seed     uint64   `json:"seed" yaml:"seed"`
}

// OutputConfig controls rendered plots. An empty PlotsDir disables plots.
type OutputConfig struct {
	PlotsDir string `json:"plots_dir" yaml:"plots_dir"`
	Format   string `json:"format" yaml:"format" validate:"oneof=png svg pdf"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LogLevel: "info",
		Dataset: DatasetConfig{
			Samples: 80,
			Seed:    training.DefaultSeed,
		},
		Training: TrainingConfig{
			Model:    models.RandomForest.String(),
			Models:   models.Names(),
			Features: []string{dataset.ColConductivity, dataset.ColHardness},
			Target:   dataset.ColToolLife,
			TestSize: training.DefaultTestSize,
			CVFolds:  training.DefaultCVFolds,
			Seed:     training.DefaultSeed,
		},
		Output: OutputConfig{
			Format: "png",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open config %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads YAML from r over the defaults. Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.NewInvalidConfigurationError("yaml", err.Error(), nil)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field rule. The first failure is returned as an
// InvalidConfigurationError naming the YAML path.
func (c Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewInvalidConfigurationError(yamlPath(fe), fmt.Sprintf("failed %q rule", fe.Tag()), fe.Value())
		}
		return errors.Wrap(err, "validate config")
	}
	return nil
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return errors.Wrap(err, "encode config")
	}
	return enc.Close()
}

// String renders c as YAML.
func (c Config) String() string {
	var buf bytes.Buffer
	_ = c.Encode(&buf)
	return buf.String()
}

// TrainingConfig converts the training section for the configured model.
func (c Config) TrainingConfig() (training.Config, error) {
	kind, err := models.ParseKind(c.Training.Model)
	if err != nil {
		return training.Config{}, err
	}
	return c.TrainingConfigFor(kind), nil
}

// TrainingConfigFor converts the training section for kind.
func (c Config) TrainingConfigFor(kind models.Kind) training.Config {
	tc := training.NewConfig(kind, c.Training.Features, c.Training.Target)
	tc.TestSize = c.Training.TestSize
	tc.CVFolds = c.Training.CVFolds
	tc.Seed = c.Training.Seed
	return tc
}

// Kinds parses the benchmark model list.
func (c Config) Kinds() ([]models.Kind, error) {
	kinds := make([]models.Kind, 0, len(c.Training.Models))
	for _, name := range c.Training.Models {
		k, err := models.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// yamlPath turns "Config.training.cv_folds" into "training.cv_folds".
func yamlPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

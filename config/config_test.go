package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	tc, err := cfg.TrainingConfig()
	require.NoError(t, err)
	assert.Equal(t, models.RandomForest, tc.Model)
	assert.Equal(t, uint64(42), tc.Seed)
	assert.Equal(t, 5, tc.CVFolds)
	assert.Equal(t, 0.2, tc.TestSize)

	kinds, err := cfg.Kinds()
	require.NoError(t, err)
	assert.Equal(t, models.Kinds(), kinds)
}

func TestDecodeOverridesDefaults(t *testing.T) {
	cfg, err := Decode(strings.NewReader(`
log_level: debug
dataset:
  samples: 120
training:
  model: Gradient Boosting
  features: [conductivity, hardness, composition_C]
  target: Fc
  cv_folds: 3
output:
  plots_dir: out
  format: svg
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 120, cfg.Dataset.Samples)
	assert.Equal(t, uint64(42), cfg.Dataset.Seed)
	assert.Equal(t, []string{"conductivity", "hardness", "composition_C"}, cfg.Training.Features)
	assert.Equal(t, 3, cfg.Training.CVFolds)
	assert.Equal(t, 0.2, cfg.Training.TestSize)
	assert.Equal(t, "svg", cfg.Output.Format)

	tc, err := cfg.TrainingConfig()
	require.NoError(t, err)
	assert.Equal(t, models.GradientBoosting, tc.Model)
	assert.Equal(t, "Fc", tc.Target)
}

func TestDecodeEmptyDocument(t *testing.T) {
	cfg, err := Decode(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		path string
	}{
		{"unknown key", "colour: red\n", "yaml"},
		{"bad log level", "log_level: loud\n", "log_level"},
		{"no samples", "dataset:\n  samples: 0\n", "dataset.samples"},
		{"unknown model", "training:\n  model: XGBoost\n", "training.model"},
		{"unknown benchmark model", "training:\n  models: [SVR, Lasso]\n", "training.models[1]"},
		{"bad feature", "training:\n  features: [tool_life]\n", "training.features[0]"},
		{"empty features", "training:\n  features: []\n", "training.features"},
		{"bad target", "training:\n  target: hardness\n", "training.target"},
		{"test size", "training:\n  test_size: 1.2\n", "training.test_size"},
		{"folds", "training:\n  cv_folds: 1\n", "training.cv_folds"},
		{"format", "output:\n  format: gif\n", "output.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.yaml))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration), "got %v", err)

			var ice *errors.InvalidConfigurationError
			require.True(t, errors.As(err, &ice))
			assert.Equal(t, tt.path, ice.Field)
		})
	}
}

func TestLoadAndEncodeRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "machinability.yaml")
	want := Default()
	want.Training.Target = "Ra"
	require.NoError(t, os.WriteFile(path, []byte(want.String()), 0o600))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/training"
	"github.com/RudolfRTC/AI-Research/visualization"
)

// runFlags are the run overrides shared by train and benchmark.
type runFlags struct {
	models   string
	features string
	target   string
	format   string
	save     string
	plot     bool
}

func (f *runFlags) register(cmd *cobra.Command, modelsHelp string) {
	cmd.Flags().StringVar(&f.models, "models", "", modelsHelp)
	cmd.Flags().StringVar(&f.features, "features", "", "Comma separated feature columns (default from config)")
	cmd.Flags().StringVarP(&f.target, "target", "t", "", "Target column: tool_life, Ra, Fc (default from config)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "Output format: table, yaml, json")
	cmd.Flags().StringVar(&f.save, "save", "", "Write the results as YAML for the hypotheses command")
	cmd.Flags().BoolVar(&f.plot, "plot", false, "Render result plots into output.plots_dir")
}

// session is one trained batch: the orchestrator holding its history and the
// table the runs used.
type session struct {
	orch    *training.Orchestrator
	table   *dataset.Table
	results []training.Result
}

func newTrainCmd(opts *options) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train one or more models against the hardness baseline",
		Long: `Train the configured model (or every model passed with --models) on the
configured features and target, and print test-set metrics, cross-validation
R² and the hardness-only baseline.

Examples:
  machinability train
  machinability train --models "Linear Regression,Random Forest" --target Ra
  machinability train --features conductivity --plot --save results.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds, err := f.kinds(opts, false)
			if err != nil {
				return err
			}
			s, err := train(opts, f, kinds)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), f.format, s.results)
		},
	}
	f.register(cmd, "Comma separated model names (default training.model)")
	return cmd
}

// kinds resolves --models, falling back to training.models for a benchmark
// and training.model otherwise.
func (f *runFlags) kinds(opts *options, benchmark bool) ([]models.Kind, error) {
	names := splitList(f.models)
	if len(names) == 0 {
		if benchmark {
			return opts.cfg.Kinds()
		}
		names = []string{opts.cfg.Training.Model}
	}
	kinds := make([]models.Kind, 0, len(names))
	for _, n := range names {
		k, err := models.ParseKind(n)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func (f *runFlags) config(opts *options, kind models.Kind) training.Config {
	tc := opts.cfg.TrainingConfigFor(kind)
	if features := splitList(f.features); len(features) > 0 {
		tc.Features = features
	}
	if f.target != "" {
		tc.Target = f.target
	}
	return tc
}

// train runs every kind in order and stops at the first failure.
func train(opts *options, f *runFlags, kinds []models.Kind) (*session, error) {
	if err := checkFormat(f.format); err != nil {
		return nil, err
	}
	if f.plot && opts.cfg.Output.PlotsDir == "" {
		return nil, errors.NewInvalidConfigurationError("output.plots_dir", "required for --plot", "")
	}
	t, err := opts.table()
	if err != nil {
		return nil, err
	}

	s := &session{orch: training.NewOrchestrator(), table: t}
	for _, kind := range kinds {
		if _, err := s.orch.Train(t, f.config(opts, kind)); err != nil {
			return nil, err
		}
	}
	s.results = s.orch.History().Snapshot()

	if f.save != "" {
		if err := saveResults(f.save, s.results); err != nil {
			return nil, err
		}
	}
	if f.plot {
		if err := s.plot(opts); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *session) plot(opts *options) error {
	for _, r := range s.results {
		title := fmt.Sprintf("%s: %s", r.Model, r.Target)

		p, err := visualization.ActualVsPredicted(r.TestActual, r.TestPredicted, title)
		if err != nil {
			return err
		}
		if err := savePlot(opts, p, r.Model.String(), r.Target, "actual_vs_predicted"); err != nil {
			return err
		}

		if p, err = visualization.Residuals(r.TestActual, r.TestPredicted, title); err != nil {
			return err
		}
		if err := savePlot(opts, p, r.Model.String(), r.Target, "residuals"); err != nil {
			return err
		}

		if p, err = visualization.CVScores(r.CVScores, title); err != nil {
			return err
		}
		if err := savePlot(opts, p, r.Model.String(), r.Target, "cv_scores"); err != nil {
			return err
		}

		if !r.Model.IsEnsemble() {
			continue
		}
		ranked, err := s.orch.Importances(s.table, r.FeatureList(), r.Target, r.Model)
		if err != nil {
			return err
		}
		if p, err = visualization.FeatureImportance(ranked, title); err != nil {
			return err
		}
		if err := savePlot(opts, p, r.Model.String(), r.Target, "feature_importance"); err != nil {
			return err
		}
	}

	if len(s.results) < 2 {
		return nil
	}
	p, err := visualization.ModelComparison(s.results)
	if err != nil {
		return err
	}
	return savePlot(opts, p, "model_comparison")
}

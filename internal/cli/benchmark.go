package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/hypothesis"
	"github.com/RudolfRTC/AI-Research/training"
)

// benchmarkReport is the yaml/json shape of a benchmark.
type benchmarkReport struct {
	Results    []training.Result    `json:"results" yaml:"results"`
	Hypotheses []hypothesis.Outcome `json:"hypotheses" yaml:"hypotheses"`
}

func newBenchmarkCmd(opts *options) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "benchmark",
		Short: "Train every model and evaluate the hypotheses",
		Long: `Train each model of training.models on the same features and target,
print the comparison and evaluate H4a-H4d on the results.

Examples:
  machinability benchmark
  machinability benchmark --features conductivity,hardness,composition_C --plot
  machinability benchmark --format yaml --save results.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kinds, err := f.kinds(opts, true)
			if err != nil {
				return err
			}
			s, err := train(opts, f, kinds)
			if err != nil {
				return err
			}
			outcomes, err := evaluate(s.table, s.results)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if f.format != formatTable {
				return encode(w, f.format, benchmarkReport{Results: s.results, Hypotheses: outcomes})
			}
			if err := writeResults(w, f.format, s.results); err != nil {
				return err
			}
			fmt.Fprintln(w)
			return writeOutcomes(w, f.format, outcomes)
		},
	}
	f.register(cmd, "Comma separated model names (default training.models)")
	return cmd
}

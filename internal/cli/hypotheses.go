package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/hypothesis"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/training"
)

type hypothesesFlags struct {
	results string
	format  string
}

func newHypothesesCmd(opts *options) *cobra.Command {
	f := &hypothesesFlags{}
	cmd := &cobra.Command{
		Use:   "hypotheses",
		Short: "Evaluate the research hypotheses on saved results",
		Long: `Evaluate H4a-H4d on results saved by "train --save" or "benchmark --save".
H4d refits the best ensemble on the configured dataset to rank importances.

Examples:
  machinability hypotheses --results results.yaml
  machinability hypotheses --results results.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHypotheses(cmd, opts, f)
		},
	}
	cmd.Flags().StringVarP(&f.results, "results", "r", "", "Results file written with --save")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "Output format: table, yaml, json")
	_ = cmd.MarkFlagRequired("results")
	return cmd
}

func runHypotheses(cmd *cobra.Command, opts *options, f *hypothesesFlags) error {
	if err := checkFormat(f.format); err != nil {
		return err
	}
	results, err := loadResults(f.results)
	if err != nil {
		return err
	}
	t, err := opts.table()
	if err != nil {
		return err
	}
	outcomes, err := evaluate(t, results)
	if err != nil {
		return err
	}
	return writeOutcomes(cmd.OutOrStdout(), f.format, outcomes)
}

func evaluate(t *dataset.Table, results []training.Result) ([]hypothesis.Outcome, error) {
	outcomes, err := hypothesis.NewEvaluator(t).Evaluate(results)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate hypotheses")
	}
	return outcomes, nil
}

func writeOutcomes(w io.Writer, format string, outcomes []hypothesis.Outcome) error {
	if format != formatTable {
		return encode(w, format, outcomes)
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "ID\tSTATUS\tDETAIL")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", o.ID, o.Status, o.Message)
	}
	return tw.Flush()
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/analysis"
)

type summaryFlags struct {
	columns string
	format  string
}

func newSummaryCmd(opts *options) *cobra.Command {
	f := &summaryFlags{}
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Describe numeric columns per steel grade",
		Long: `Print mean, sample standard deviation, min, max and count of each numeric
column for every steel grade.

Examples:
  machinability summary
  machinability summary --columns conductivity,hardness --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSummary(cmd, opts, f)
		},
	}
	cmd.Flags().StringVar(&f.columns, "columns", "", "Comma separated columns (default all numeric)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "Output format: table, yaml, json")
	return cmd
}

func runSummary(cmd *cobra.Command, opts *options, f *summaryFlags) error {
	if err := checkFormat(f.format); err != nil {
		return err
	}
	t, err := opts.table()
	if err != nil {
		return err
	}
	rows, err := analysis.Summarize(t, splitList(f.columns)...)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if f.format != formatTable {
		return encode(w, f.format, rows)
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "GRADE\tCOLUMN\tMEAN\tSTD\tMIN\tMAX\tCOUNT")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			r.Grade, r.Column, num(r.Mean, 3), num(r.Std, 3), num(r.Min, 3), num(r.Max, 3), r.Count)
	}
	return tw.Flush()
}

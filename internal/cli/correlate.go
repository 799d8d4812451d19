package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/analysis"
	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/visualization"
)

// Alpha is the significance level reported by correlate.
const Alpha = 0.05

type correlateFlags struct {
	x, y    string
	method  string
	matrix  bool
	byGrade bool
	columns string
	format  string
	plot    bool
}

func newCorrelateCmd(opts *options) *cobra.Command {
	f := &correlateFlags{}
	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Correlate conductivity with a machinability indicator",
		Long: `Compute the correlation between two columns, a full Pearson matrix or
the per-grade Pearson breakdown.

Examples:
  machinability correlate                                # conductivity vs tool_life
  machinability correlate --y Ra --method spearman
  machinability correlate --by-grade --y Fc
  machinability correlate --by-grade --plot             # per-grade scatter
  machinability correlate --matrix --plot               # heatmap into output.plots_dir`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCorrelate(cmd, opts, f)
		},
	}
	cmd.Flags().StringVar(&f.x, "x", dataset.ColConductivity, "First column")
	cmd.Flags().StringVar(&f.y, "y", dataset.ColToolLife, "Second column")
	cmd.Flags().StringVarP(&f.method, "method", "m", string(analysis.MethodPearson), "Coefficient: pearson, spearman")
	cmd.Flags().BoolVar(&f.matrix, "matrix", false, "Print the Pearson correlation matrix")
	cmd.Flags().BoolVar(&f.byGrade, "by-grade", false, "Correlate separately per steel grade (Pearson)")
	cmd.Flags().StringVar(&f.columns, "columns", "", "Comma separated matrix columns (default all numeric)")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatTable, "Output format: table, yaml, json")
	cmd.Flags().BoolVar(&f.plot, "plot", false, "Render a plot into output.plots_dir")
	return cmd
}

func runCorrelate(cmd *cobra.Command, opts *options, f *correlateFlags) error {
	if err := checkFormat(f.format); err != nil {
		return err
	}
	if f.plot && opts.cfg.Output.PlotsDir == "" {
		return errors.NewInvalidConfigurationError("output.plots_dir", "required for --plot", "")
	}
	t, err := opts.table()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	switch {
	case f.matrix:
		return correlateMatrix(w, opts, f, t)
	case f.byGrade:
		return correlateByGrade(w, opts, f, t)
	default:
		return correlatePair(w, opts, f, t)
	}
}

func correlatePair(w io.Writer, opts *options, f *correlateFlags, t *dataset.Table) error {
	x, err := t.Column(f.x)
	if err != nil {
		return err
	}
	y, err := t.Column(f.y)
	if err != nil {
		return err
	}

	var res analysis.CorrelationResult
	switch analysis.Method(f.method) {
	case analysis.MethodPearson:
		res, err = analysis.Pearson(x, y)
	case analysis.MethodSpearman:
		res, err = analysis.Spearman(x, y)
	default:
		return errors.NewInvalidConfigurationError("method", "must be one of pearson, spearman", f.method)
	}
	if err != nil {
		return err
	}

	if f.format != formatTable {
		if err := encode(w, f.format, res); err != nil {
			return err
		}
	} else {
		verdict := "not significant"
		if analysis.Significant(res.PValue, Alpha) {
			verdict = "significant"
		}
		fmt.Fprintf(w, "%s(%s, %s) = %s  p = %s  n = %d  (%s at %.2f)\n",
			res.Method, f.x, f.y, num(res.Coefficient, 4), num(res.PValue, 4), res.N, verdict, Alpha)
	}

	if !f.plot {
		return nil
	}
	p, err := visualization.ScatterWithRegression(x, y, f.x, f.y)
	if err != nil {
		return err
	}
	return savePlot(opts, p, "scatter", f.x, f.y)
}

func correlateByGrade(w io.Writer, opts *options, f *correlateFlags, t *dataset.Table) error {
	groups, err := analysis.PearsonByGroup(t, f.x, f.y)
	if err != nil {
		return err
	}
	if f.format != formatTable {
		err = encode(w, f.format, groups)
	} else {
		tw := newTabWriter(w)
		fmt.Fprintln(tw, "GRADE\tR\tP\tN")
		for _, g := range groups {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", g.Grade, num(g.Coefficient, 4), num(g.PValue, 4), g.N)
		}
		err = tw.Flush()
	}
	if err != nil || !f.plot {
		return err
	}
	p, err := visualization.GradeComparison(t, f.x, f.y)
	if err != nil {
		return err
	}
	return savePlot(opts, p, "grades", f.x, f.y)
}

func correlateMatrix(w io.Writer, opts *options, f *correlateFlags, t *dataset.Table) error {
	m, err := analysis.CorrelationMatrix(t, splitList(f.columns)...)
	if err != nil {
		return err
	}
	if f.format != formatTable {
		rows := make(map[string]map[string]float64, len(m.Columns))
		for i, a := range m.Columns {
			rows[a] = make(map[string]float64, len(m.Columns))
			for j, b := range m.Columns {
				rows[a][b] = m.Values.At(i, j)
			}
		}
		if err := encode(w, f.format, rows); err != nil {
			return err
		}
	} else {
		tw := newTabWriter(w)
		for _, c := range m.Columns {
			fmt.Fprintf(tw, "\t%s", c)
		}
		fmt.Fprintln(tw)
		for i, a := range m.Columns {
			fmt.Fprint(tw, a)
			for j := range m.Columns {
				fmt.Fprintf(tw, "\t%s", num(m.Values.At(i, j), 3))
			}
			fmt.Fprintln(tw)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if !f.plot {
		return nil
	}
	p, err := visualization.CorrelationHeatmap(m, "Pearson correlation")
	if err != nil {
		return err
	}
	return savePlot(opts, p, "correlation_heatmap")
}

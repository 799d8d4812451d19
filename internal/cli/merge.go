package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/pkg/log"
)

type mergeFlags struct {
	conductivity string
	machining    string
	out          string
}

func newMergeCmd(opts *options) *cobra.Command {
	f := &mergeFlags{}
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Join conductivity measurements with machining trials",
		Long: `Read a conductivity log (specimen_id, measurement_method, value, unit,
temp_C) and machining trials (specimen_id, tool, v_m_min, f_mm_rev, d_mm,
metric, value), join them on specimen_id and write one row per specimen.
Conductivity is converted to MS/m and averaged; every machining metric
becomes a column.

Examples:
  machinability merge --conductivity cond.csv --machining trials.csv --out merged.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd, f)
		},
	}
	cmd.Flags().StringVar(&f.conductivity, "conductivity", "", "Conductivity measurement CSV")
	cmd.Flags().StringVar(&f.machining, "machining", "", "Machining trial CSV")
	cmd.Flags().StringVarP(&f.out, "out", "o", "merged.csv", "Output path (.csv or .xlsx)")
	_ = cmd.MarkFlagRequired("conductivity")
	_ = cmd.MarkFlagRequired("machining")
	return cmd
}

func runMerge(cmd *cobra.Command, f *mergeFlags) error {
	cond, err := dataset.LoadConductivity(f.conductivity)
	if err != nil {
		return err
	}
	mach, err := dataset.LoadMachining(f.machining)
	if err != nil {
		return err
	}
	t, ids, err := dataset.Merge(cond, mach)
	if err != nil {
		return err
	}
	log.GetLoggerWithName("cli").Debug("Merged specimens", "ids", ids)
	if err := dataset.Save(f.out, t); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d specimens into %s\n", t.Len(), f.out)
	return nil
}

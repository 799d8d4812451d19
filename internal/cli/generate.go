package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/dataset"
)

type generateFlags struct {
	samples int
	seed    uint64
	out     string
}

func newGenerateCmd(opts *options) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the synthetic specimen dataset as CSV or XLSX",
		Long: `Generate synthetic specimens for the three steel grades and write them
as CSV, or as an Excel workbook when the output ends in .xlsx. Samples and
seed default to the dataset section of the config.

Examples:
  machinability generate --out specimens.csv
  machinability generate --samples 200 --seed 7 --out big.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts, f)
		},
	}
	cmd.Flags().IntVarP(&f.samples, "samples", "n", 0, "Number of specimens (default from config)")
	cmd.Flags().Uint64Var(&f.seed, "seed", 0, "Random seed (default from config)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "synthetic_specimens.csv", "Output path (.csv or .xlsx)")
	return cmd
}

func runGenerate(cmd *cobra.Command, opts *options, f *generateFlags) error {
	samples, seed := opts.cfg.Dataset.Samples, opts.cfg.Dataset.Seed
	if cmd.Flags().Changed("samples") {
		samples = f.samples
	}
	if cmd.Flags().Changed("seed") {
		seed = f.seed
	}
	t, err := dataset.GenerateTable(samples, seed)
	if err != nil {
		return err
	}
	if err := dataset.Save(f.out, t); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d specimens to %s\n", t.Len(), f.out)
	return nil
}

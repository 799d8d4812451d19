// Package cli wires the machinability commands to the library packages.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/RudolfRTC/AI-Research/config"
	"github.com/RudolfRTC/AI-Research/pkg/log"
)

// options is the state shared by every subcommand of one invocation.
type options struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{cfg: config.Default()}
	cmd := &cobra.Command{
		Use:   "machinability",
		Short: "Conductivity-based machinability analysis for steels",
		Long: `machinability relates the electrical conductivity of steels to their
machinability indicators (tool life, surface roughness Ra, cutting force Fc).

It generates synthetic specimen data, runs correlation analyses, trains
regression models against a hardness-only baseline and evaluates the
research hypotheses on the trained results.

Examples:
  machinability generate --out specimens.csv
  machinability merge --conductivity cond.csv --machining trials.csv
  machinability correlate --x conductivity --y tool_life --method spearman
  machinability train --models "Random Forest,SVR" --format yaml
  machinability benchmark --save results.yaml
  machinability hypotheses --results results.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides the config file)")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newMergeCmd(opts),
		newCorrelateCmd(opts),
		newSummaryCmd(opts),
		newTrainCmd(opts),
		newBenchmarkCmd(opts),
		newHypothesesCmd(opts),
	)
	return cmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (o *options) load() error {
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if o.logLevel != "" {
		o.cfg.LogLevel = o.logLevel
		if err := o.cfg.Validate(); err != nil {
			return err
		}
	}
	return log.SetupLogger(o.cfg.LogLevel)
}

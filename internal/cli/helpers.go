package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"gonum.org/v1/plot"
	"gopkg.in/yaml.v3"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/pkg/log"
	"github.com/RudolfRTC/AI-Research/training"
	"github.com/RudolfRTC/AI-Research/visualization"
)

// Output formats.
const (
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
)

// table loads the configured CSV or XLSX file, or generates the synthetic
// dataset.
func (o *options) table() (*dataset.Table, error) {
	logger := log.GetLoggerWithName("cli")
	if path := o.cfg.Dataset.CSV; path != "" {
		t, err := dataset.Load(path)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded dataset", "path", path, log.SamplesKey, t.Len())
		return t, nil
	}
	t, err := dataset.GenerateTable(o.cfg.Dataset.Samples, o.cfg.Dataset.Seed)
	if err != nil {
		return nil, err
	}
	logger.Debug("Generated synthetic dataset", log.SamplesKey, t.Len(), log.RandomSeedKey, o.cfg.Dataset.Seed)
	return t, nil
}

// splitList parses a comma separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// encode writes v as YAML or JSON. The table format is handled by callers.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return enc.Close()
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode json")
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	default:
		return errors.NewInvalidConfigurationError("format", "must be one of table, yaml, json", format)
	}
}

func checkFormat(format string) error {
	switch format {
	case formatTable, formatYAML, formatJSON:
		return nil
	}
	return errors.NewInvalidConfigurationError("format", "must be one of table, yaml, json", format)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// num formats a metric, printing non-finite values as "n/a".
func num(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", digits, v)
}

// plotFile returns dir/<parts joined by "_">.<format> with spaces removed.
func plotFile(dir, format string, parts ...string) string {
	name := strings.ToLower(strings.Join(parts, "_"))
	name = strings.NewReplacer(" ", "_", "/", "_", ",", "").Replace(name)
	return filepath.Join(dir, name+"."+format)
}

// writeResults prints results in the requested format.
func writeResults(w io.Writer, format string, results []training.Result) error {
	if format != formatTable {
		return encode(w, format, results)
	}
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "MODEL\tFEATURES\tTARGET\tR2\tMAPE %\tRMSE\tCV R2\tBASE R2\tBASE MAPE %")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Model, r.Features, r.Target,
			num(r.R2, 4), num(r.MAPE, 2), num(r.RMSE, 4), num(r.CVMeanR2, 4),
			num(r.BaselineR2, 4), num(r.BaselineMAPE, 2))
	}
	return tw.Flush()
}

// saveResults writes results as YAML to path.
func saveResults(path string, results []training.Result) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return encode(f, formatYAML, results)
}

// loadResults reads results written by saveResults. JSON input works too.
func loadResults(path string) ([]training.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open results %s", path)
	}
	defer f.Close()
	var results []training.Result
	if err := yaml.NewDecoder(f).Decode(&results); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "decode results %s", path)
	}
	return results, nil
}

// savePlot writes p into output.plots_dir, creating the directory.
func savePlot(opts *options, p *plot.Plot, parts ...string) error {
	dir := opts.cfg.Output.PlotsDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create plots dir %s", dir)
	}
	path := plotFile(dir, opts.cfg.Output.Format, parts...)
	if err := visualization.Save(p, path); err != nil {
		return err
	}
	log.GetLoggerWithName("cli").Info("Saved plot", "path", path)
	return nil
}

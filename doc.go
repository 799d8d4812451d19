// Package machinability is a research toolkit that relates the electrical
// conductivity of steels to their machinability: tool life, surface
// roughness (Ra) and cutting force (Fc).
//
// The toolkit generates synthetic specimen data, runs correlation analyses,
// trains four regression models against a hardness-only baseline and judges
// four research hypotheses on the trained results.
//
// # Installation
//
//	go install github.com/RudolfRTC/AI-Research/cmd/machinability@latest
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/RudolfRTC/AI-Research/dataset"
//	    "github.com/RudolfRTC/AI-Research/hypothesis"
//	    "github.com/RudolfRTC/AI-Research/models"
//	    "github.com/RudolfRTC/AI-Research/training"
//	)
//
//	func main() {
//	    t, err := dataset.GenerateTable(80, 42)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    orch := training.NewOrchestrator()
//	    for _, kind := range models.Kinds() {
//	        cfg := training.NewConfig(kind, []string{"conductivity", "hardness"}, "tool_life")
//	        if _, err := orch.Train(t, cfg); err != nil {
//	            log.Fatal(err)
//	        }
//	    }
//
//	    outcomes, err := hypothesis.NewEvaluator(t).Evaluate(orch.History().Snapshot())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    for _, o := range outcomes {
//	        fmt.Println(o.ID, o.Status, o.Message)
//	    }
//	}
//
// # Packages
//
//   - units: %IACS, MS/m and resistivity conversions
//   - dataset: specimen schema, Table, CSV/XLSX I/O, raw measurement loaders
//     and the synthetic generator
//   - analysis: Pearson/Spearman correlation, matrices, per-grade summaries
//   - linear, svm, tree, ensemble: the regression models
//   - models: model kinds and the factory
//   - metrics: R², MAPE, RMSE
//   - modelselection: train/test split and k-fold cross validation
//   - training: the orchestrator, run configuration and results
//   - history: the in-memory run history
//   - hypothesis: H4a-H4d evaluation
//   - visualization: gonum/plot charts
//   - config: YAML configuration
//   - core/model, core/parallel, pkg/errors, pkg/log: shared infrastructure
//
// The machinability command (cmd/machinability) exposes the same workflow on
// the command line.
package machinability

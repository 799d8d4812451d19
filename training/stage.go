package training

import "fmt"

// Stage is a step of a training run.
type Stage int

const (
	StageConfiguring Stage = iota
	StageSplitting
	StageTraining
	StagePredicting
	StageCrossValidating
	StageBaselineFitting
	StageCompleted
	StageFailed
)

var stageNames = [...]string{
	StageConfiguring:     "configuring",
	StageSplitting:       "splitting",
	StageTraining:        "training",
	StagePredicting:      "predicting",
	StageCrossValidating: "cross_validating",
	StageBaselineFitting: "baseline_fitting",
	StageCompleted:       "completed",
	StageFailed:          "failed",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// StageError reports the stage a run failed in. Unwrap exposes the error
// kind, so errors.Is(err, errors.ErrInsufficientSample) works on it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("training failed while %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

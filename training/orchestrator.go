// Package training runs one model end to end: split, fit, evaluate, cross
// validate, compare with the hardness-only baseline and record the result.
package training

import (
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/history"
	"github.com/RudolfRTC/AI-Research/linear"
	"github.com/RudolfRTC/AI-Research/metrics"
	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/modelselection"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/pkg/log"
)

// History is the run history the orchestrator owns.
type History = history.RunHistory[Key, Result]

// ModelFunc builds a fresh, unfitted estimator.
type ModelFunc func(models.Kind) (model.Regressor, error)

// Orchestrator drives training runs and records completed ones. Runs are
// sequential; the history serialises access on its own.
type Orchestrator struct {
	newModel ModelFunc
	logger   log.Logger
	history  *History
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithModelFunc replaces the model factory.
func WithModelFunc(fn ModelFunc) Option {
	return func(o *Orchestrator) { o.newModel = fn }
}

// WithLogger replaces the logger.
func WithLogger(l log.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator returns an orchestrator with an empty history, the default
// model factory and the "training" logger.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		newModel: models.New,
		logger:   log.GetLoggerWithName("training"),
		history:  history.New[Key, Result](),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// History returns the results recorded so far.
func (o *Orchestrator) History() *History { return o.history }

// NewModel builds a fresh estimator with the orchestrator's factory.
func (o *Orchestrator) NewModel(kind models.Kind) (model.Regressor, error) {
	return o.newModel(kind)
}

// run tracks the stage of one Train call.
type run struct {
	id     string
	stage  Stage
	logger log.Logger
}

func (r *run) enter(s Stage) {
	r.stage = s
	r.logger.Debug("Stage entered", log.StageKey, s.String())
}

// Train runs cfg on t. On failure nothing is recorded and the error is a
// *StageError naming the stage that failed.
func (o *Orchestrator) Train(t *dataset.Table, cfg Config) (Result, error) {
	r := &run{id: uuid.NewString()}
	r.logger = o.logger.With(
		log.EstimatorIDKey, r.id,
		log.ModelNameKey, cfg.Model.String(),
		log.TargetKey, cfg.Target,
	)

	start := time.Now()
	res, err := o.execute(r, t, cfg)
	if err != nil {
		failed := r.stage
		r.stage = StageFailed
		r.logger.Error("Training failed", err, log.StageKey, failed.String())
		return Result{}, &StageError{Stage: failed, Err: err}
	}

	res.RunID = r.id
	res.Duration = time.Since(start)
	o.history.Upsert(res)
	r.enter(StageCompleted)
	r.logger.Info("Training completed",
		log.R2ScoreKey, res.R2,
		log.MAPEKey, res.MAPE,
		log.RMSEKey, res.RMSE,
		log.CVMeanR2Key, res.CVMeanR2,
		log.BaselineR2Key, res.BaselineR2,
		log.BaselineMAPEKey, res.BaselineMAPE,
		log.DurationMsKey, res.Duration.Milliseconds(),
	)
	return res, nil
}

func (o *Orchestrator) execute(r *run, t *dataset.Table, cfg Config) (res Result, err error) {
	defer errors.Recover(&err, "training.Train")

	r.enter(StageConfiguring)
	if t == nil {
		return Result{}, errors.NewInvalidConfigurationError("dataset", "no dataset", nil)
	}
	if err := cfg.ValidateFor(t); err != nil {
		return Result{}, err
	}
	data, err := t.DropMissing(cfg.required()...)
	if err != nil {
		return Result{}, err
	}
	if dropped := t.Len() - data.Len(); dropped > 0 {
		r.logger.Warn("Dropped rows with missing values", "dropped", dropped)
	}
	X, y, hardness, err := designMatrices(data, cfg)
	if err != nil {
		return Result{}, err
	}

	r.enter(StageSplitting)
	trainIdx, testIdx, err := modelselection.TrainTestSplit(data.Len(), cfg.TestSize, cfg.Seed)
	if err != nil {
		return Result{}, err
	}
	Xtr, ytr := modelselection.Subset(X, y, trainIdx)
	Xte, yte := modelselection.Subset(X, y, testIdx)
	htr := modelselection.Rows(hardness, trainIdx)
	hte := modelselection.Rows(hardness, testIdx)
	r.logger.Debug("Split dataset",
		log.SamplesKey, data.Len(),
		log.FeatureNamesKey, cfg.Features,
		log.TrainSizeKey, len(trainIdx),
		log.TestSizeKey, len(testIdx),
		log.RandomSeedKey, cfg.Seed,
	)

	r.enter(StageTraining)
	est, err := o.newModel(cfg.Model)
	if err != nil {
		return Result{}, err
	}
	if err := est.Fit(Xtr, ytr); err != nil {
		return Result{}, err
	}

	r.enter(StagePredicting)
	pred, err := est.Predict(Xte)
	if err != nil {
		return Result{}, err
	}
	eval, err := metrics.EvaluateMatrix(yte, pred)
	if err != nil {
		return Result{}, err
	}

	r.enter(StageCrossValidating)
	cv, err := modelselection.CrossValScore(func() (model.Regressor, error) {
		return o.newModel(cfg.Model)
	}, X, y, modelselection.NewKFold(cfg.CVFolds))
	if err != nil {
		return Result{}, err
	}
	r.logger.Debug("Cross-validation finished", log.FoldsKey, cfg.CVFolds, log.CVMeanR2Key, cv.Mean())

	r.enter(StageBaselineFitting)
	baseline := linear.NewHardnessBaseline()
	if err := baseline.Fit(htr, ytr); err != nil {
		return Result{}, err
	}
	basePred, err := baseline.Predict(hte)
	if err != nil {
		return Result{}, err
	}
	baseEval, err := metrics.EvaluateMatrix(yte, basePred)
	if err != nil {
		return Result{}, err
	}

	res = newResult(cfg, eval, baseEval, cv.Scores, cv.Mean())
	res.TrainSize = len(trainIdx)
	res.TestSize = len(testIdx)
	res.TestActual = mat.Col(nil, 0, yte)
	res.TestPredicted = mat.Col(nil, 0, pred)
	return res, nil
}

// designMatrices returns the selected features, the target and the hardness
// column of t, all with the same row order.
func designMatrices(t *dataset.Table, cfg Config) (X, y, hardness *mat.Dense, err error) {
	if t.Len() == 0 {
		return nil, nil, nil, errors.NewInsufficientSampleError("training.Train", 0, 2)
	}
	if X, err = t.Matrix(cfg.Features...); err != nil {
		return nil, nil, nil, err
	}
	if y, err = t.Matrix(cfg.Target); err != nil {
		return nil, nil, nil, err
	}
	if hardness, err = t.Matrix(BaselineColumn); err != nil {
		return nil, nil, nil, err
	}
	return X, y, hardness, nil
}

// Package log defines standard attribute keys for modelling operations.
//
// The keys follow a hierarchical naming convention ("model.name",
// "data.samples") so log lines from the generator, the estimators and the
// training pipeline can be filtered together.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator, e.g. "Random Forest".
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies one training run (a UUID).
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation: "fit", "predict", "score", ...
	OperationKey = "ml.operation"

	// ComponentKey identifies the package doing the work.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	PhaseKey = "ml.phase"

	// StageKey names the training pipeline stage ("Splitting", "Training", ...).
	StageKey = "pipeline.stage"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows).
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns).
	FeaturesKey = "data.features"

	// FeatureNamesKey lists the selected feature names.
	FeatureNamesKey = "data.feature_names"

	// TargetKey names the predicted column.
	TargetKey = "data.target"

	// TrainSizeKey and TestSizeKey record the split sizes.
	TrainSizeKey = "data.train_size"
	TestSizeKey  = "data.test_size"

	// FoldsKey records the number of cross-validation folds.
	FoldsKey = "data.folds"
)

// Performance Metrics
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// R2ScoreKey records R² coefficient of determination for regression.
	R2ScoreKey = "metrics.r2_score"

	// MAPEKey records mean absolute percentage error in percent.
	MAPEKey = "metrics.mape"

	// RMSEKey records root mean squared error.
	RMSEKey = "metrics.rmse"

	// CVMeanR2Key records the mean cross-validated R².
	CVMeanR2Key = "metrics.cv_mean_r2"

	// BaselineR2Key and BaselineMAPEKey record the hardness-only benchmark.
	BaselineR2Key   = "metrics.baseline_r2"
	BaselineMAPEKey = "metrics.baseline_mape"

	// IterationKey records the current iteration number of an iterative solver.
	IterationKey = "training.iteration"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"

	// SuggestionKey provides helpful suggestions for resolving issues.
	SuggestionKey = "error.suggestion"
)

// Configuration
const (
	// HyperParamsKey contains estimator hyperparameters as a structured object.
	HyperParamsKey = "model.hyperparams"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute values.
const (
	OperationFit      = "fit"
	OperationPredict  = "predict"
	OperationScore    = "score"
	OperationGenerate = "generate"
	OperationEvaluate = "evaluate"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseTesting    = "testing"

	ErrorNotFitted            = "NOT_FITTED"
	ErrorDimensionMismatch    = "DIMENSION_MISMATCH"
	ErrorInvalidConfiguration = "INVALID_CONFIGURATION"
	ErrorUnknownModel         = "UNKNOWN_MODEL"
	ErrorInsufficientSample   = "INSUFFICIENT_SAMPLE"
	ErrorDegenerateInput      = "DEGENERATE_INPUT"
	ErrorConvergence          = "CONVERGENCE_FAILURE"
)

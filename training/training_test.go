package training

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/models"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/pkg/log"
)

func synthetic(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.GenerateTable(80, 42)
	require.NoError(t, err)
	return tbl
}

func quietOrchestrator(opts ...Option) *Orchestrator {
	logger, _ := log.NewTestLogger(log.LevelError)
	return NewOrchestrator(append([]Option{WithLogger(logger)}, opts...)...)
}

func TestTrainRandomForestEndToEnd(t *testing.T) {
	logger, _ := log.NewTestLogger(log.LevelDebug)
	o := NewOrchestrator(WithLogger(logger))
	cfg := NewConfig(models.RandomForest, []string{dataset.ColConductivity, dataset.ColHardness}, dataset.ColToolLife)

	res, err := o.Train(synthetic(t), cfg)
	require.NoError(t, err)

	assert.Equal(t, models.RandomForest, res.Model)
	assert.Equal(t, "conductivity, hardness", res.Features)
	assert.Equal(t, dataset.ColToolLife, res.Target)
	assert.Equal(t, 64, res.TrainSize)
	assert.Equal(t, 16, res.TestSize)

	assert.LessOrEqual(t, res.R2, 1.0)
	assert.Greater(t, res.R2, 0.5)
	assert.GreaterOrEqual(t, res.MAPE, 0.0)
	assert.GreaterOrEqual(t, res.RMSE, 0.0)
	assert.Len(t, res.CVScores, 5)
	assert.False(t, math.IsNaN(res.CVMeanR2))
	assert.LessOrEqual(t, res.BaselineR2, 1.0)
	assert.GreaterOrEqual(t, res.BaselineMAPE, 0.0)
	assert.GreaterOrEqual(t, res.BaselineRMSE, 0.0)

	// 4桁・2桁に丸められている
	assert.Equal(t, res.R2, math.Round(res.R2*1e4)/1e4)
	assert.Equal(t, res.MAPE, math.Round(res.MAPE*1e2)/1e2)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 1, o.History().Len())

	assert.True(t, logger.ContainsMessage("Training completed"))
	assert.True(t, logger.ContainsField(log.StageKey, "baseline_fitting"))
}

func TestTrainIsDeterministic(t *testing.T) {
	tbl := synthetic(t)
	cfg := NewConfig(models.GradientBoosting, dataset.FeatureColumns, dataset.ColRa)

	a, err := quietOrchestrator().Train(tbl, cfg)
	require.NoError(t, err)
	b, err := quietOrchestrator().Train(tbl, cfg)
	require.NoError(t, err)

	assert.Equal(t, a.R2, b.R2)
	assert.Equal(t, a.CVScores, b.CVScores)
	assert.Equal(t, a.BaselineMAPE, b.BaselineMAPE)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestTrainEmptyFeatures(t *testing.T) {
	o := quietOrchestrator()
	cfg := NewConfig(models.LinearRegression, nil, dataset.ColToolLife)

	_, err := o.Train(synthetic(t), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration))

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageConfiguring, se.Stage)
	assert.Equal(t, 0, o.History().Len())
}

func TestTrainConfigErrors(t *testing.T) {
	tbl := synthetic(t)
	tests := []struct {
		name string
		cfg  Config
		kind error
	}{
		{
			name: "unknown model",
			cfg:  NewConfig(models.Kind(9), []string{dataset.ColHardness}, dataset.ColToolLife),
			kind: errors.ErrUnknownModel,
		},
		{
			name: "target among features",
			cfg:  NewConfig(models.SVR, []string{dataset.ColHardness}, dataset.ColHardness),
			kind: errors.ErrInvalidConfiguration,
		},
		{
			name: "not a feature column",
			cfg:  NewConfig(models.SVR, []string{dataset.ColRa}, dataset.ColToolLife),
			kind: errors.ErrInvalidConfiguration,
		},
		{
			name: "not a target column",
			cfg:  NewConfig(models.LinearRegression, []string{dataset.ColConductivity}, dataset.ColHardness),
			kind: errors.ErrInvalidConfiguration,
		},
		{
			name: "duplicate feature",
			cfg:  NewConfig(models.SVR, []string{dataset.ColHardness, dataset.ColHardness}, dataset.ColToolLife),
			kind: errors.ErrInvalidConfiguration,
		},
		{
			name: "test size out of range",
			cfg: func() Config {
				c := NewConfig(models.SVR, []string{dataset.ColHardness}, dataset.ColToolLife)
				c.TestSize = 1.5
				return c
			}(),
			kind: errors.ErrInvalidConfiguration,
		},
		{
			name: "one fold",
			cfg: func() Config {
				c := NewConfig(models.SVR, []string{dataset.ColHardness}, dataset.ColToolLife)
				c.CVFolds = 1
				return c
			}(),
			kind: errors.ErrInvalidConfiguration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := quietOrchestrator().Train(tbl, tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)

			var se *StageError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, StageConfiguring, se.Stage)
		})
	}
}

func TestTrainMissingColumns(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]string{dataset.ColConductivity, dataset.ColToolLife},
		[][]float64{{1, 2, 3, 4, 5}, {5, 4, 3, 2, 1}},
		nil,
	)
	require.NoError(t, err)

	// 硬さ列がないとベースラインが作れない
	cfg := NewConfig(models.LinearRegression, []string{dataset.ColConductivity}, dataset.ColToolLife)
	_, err = quietOrchestrator().Train(tbl, cfg)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration), "got %v", err)
}

func TestTrainUpsertsByKey(t *testing.T) {
	tbl := synthetic(t)
	o := quietOrchestrator()
	cfg := NewConfig(models.LinearRegression, []string{dataset.ColConductivity, dataset.ColHardness}, dataset.ColToolLife)

	first, err := o.Train(tbl, cfg)
	require.NoError(t, err)
	second, err := o.Train(tbl, cfg)
	require.NoError(t, err)
	require.Equal(t, 1, o.History().Len())

	got, ok := o.History().Get(first.Key())
	require.True(t, ok)
	assert.Equal(t, second.RunID, got.RunID)

	cfg.Target = dataset.ColFc
	_, err = o.Train(tbl, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, o.History().Len())
	assert.Equal(t, dataset.ColToolLife, o.History().Snapshot()[0].Target)
}

func TestBaselineUsesTableHardness(t *testing.T) {
	tbl := synthetic(t)
	o := quietOrchestrator()

	with, err := o.Train(tbl, NewConfig(models.LinearRegression,
		[]string{dataset.ColConductivity, dataset.ColHardness}, dataset.ColToolLife))
	require.NoError(t, err)
	without, err := o.Train(tbl, NewConfig(models.LinearRegression,
		[]string{dataset.ColConductivity}, dataset.ColToolLife))
	require.NoError(t, err)

	// 同じ分割・同じ硬さ列なのでベースラインは一致する
	assert.Equal(t, with.BaselineR2, without.BaselineR2)
	assert.Equal(t, with.BaselineMAPE, without.BaselineMAPE)
}

func TestTrainDropsIncompleteRows(t *testing.T) {
	src := synthetic(t)
	names := src.NumericColumns()
	cols := make([][]float64, len(names))
	for j, name := range names {
		col, err := src.Column(name)
		require.NoError(t, err)
		if name == dataset.ColConductivity {
			col[0] = math.NaN()
		}
		cols[j] = col
	}
	tbl, err := dataset.NewTable(names, cols, src.Grades())
	require.NoError(t, err)

	res, err := quietOrchestrator().Train(tbl, NewConfig(models.LinearRegression,
		[]string{dataset.ColConductivity}, dataset.ColToolLife))
	require.NoError(t, err)
	assert.Equal(t, 79, res.TrainSize+res.TestSize)
}

func TestTrainTooFewRowsForFolds(t *testing.T) {
	tbl, err := dataset.NewTable(
		[]string{dataset.ColHardness, dataset.ColToolLife},
		[][]float64{
			{200, 220, 250, 280, 300, 320},
			{60, 55, 47, 40, 33, 29},
		},
		nil,
	)
	require.NoError(t, err)

	cfg := NewConfig(models.LinearRegression, []string{dataset.ColHardness}, dataset.ColToolLife)
	cfg.CVFolds = 10
	_, err = quietOrchestrator().Train(tbl, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInsufficientSample), "got %v", err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageCrossValidating, se.Stage)
}

func TestTrainMergedTableNeedsHardness(t *testing.T) {
	cond := []dataset.ConductivityMeasurement{
		{SpecimenID: "S1", Method: "eddy", Value: 5.8, Unit: dataset.UnitMSPerM},
		{SpecimenID: "S2", Method: "eddy", Value: 5.2, Unit: dataset.UnitMSPerM},
		{SpecimenID: "S3", Method: "eddy", Value: 4.9, Unit: dataset.UnitMSPerM},
	}
	var mach []dataset.MachiningTest
	for i, id := range []string{"S1", "S2", "S3"} {
		mach = append(mach, dataset.MachiningTest{
			SpecimenID: id, Tool: "CNMG", CuttingSpeed: 200, Feed: 0.2, Depth: 1.5,
			Metric: dataset.ColToolLife, Value: float64(40 + i),
		})
	}
	tbl, _, err := dataset.Merge(cond, mach)
	require.NoError(t, err)

	// 結合結果には硬さ列がないのでベースラインを作れない
	cfg := NewConfig(models.LinearRegression, []string{dataset.ColConductivity}, dataset.ColToolLife)
	cfg.CVFolds = 2
	_, err = quietOrchestrator().Train(tbl, cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration), "got %v", err)
	assert.Contains(t, err.Error(), dataset.ColHardness)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageConfiguring, se.Stage)
}

type panicky struct{}

func (panicky) Fit(_, _ mat.Matrix) error              { panic("boom") }
func (panicky) Predict(mat.Matrix) (mat.Matrix, error) { return nil, nil }
func (panicky) IsFitted() bool                         { return false }

func TestTrainRecoversPanics(t *testing.T) {
	o := quietOrchestrator(WithModelFunc(func(models.Kind) (model.Regressor, error) {
		return panicky{}, nil
	}))
	_, err := o.Train(synthetic(t), NewConfig(models.SVR, []string{dataset.ColHardness}, dataset.ColToolLife))
	require.Error(t, err)

	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageTraining, se.Stage)

	var pe *errors.PanicError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, o.History().Len())
}

func TestImportances(t *testing.T) {
	tbl := synthetic(t)
	o := quietOrchestrator()

	ranked, err := o.Importances(tbl, dataset.FeatureColumns, dataset.ColToolLife, models.RandomForest)
	require.NoError(t, err)
	require.Len(t, ranked, len(dataset.FeatureColumns))

	var sum float64
	for i, fi := range ranked {
		sum += fi.Importance
		if i > 0 {
			assert.GreaterOrEqual(t, ranked[i-1].Importance, fi.Importance)
		}
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.NotZero(t, Rank(ranked, dataset.ColConductivity))
	assert.Zero(t, Rank(ranked, "nope"))

	_, err = o.Importances(tbl, dataset.FeatureColumns, dataset.ColToolLife, models.LinearRegression)
	assert.Error(t, err)
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "cross_validating", StageCrossValidating.String())
	assert.Equal(t, "Stage(42)", Stage(42).String())

	err := &StageError{Stage: StageSplitting, Err: errors.ErrInsufficientSample}
	assert.Contains(t, err.Error(), "splitting")
	assert.True(t, errors.Is(err, errors.ErrInsufficientSample))
}

// Package preprocessing provides feature transformers applied inside
// estimators before fitting.
package preprocessing

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// scaleFloor: columns whose standard deviation is below it are left unscaled.
const scaleFloor = 1e-8

// StandardScaler はデータを平均0、標準偏差1に変換する。
// 標準偏差は母標準偏差（n で割る）を使う。
type StandardScaler struct {
	state *model.StateManager

	// Mean は各特徴量の平均値
	Mean []float64
	// Scale は各特徴量の標準偏差（定数列は1）
	Scale []float64
}

// NewStandardScaler は新しいStandardScalerを作成する
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{state: model.NewStateManager("StandardScaler")}
}

// Fit は訓練データから平均と標準偏差を計算する
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	s.Mean = make([]float64, c)
	s.Scale = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std < scaleFloor {
			std = 1
		}
		s.Mean[j], s.Scale[j] = mean, std
	}

	s.state.SetFitted(c, r)
	return nil
}

// Transform は学習済みの統計情報を使ってデータを標準化する
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.CheckPredictInput("Transform", X); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.state.CheckPredictInput("InverseTransform", X); err != nil {
		return nil, err
	}

	r, c := X.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return v*s.Scale[j] + s.Mean[j]
	}, X)
	return out, nil
}

// IsFitted reports whether Fit has run.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

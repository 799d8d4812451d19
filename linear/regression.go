// Package linear provides ordinary least squares regression and the
// hardness-only baseline that every candidate model is benchmarked against.
package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/metrics"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// LinearRegression は最小二乗法による線形回帰モデル
type LinearRegression struct {
	state        *model.StateManager
	fitIntercept bool

	Weights   *mat.VecDense // 重み（係数）
	Intercept float64       // 切片
}

// NewLinearRegression は新しい線形回帰モデルを作成する（デフォルトで切片あり）
func NewLinearRegression(opts ...Option) *LinearRegression {
	lr := &LinearRegression{
		state:        model.NewStateManager("LinearRegression"),
		fitIntercept: true,
	}
	for _, opt := range opts {
		opt(lr)
	}
	return lr
}

var (
	_ model.Regressor   = (*LinearRegression)(nil)
	_ model.Scorer      = (*LinearRegression)(nil)
	_ model.LinearModel = (*LinearRegression)(nil)
	_ model.Scorer      = (*HardnessBaseline)(nil)
)

// Fit は最小二乗問題 min ||[1 X] w − y||² を QR 分解で解く。
// 計画行列がランク落ちしている場合は DegenerateInputError を返す。
func (lr *LinearRegression) Fit(X, y mat.Matrix) error {
	lr.state.Reset()
	r, c, err := model.CheckFitInput("LinearRegression.Fit", X, y)
	if err != nil {
		return err
	}

	offset := 0
	if lr.fitIntercept {
		offset = 1
	}
	if r < c+offset {
		return errors.NewInsufficientSampleError("LinearRegression.Fit", r, c+offset)
	}

	// 切片項のために X に 1 の列を追加: [1, X]
	design := mat.NewDense(r, c+offset, nil)
	for i := 0; i < r; i++ {
		if lr.fitIntercept {
			design.Set(i, 0, 1)
		}
		for j := 0; j < c; j++ {
			design.Set(i, j+offset, X.At(i, j))
		}
	}
	yVec := mat.NewVecDense(r, model.Column(y))

	var w mat.VecDense
	if err := w.SolveVec(design, yVec); err != nil {
		// mat.Condition: rank deficient or too ill-conditioned to trust
		return errors.NewDegenerateInputError("LinearRegression.Fit", "design matrix is singular: "+err.Error())
	}

	lr.Intercept = 0
	if lr.fitIntercept {
		lr.Intercept = w.AtVec(0)
	}
	lr.Weights = mat.NewVecDense(c, nil)
	for j := 0; j < c; j++ {
		lr.Weights.SetVec(j, w.AtVec(j+offset))
	}

	lr.state.SetFitted(c, r)
	return nil
}

// Predict は y = X * weights + intercept を n×1 で返す
func (lr *LinearRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := lr.state.CheckPredictInput("Predict", X); err != nil {
		return nil, err
	}

	r, _ := X.Dims()
	var out mat.VecDense
	out.MulVec(X, lr.Weights)
	predictions := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		predictions.Set(i, 0, out.AtVec(i)+lr.Intercept)
	}
	return predictions, nil
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X, y mat.Matrix) (float64, error) {
	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	r, _ := y.Dims()
	return metrics.R2Score(mat.NewVecDense(r, model.Column(y)), mat.NewVecDense(r, model.Column(yPred)))
}

// IsFitted reports whether Fit has succeeded.
func (lr *LinearRegression) IsFitted() bool {
	return lr.state.IsFitted()
}

// Coefficients は学習された重み（係数）を返す
func (lr *LinearRegression) Coefficients() []float64 {
	if lr.Weights == nil {
		return nil
	}
	return mat.Col(nil, 0, lr.Weights)
}

// InterceptValue は学習された切片を返す
func (lr *LinearRegression) InterceptValue() float64 {
	return lr.Intercept
}

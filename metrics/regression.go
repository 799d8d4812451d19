// Package metrics scores regression predictions.
//
// MAPE is returned as a fraction (0.12 means 12 %). It divides by |y_true|
// without any guard, so a zero true value gives +Inf or NaN; callers that
// feed measured quantities with a positive floor never hit this.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// Evaluation holds the three scores reported for every held-out set.
type Evaluation struct {
	R2   float64 `json:"r2" yaml:"r2"`
	MAPE float64 `json:"mape" yaml:"mape"` // fraction
	RMSE float64 `json:"rmse" yaml:"rmse"`
}

// Evaluate computes R², MAPE and RMSE over the same pairs.
func Evaluate(yTrue, yPred mat.Vector) (Evaluation, error) {
	r2, err := R2Score(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	mape, err := MAPE(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	rmse, err := RMSE(yTrue, yPred)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluation{R2: r2, MAPE: mape, RMSE: rmse}, nil
}

// EvaluateMatrix is Evaluate for n×1 column matrices, the shape Predict
// returns.
func EvaluateMatrix(yTrue, yPred mat.Matrix) (Evaluation, error) {
	t, err := columnVector("EvaluateMatrix", yTrue)
	if err != nil {
		return Evaluation{}, err
	}
	p, err := columnVector("EvaluateMatrix", yPred)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluate(t, p)
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}
	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}
	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する。yTrue が定数の場合は
// DegenerateInputError を返す。
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var yMean float64
	for i := 0; i < n; i++ {
		yMean += yTrue.AtVec(i)
	}
	yMean /= float64(n)

	// 全変動（TSS）と残差変動（RSS）
	var tss, rss float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		d := yt - yPred.AtVec(i)
		tss += (yt - yMean) * (yt - yMean)
		rss += d * d
	}

	if tss == 0 {
		return 0, errors.NewDegenerateInputError("R2Score", "total sum of squares is zero (no variance in yTrue)")
	}
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差を比率で返す: mean(|yTrue − yPred| / |yTrue|)。
// yTrue にゼロが含まれると結果は +Inf または NaN になる。
func MAPE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := 0; i < n; i++ {
		yt := yTrue.AtVec(i)
		sum += math.Abs(yt-yPred.AtVec(i)) / math.Abs(yt)
	}
	mape := sum / float64(n)
	if math.IsNaN(mape) || math.IsInf(mape, 0) {
		errors.Warn(errors.NewUndefinedMetricWarning("MAPE", "zero values in yTrue", mape))
	}
	return mape, nil
}

func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

func columnVector(op string, m mat.Matrix) (*mat.VecDense, error) {
	r, c := m.Dims()
	if c != 1 {
		return nil, errors.NewValueError(op, "must be a column vector (n×1 matrix)")
	}
	if r == 0 {
		return nil, errors.NewValueError(op, "empty vector")
	}
	v := mat.NewVecDense(r, nil)
	for i := 0; i < r; i++ {
		v.SetVec(i, m.At(i, 0))
	}
	return v, nil
}

package linear

import (
	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// HardnessBaseline is ordinary least squares on exactly one column. Callers
// pass the hardness column only, so the benchmark never sees the candidate
// model's richer feature set.
type HardnessBaseline struct {
	ols *LinearRegression
}

// NewHardnessBaseline returns an unfitted baseline.
func NewHardnessBaseline() *HardnessBaseline {
	return &HardnessBaseline{ols: NewLinearRegression()}
}

// Fit rejects X with anything other than one column.
func (b *HardnessBaseline) Fit(X, y mat.Matrix) error {
	if _, c := X.Dims(); c != 1 {
		return errors.NewDimensionError("HardnessBaseline.Fit", 1, c, 1)
	}
	return b.ols.Fit(X, y)
}

// Predict returns one prediction per row of the n×1 input.
func (b *HardnessBaseline) Predict(X mat.Matrix) (mat.Matrix, error) {
	if _, c := X.Dims(); c != 1 {
		return nil, errors.NewDimensionError("HardnessBaseline.Predict", 1, c, 1)
	}
	return b.ols.Predict(X)
}

// Score returns R² against y.
func (b *HardnessBaseline) Score(X, y mat.Matrix) (float64, error) {
	return b.ols.Score(X, y)
}

// IsFitted reports whether Fit has succeeded.
func (b *HardnessBaseline) IsFitted() bool {
	return b.ols.IsFitted()
}

// Slope and Intercept expose the fitted line.
func (b *HardnessBaseline) Slope() float64 {
	if w := b.ols.Coefficients(); len(w) == 1 {
		return w[0]
	}
	return 0
}

func (b *HardnessBaseline) Intercept() float64 {
	return b.ols.InterceptValue()
}

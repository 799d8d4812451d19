// Package svm implements epsilon-insensitive support vector regression with
// an RBF kernel.
package svm

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/core/parallel"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/preprocessing"
)

// parallelThreshold is the row count above which kernel evaluation is split
// across goroutines.
const parallelThreshold = 256

// Default hyperparameters.
const (
	DefaultC       = 10.0
	DefaultEpsilon = 0.1
	DefaultMaxIter = 100000
	DefaultTol     = 1e-3
)

// SVR solves the epsilon-SVR dual
//
//	min_β  ½ βᵀKβ − yᵀβ + ε‖β‖₁   subject to Σβ = 0, −C ≤ β_i ≤ C
//
// by sequential minimal optimisation on the maximal violating pair. The
// intercept is recovered from the KKT conditions and is not regularised.
// γ follows the "scale" rule 1 / (p · Var(X)) over the raw features unless
// Standardize is set.
type SVR struct {
	state *model.StateManager

	C           float64
	Epsilon     float64
	Gamma       float64 // 0 means "scale"
	MaxIter     int     // pair updates
	Tol         float64
	Standardize bool

	scaler     *preprocessing.StandardScaler
	support    *mat.Dense // training rows with β ≠ 0
	coef       []float64  // β for the rows in support
	intercept  float64
	gamma      float64
	iterations int
}

// NewSVR returns an unfitted SVR with the default hyperparameters.
func NewSVR() *SVR {
	return &SVR{
		state:   model.NewStateManager("SVR"),
		C:       DefaultC,
		Epsilon: DefaultEpsilon,
		MaxIter: DefaultMaxIter,
		Tol:     DefaultTol,
	}
}

// Fit learns the dual coefficients and the intercept. A ConvergenceWarning
// is emitted when the solver stops at MaxIter; the model is still usable.
func (s *SVR) Fit(X, y mat.Matrix) error {
	n, p, err := model.CheckFitInput("SVR.Fit", X, y)
	if err != nil {
		return err
	}
	if s.C <= 0 {
		return errors.NewValidationError("C", "must be positive", s.C)
	}
	if s.Epsilon < 0 {
		return errors.NewValidationError("epsilon", "must be non-negative", s.Epsilon)
	}

	Xs := mat.DenseCopyOf(X)
	s.scaler = nil
	if s.Standardize {
		s.scaler = preprocessing.NewStandardScaler()
		if Xs, err = s.scaler.FitTransform(X); err != nil {
			return err
		}
	}

	s.gamma = s.Gamma
	if s.gamma <= 0 {
		s.gamma = scaleGamma(Xs, p)
	}

	k := s.gram(Xs)
	target := model.Column(y)
	beta := make([]float64, n)
	// grad = Kβ − y
	grad := make([]float64, n)
	for i := range grad {
		grad[i] = -target[i]
	}

	converged := false
	for s.iterations = 1; s.iterations <= s.MaxIter; s.iterations++ {
		i, j, gap := s.violatingPair(beta, grad)
		if gap < s.Tol {
			converged = true
			break
		}
		t := s.pairStep(k, beta, grad, i, j)
		if t == 0 {
			converged = true
			break
		}
		beta[i] += t
		beta[j] -= t
		floats.AddScaled(grad, t, k.RawRowView(i))
		floats.AddScaled(grad, -t, k.RawRowView(j))
		if err := errors.CheckNumericalStability("SVR.Fit", grad, s.iterations); err != nil {
			return err
		}
	}
	if !converged {
		s.iterations = s.MaxIter
		errors.Warn(errors.NewConvergenceWarning("SVR", s.MaxIter, "sequential minimal optimisation"))
	}

	s.intercept = s.bias(beta, grad)
	s.keepSupport(Xs, beta)
	s.state.SetFitted(p, n)
	return nil
}

// Predict returns f(x) = Σ β_i k(x_i, x) + b for every row of X.
func (s *SVR) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := s.state.CheckPredictInput("Predict", X); err != nil {
		return nil, err
	}
	Xs := mat.DenseCopyOf(X)
	if s.scaler != nil {
		var err error
		if Xs, err = s.scaler.Transform(X); err != nil {
			return nil, err
		}
	}

	r, _ := Xs.Dims()
	nsv, _ := s.support.Dims()
	out := mat.NewDense(r, 1, nil)
	parallel.ParallelizeWithThreshold(r, parallelThreshold, 0, func(start, end int) {
		for i := start; i < end; i++ {
			row := Xs.RawRowView(i)
			f := s.intercept
			for k := 0; k < nsv; k++ {
				f += s.coef[k] * rbf(row, s.support.RawRowView(k), s.gamma)
			}
			out.Set(i, 0, f)
		}
	})
	return out, nil
}

// Intercept returns the fitted bias term.
func (s *SVR) Intercept() float64 { return s.intercept }

// IsFitted reports whether Fit has succeeded.
func (s *SVR) IsFitted() bool { return s.state.IsFitted() }

// NumSupportVectors returns the number of training rows with non-zero β.
func (s *SVR) NumSupportVectors() int { return len(s.coef) }

// Iterations returns the number of sweeps the last Fit used.
func (s *SVR) Iterations() int { return s.iterations }

// gram returns the RBF kernel over the training rows. Row i owns the cells
// (i, j) and (j, i) for j > i, so chunks never write the same cell.
func (s *SVR) gram(Xs *mat.Dense) *mat.Dense {
	n, _ := Xs.Dims()
	q := mat.NewDense(n, n, nil)
	parallel.ParallelizeWithThreshold(n, parallelThreshold, 0, func(start, end int) {
		for i := start; i < end; i++ {
			q.Set(i, i, 1)
			for j := i + 1; j < n; j++ {
				v := rbf(Xs.RawRowView(i), Xs.RawRowView(j), s.gamma)
				q.Set(i, j, v)
				q.Set(j, i, v)
			}
		}
	})
	return q
}

// violatingPair returns the index whose objective grows slowest when β_i
// increases, the index whose objective grows slowest when β_j decreases, and
// the KKT gap between them. The pair (i, j) is the steepest feasible
// direction that keeps Σβ fixed.
func (s *SVR) violatingPair(beta, grad []float64) (int, int, float64) {
	i, j := -1, -1
	minUp, maxDown := math.Inf(1), math.Inf(-1)
	for k, b := range beta {
		if b < s.C {
			if up := grad[k] + s.Epsilon*upSign(b); up < minUp {
				minUp, i = up, k
			}
		}
		if b > -s.C {
			if down := grad[k] + s.Epsilon*downSign(b); down > maxDown {
				maxDown, j = down, k
			}
		}
	}
	if i < 0 || j < 0 || i == j {
		return i, j, 0
	}
	return i, j, maxDown - minUp
}

// pairStep minimises the dual along β_i += t, β_j −= t for t in [0, hi].
// The restriction is a convex piecewise quadratic, so the minimum lies at a
// breakpoint, a bound or a clipped stationary point of one piece.
func (s *SVR) pairStep(k *mat.Dense, beta, grad []float64, i, j int) float64 {
	a := k.At(i, i) + k.At(j, j) - 2*k.At(i, j)
	lin := grad[i] - grad[j]
	hi := math.Min(s.C-beta[i], beta[j]+s.C)
	if hi <= 0 {
		return 0
	}

	phi := func(t float64) float64 {
		return 0.5*a*t*t + lin*t +
			s.Epsilon*(math.Abs(beta[i]+t)+math.Abs(beta[j]-t)-math.Abs(beta[i])-math.Abs(beta[j]))
	}

	points := []float64{0, hi}
	for _, bp := range []float64{-beta[i], beta[j]} {
		if bp > 0 && bp < hi {
			points = append(points, bp)
		}
	}
	sort.Float64s(points)

	best, bestVal := 0.0, 0.0
	try := func(t float64) {
		if v := phi(t); v < bestVal {
			best, bestVal = t, v
		}
	}
	for m := 0; m+1 < len(points); m++ {
		lo, up := points[m], points[m+1]
		try(up)
		if a <= 0 {
			continue
		}
		mid := (lo + up) / 2
		slope := lin + s.Epsilon*(sign(beta[i]+mid)-sign(beta[j]-mid))
		try(errors.ClipValue(-slope/a, lo, up))
	}
	return best
}

// bias averages b = −grad_i − ε·sign(β_i) over the free support vectors and
// falls back to the middle of the feasible interval when there are none.
func (s *SVR) bias(beta, grad []float64) float64 {
	var sum float64
	var free int
	minUp, maxDown := math.Inf(1), math.Inf(-1)
	for k, b := range beta {
		if b != 0 && math.Abs(b) < s.C {
			sum += -grad[k] - s.Epsilon*sign(b)
			free++
		}
		if b < s.C {
			minUp = math.Min(minUp, grad[k]+s.Epsilon*upSign(b))
		}
		if b > -s.C {
			maxDown = math.Max(maxDown, grad[k]+s.Epsilon*downSign(b))
		}
	}
	if free > 0 {
		return sum / float64(free)
	}
	switch {
	case math.IsInf(minUp, 0) && math.IsInf(maxDown, 0):
		return 0
	case math.IsInf(minUp, 0):
		return -maxDown
	case math.IsInf(maxDown, 0):
		return -minUp
	}
	return -(minUp + maxDown) / 2
}

// upSign is the sign of ∂|β|/∂β when β increases.
func upSign(b float64) float64 {
	if b < 0 {
		return -1
	}
	return 1
}

// downSign is the sign of −∂|β|/∂β when β decreases.
func downSign(b float64) float64 {
	if b > 0 {
		return 1
	}
	return -1
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func (s *SVR) keepSupport(Xs *mat.Dense, beta []float64) {
	_, p := Xs.Dims()
	var rows []int
	for i, b := range beta {
		if b != 0 {
			rows = append(rows, i)
		}
	}
	s.coef = make([]float64, len(rows))
	if len(rows) == 0 {
		s.support = mat.NewDense(1, p, nil)
		s.coef = []float64{0}
		return
	}
	s.support = mat.NewDense(len(rows), p, nil)
	for k, i := range rows {
		s.support.SetRow(k, Xs.RawRowView(i))
		s.coef[k] = beta[i]
	}
}

// scaleGamma is 1 / (p · Var(X)) over every element of X.
func scaleGamma(X *mat.Dense, p int) float64 {
	r, c := X.Dims()
	all := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		all = append(all, X.RawRowView(i)...)
	}
	v := stat.PopVariance(all, nil)
	if v == 0 {
		return 1 / float64(p)
	}
	return 1 / (float64(p) * v)
}

func rbf(a, b []float64, gamma float64) float64 {
	d := floats.Distance(a, b, 2)
	return math.Exp(-gamma * d * d)
}

// Package analysis computes the correlation statistics between conductivity
// and the machinability indicators: Pearson and Spearman coefficients with
// two-sided p-values, correlation matrices, per-grade breakdowns and
// descriptive summaries.
//
// Every function drops a row when either value of the pair is NaN and
// reports the number of rows it actually used.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// Method names a correlation coefficient.
type Method string

const (
	MethodPearson  Method = "pearson"
	MethodSpearman Method = "spearman"
)

// CorrelationResult is a coefficient in [-1, 1], its two-sided p-value and
// the number of pairwise-complete rows it was computed on.
type CorrelationResult struct {
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
	PValue      float64 `json:"p_value" yaml:"p_value"`
	N           int     `json:"n" yaml:"n"`
	Method      Method  `json:"method" yaml:"method"`
}

// Significant reports whether p is below alpha.
func Significant(p, alpha float64) bool {
	return p < alpha
}

// Pearson returns the Pearson product-moment correlation of x and y.
//
// Fewer than two complete pairs gives an InsufficientSampleError carrying the
// count; a constant series gives a DegenerateInputError.
func Pearson(x, y []float64) (CorrelationResult, error) {
	xs, ys, err := pairwiseComplete("Pearson", x, y)
	if err != nil {
		return CorrelationResult{N: len(xs), Method: MethodPearson}, err
	}
	return correlate("Pearson", MethodPearson, xs, ys)
}

// Spearman returns the Spearman rank correlation of x and y. Tied values
// receive the average of the ranks they span.
func Spearman(x, y []float64) (CorrelationResult, error) {
	xs, ys, err := pairwiseComplete("Spearman", x, y)
	if err != nil {
		return CorrelationResult{N: len(xs), Method: MethodSpearman}, err
	}
	return correlate("Spearman", MethodSpearman, rank(xs), rank(ys))
}

func correlate(op string, method Method, x, y []float64) (CorrelationResult, error) {
	n := len(x)
	res := CorrelationResult{N: n, Method: method}

	if constant(x) || constant(y) {
		return res, errors.NewDegenerateInputError(op, "zero variance in input series")
	}

	r := stat.Correlation(x, y, nil)
	res.Coefficient = math.Max(-1, math.Min(1, r))
	res.PValue = correlationPValue(res.Coefficient, n)
	return res, nil
}

// correlationPValue converts r to t = r·sqrt((n−2)/(1−r²)) and returns the
// two-sided tail probability of Student's t with n−2 degrees of freedom.
func correlationPValue(r float64, n int) float64 {
	if n < 3 {
		return 1
	}
	if math.Abs(r) == 1 {
		return 0
	}
	df := float64(n - 2)
	t := r * math.Sqrt(df/(1-r*r))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * (1 - dist.CDF(math.Abs(t)))
	return math.Max(0, math.Min(1, p))
}

// pairwiseComplete keeps the positions where both x and y are non-NaN.
func pairwiseComplete(op string, x, y []float64) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, errors.NewDimensionError(op, len(x), len(y), 0)
	}
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return xs, ys, errors.NewInsufficientSampleError(op, len(xs), 2)
	}
	return xs, ys, nil
}

// rank returns 1-based fractional ranks; ties share their mean rank.
func rank(x []float64) []float64 {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return x[idx[a]] < x[idx[b]] })

	ranks := make([]float64, len(x))
	for i := 0; i < len(idx); {
		j := i + 1
		for j < len(idx) && x[idx[j]] == x[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		i = j
	}
	return ranks
}

func constant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}

// Package tree implements CART regression trees with variance-reduction
// splits and impurity-based feature importances.
package tree

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

const leaf = -1

type node struct {
	feature   int // leaf for terminal nodes
	threshold float64
	left      int
	right     int
	value     float64
	impurity  float64
	samples   int
}

// DecisionTreeRegressor grows a binary tree that minimises the within-node
// squared error. Samples with x[feature] <= threshold go left.
type DecisionTreeRegressor struct {
	state *model.StateManager

	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MinSamplesLeaf  int

	nodes       []node
	importances []float64
	depth       int
}

// Option configures a DecisionTreeRegressor.
type Option func(*DecisionTreeRegressor)

// WithMaxDepth limits the tree depth. depth <= 0 grows until the leaves are
// pure or too small to split.
func WithMaxDepth(depth int) Option {
	return func(t *DecisionTreeRegressor) { t.MaxDepth = depth }
}

// WithMinSamplesSplit sets the smallest node that may be split.
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}

// WithMinSamplesLeaf sets the smallest allowed leaf.
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}

// NewDecisionTreeRegressor returns an unfitted, unlimited-depth tree.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	t := &DecisionTreeRegressor{
		state:           model.NewStateManager("DecisionTreeRegressor"),
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Fit grows the tree on X and y.
func (t *DecisionTreeRegressor) Fit(X, y mat.Matrix) error {
	n, p, err := model.CheckFitInput("DecisionTreeRegressor.Fit", X, y)
	if err != nil {
		return err
	}
	if t.MinSamplesSplit < 2 {
		return errors.NewValidationError("min_samples_split", "must be at least 2", t.MinSamplesSplit)
	}
	if t.MinSamplesLeaf < 1 {
		return errors.NewValidationError("min_samples_leaf", "must be at least 1", t.MinSamplesLeaf)
	}

	b := &builder{
		X:    mat.DenseCopyOf(X),
		y:    model.Column(y),
		tree: t,
		gain: make([]float64, p),
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	t.nodes = t.nodes[:0]
	t.depth = 0
	b.grow(rows, 0)

	total := floats.Sum(b.gain)
	if total > 0 {
		floats.Scale(1/total, b.gain)
	}
	t.importances = b.gain
	t.state.SetFitted(p, n)
	return nil
}

// Predict routes every row of X to a leaf and returns the leaf means.
func (t *DecisionTreeRegressor) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := t.state.CheckPredictInput("Predict", X); err != nil {
		return nil, err
	}
	r, c := X.Dims()
	row := make([]float64, c)
	out := mat.NewDense(r, 1, nil)
	for i := 0; i < r; i++ {
		mat.Row(row, i, X)
		out.Set(i, 0, t.predictRow(row))
	}
	return out, nil
}

// PredictRow evaluates a single sample.
func (t *DecisionTreeRegressor) PredictRow(x []float64) (float64, error) {
	if err := t.state.RequireFitted("PredictRow"); err != nil {
		return 0, err
	}
	if nf, _ := t.state.Dimensions(); len(x) != nf {
		return 0, errors.NewDimensionError("PredictRow", nf, len(x), 1)
	}
	return t.predictRow(x), nil
}

func (t *DecisionTreeRegressor) predictRow(x []float64) float64 {
	i := 0
	for t.nodes[i].feature != leaf {
		nd := t.nodes[i]
		if x[nd.feature] <= nd.threshold {
			i = nd.left
		} else {
			i = nd.right
		}
	}
	return t.nodes[i].value
}

// FeatureImportances returns the normalised total impurity decrease per
// feature. All zeros when the tree is a single leaf.
func (t *DecisionTreeRegressor) FeatureImportances() ([]float64, error) {
	if err := t.state.RequireFitted("FeatureImportances"); err != nil {
		return nil, err
	}
	return append([]float64(nil), t.importances...), nil
}

// RawImportances returns the unnormalised impurity decrease per feature,
// weighted by node sample count. Gradient boosting sums these over its
// stages before normalising.
func (t *DecisionTreeRegressor) RawImportances() []float64 {
	raw := make([]float64, len(t.importances))
	for _, nd := range t.nodes {
		if nd.feature == leaf {
			continue
		}
		l, r := t.nodes[nd.left], t.nodes[nd.right]
		raw[nd.feature] += float64(nd.samples)*nd.impurity -
			float64(l.samples)*l.impurity - float64(r.samples)*r.impurity
	}
	return raw
}

// IsFitted reports whether Fit has succeeded.
func (t *DecisionTreeRegressor) IsFitted() bool { return t.state.IsFitted() }

// NodeCount returns the number of nodes in the fitted tree.
func (t *DecisionTreeRegressor) NodeCount() int { return len(t.nodes) }

// Depth returns the depth of the deepest leaf.
func (t *DecisionTreeRegressor) Depth() int { return t.depth }

type builder struct {
	X    *mat.Dense
	y    []float64
	tree *DecisionTreeRegressor
	gain []float64
}

type split struct {
	feature   int
	threshold float64
	pos       int // rows[:pos] go left after sorting by feature
	score     float64
}

// grow appends the subtree for rows and returns its node index.
func (b *builder) grow(rows []int, depth int) int {
	t := b.tree
	if depth > t.depth {
		t.depth = depth
	}
	mean, sse := meanSSE(b.y, rows)
	idx := len(t.nodes)
	t.nodes = append(t.nodes, node{
		feature:  leaf,
		value:    mean,
		impurity: sse / float64(len(rows)),
		samples:  len(rows),
	})

	if len(rows) < t.MinSamplesSplit || len(rows) < 2*t.MinSamplesLeaf ||
		(t.MaxDepth > 0 && depth >= t.MaxDepth) || sse <= 1e-12 {
		return idx
	}

	best, ok := b.bestSplit(rows, sse)
	if !ok {
		return idx
	}

	b.sortBy(rows, best.feature)
	left := append([]int(nil), rows[:best.pos]...)
	right := append([]int(nil), rows[best.pos:]...)

	_, sseL := meanSSE(b.y, left)
	_, sseR := meanSSE(b.y, right)
	b.gain[best.feature] += sse - sseL - sseR

	l := b.grow(left, depth+1)
	r := b.grow(right, depth+1)
	nd := &t.nodes[idx]
	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = l
	nd.right = r
	return idx
}

// bestSplit scans every feature for the threshold with the lowest total SSE.
func (b *builder) bestSplit(rows []int, parentSSE float64) (split, bool) {
	_, p := b.X.Dims()
	minLeaf := b.tree.MinSamplesLeaf
	n := len(rows)

	best := split{score: parentSSE}
	found := false
	for f := 0; f < p; f++ {
		b.sortBy(rows, f)

		var sumL, sqL float64
		var sumT, sqT float64
		for _, i := range rows {
			sumT += b.y[i]
			sqT += b.y[i] * b.y[i]
		}
		for k := 0; k < n-1; k++ {
			v := b.y[rows[k]]
			sumL += v
			sqL += v * v
			nl := k + 1
			nr := n - nl
			if nl < minLeaf || nr < minLeaf {
				continue
			}
			cur := b.X.At(rows[k], f)
			next := b.X.At(rows[k+1], f)
			if next <= cur {
				continue
			}
			sumR := sumT - sumL
			sqR := sqT - sqL
			score := (sqL - sumL*sumL/float64(nl)) + (sqR - sumR*sumR/float64(nr))
			if score < best.score-1e-12 {
				best = split{feature: f, threshold: cur + (next-cur)/2, pos: nl, score: score}
				found = true
			}
		}
	}
	return best, found
}

func (b *builder) sortBy(rows []int, f int) {
	sort.SliceStable(rows, func(a, c int) bool {
		return b.X.At(rows[a], f) < b.X.At(rows[c], f)
	})
}

func meanSSE(y []float64, rows []int) (mean, sse float64) {
	for _, i := range rows {
		mean += y[i]
	}
	mean /= float64(len(rows))
	for _, i := range rows {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}

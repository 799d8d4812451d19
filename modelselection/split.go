// Package modelselection provides hold-out splitting and k-fold cross
// validation over row indices.
package modelselection

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// TrainTestSplit permutes [0, n) with a PCG source seeded by seed and returns
// the held-out rows first: ceil(testSize·n) test rows, the rest for training.
// Feature, target and baseline matrices must all be sliced with the same
// indices.
func TrainTestSplit(n int, testSize float64, seed uint64) (train, test []int, err error) {
	if !(testSize > 0 && testSize < 1) {
		return nil, nil, errors.NewInvalidConfigurationError("test_size", "must be in (0, 1)", testSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, errors.NewInsufficientSampleError("TrainTestSplit", n, minSplitRows(testSize))
	}

	perm := rand.New(rand.NewPCG(seed, seed)).Perm(n)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	return train, test, nil
}

// minSplitRows is the smallest n that leaves at least one row on both sides.
func minSplitRows(testSize float64) int {
	for n := 2; ; n++ {
		nTest := int(math.Ceil(testSize * float64(n)))
		if nTest >= 1 && n-nTest >= 1 {
			return n
		}
	}
}

// Rows copies the given rows of m into a new matrix, in index order.
func Rows(m mat.Matrix, indices []int) *mat.Dense {
	_, c := m.Dims()
	if len(indices) == 0 {
		return &mat.Dense{}
	}
	out := mat.NewDense(len(indices), c, nil)
	for k, i := range indices {
		for j := 0; j < c; j++ {
			out.Set(k, j, m.At(i, j))
		}
	}
	return out
}

// Subset slices X and y with the same row indices.
func Subset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	return Rows(X, indices), Rows(y, indices)
}

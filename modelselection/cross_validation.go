package modelselection

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/metrics"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// Splitter yields train/test folds over n rows.
type Splitter interface {
	Split(n int) ([]Fold, error)
	NSplits() int
}

// Fold is one train/test partition of the row indices.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// KFold splits rows into k consecutive folds. The first n mod k folds get
// one extra row.
type KFold struct {
	K       int
	Shuffle bool
	Seed    uint64
}

// NewKFold returns an unshuffled k-fold splitter.
func NewKFold(k int) *KFold {
	return &KFold{K: k}
}

// NSplits returns k.
func (kf *KFold) NSplits() int { return kf.K }

// Split returns the folds in order. n < k is an InsufficientSampleError.
func (kf *KFold) Split(n int) ([]Fold, error) {
	if kf.K < 2 {
		return nil, errors.NewInvalidConfigurationError("cv_folds", "must be at least 2", kf.K)
	}
	if n < kf.K {
		return nil, errors.NewInsufficientSampleError("KFold.Split", n, kf.K)
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.K)
	foldSize := n / kf.K
	remainder := n % kf.K
	start := 0
	for i := 0; i < kf.K; i++ {
		size := foldSize
		if i < remainder {
			size++
		}
		end := start + size

		train := make([]int, 0, n-size)
		train = append(train, indices[:start]...)
		train = append(train, indices[end:]...)
		folds[i] = Fold{
			TrainIndices: train,
			TestIndices:  append([]int(nil), indices[start:end]...),
		}
		start = end
	}
	return folds, nil
}

// CVResult holds the per-fold test R² and fit times.
type CVResult struct {
	Scores   []float64
	FitTimes []time.Duration
}

// Mean returns the mean fold score.
func (r *CVResult) Mean() float64 {
	if len(r.Scores) == 0 {
		return 0
	}
	return stat.Mean(r.Scores, nil)
}

// Std returns the sample standard deviation of the fold scores.
func (r *CVResult) Std() float64 {
	if len(r.Scores) < 2 {
		return 0
	}
	return stat.StdDev(r.Scores, nil)
}

// CrossValScore fits a fresh estimator from newModel on every training fold
// and scores R² on the matching test fold.
func CrossValScore(newModel func() (model.Regressor, error), X, y mat.Matrix, splitter Splitter) (*CVResult, error) {
	n, _ := X.Dims()
	if ry, _ := y.Dims(); ry != n {
		return nil, errors.NewDimensionError("CrossValScore", n, ry, 0)
	}
	folds, err := splitter.Split(n)
	if err != nil {
		return nil, err
	}

	result := &CVResult{
		Scores:   make([]float64, len(folds)),
		FitTimes: make([]time.Duration, len(folds)),
	}
	for i, fold := range folds {
		est, err := newModel()
		if err != nil {
			return nil, err
		}
		err = errors.SafeExecute("CrossValScore", func() error {
			return scoreFold(est, X, y, fold, &result.Scores[i], &result.FitTimes[i])
		})
		if err != nil {
			return nil, errors.Wrapf(err, "fold %d", i)
		}
	}
	return result, nil
}

// scoreFold fits est on the training rows of fold and stores the R² on its
// test rows.
func scoreFold(est model.Regressor, X, y mat.Matrix, fold Fold, score *float64, fitTime *time.Duration) error {
	trainX, trainY := Subset(X, y, fold.TrainIndices)
	testX, testY := Subset(X, y, fold.TestIndices)

	start := time.Now()
	if err := est.Fit(trainX, trainY); err != nil {
		return err
	}
	*fitTime = time.Since(start)

	pred, err := est.Predict(testX)
	if err != nil {
		return err
	}
	r2, err := metrics.R2Score(testY.ColView(0), vector(pred))
	if err != nil {
		return err
	}
	*score = r2
	return nil
}

func vector(m mat.Matrix) mat.Vector {
	c := model.Column(m)
	return mat.NewVecDense(len(c), c)
}

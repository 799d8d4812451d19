package model

import (
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// StateManager tracks whether an estimator has been fitted and the shape it
// was fitted on. Estimators hold one by composition.
type StateManager struct {
	mu sync.RWMutex

	name      string
	fitted    bool
	nFeatures int
	nSamples  int
}

// NewStateManager creates a StateManager for the named estimator. The name
// appears in NotFitted and dimension errors.
func NewStateManager(name string) *StateManager {
	return &StateManager{name: name}
}

// IsFitted returns whether the model has been fitted.
func (s *StateManager) IsFitted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fitted
}

// SetFitted marks the model as fitted on data of the given shape.
func (s *StateManager) SetFitted(nFeatures, nSamples int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = true
	s.nFeatures = nFeatures
	s.nSamples = nSamples
}

// Reset resets the fitted state.
func (s *StateManager) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fitted = false
	s.nFeatures = 0
	s.nSamples = 0
}

// Dimensions returns the number of features and samples seen during fitting.
func (s *StateManager) Dimensions() (nFeatures, nSamples int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nFeatures, s.nSamples
}

// RequireFitted returns a NotFittedError naming method if Fit has not run.
func (s *StateManager) RequireFitted(method string) error {
	if !s.IsFitted() {
		return errors.NewNotFittedError(s.name, method)
	}
	return nil
}

// CheckPredictInput validates X against the fitted state.
func (s *StateManager) CheckPredictInput(method string, X mat.Matrix) error {
	if err := s.RequireFitted(method); err != nil {
		return err
	}
	_, c := X.Dims()
	nFeatures, _ := s.Dimensions()
	if c != nFeatures {
		return errors.NewDimensionError(s.name+"."+method, nFeatures, c, 1)
	}
	return nil
}

// CheckFitInput validates the shapes handed to Fit: non-empty X, a column
// vector y with one row per sample.
func CheckFitInput(op string, X, y mat.Matrix) (rows, cols int, err error) {
	rows, cols = X.Dims()
	if rows == 0 || cols == 0 {
		return 0, 0, errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	ry, cy := y.Dims()
	if ry != rows {
		return 0, 0, errors.NewDimensionError(op, rows, ry, 0)
	}
	if cy != 1 {
		return 0, 0, errors.NewValueError(op, "y must be a column vector")
	}
	return rows, cols, nil
}

// Column copies the single column of y into a slice.
func Column(y mat.Matrix) []float64 {
	r, _ := y.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = y.At(i, 0)
	}
	return out
}

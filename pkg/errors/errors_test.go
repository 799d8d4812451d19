package errors

import (
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name    string
		op      string
		kind    string
		err     error
		wantMsg string
	}{
		{
			name:    "with original error",
			op:      "Fit",
			kind:    "invalid input",
			err:     fmt.Errorf("test error"),
			wantMsg: "machinability: Fit: invalid input: test error",
		},
		{
			name:    "without original error",
			op:      "Predict",
			kind:    "not fitted",
			wantMsg: "machinability: Predict: not fitted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			formatted := fmt.Sprintf("%+v", err)
			if !strings.Contains(formatted, "errors_test.go") {
				t.Error("Expected stack trace to contain test file name")
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("HardnessBaseline.Fit", 1, 2, 1)

	want := "machinability: HardnessBaseline.Fit: dimension mismatch on axis 1 (features). Expected 1, got 2"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Fatal("Error should be castable to *DimensionError")
	}
	if dimErr.Got != 2 {
		t.Errorf("Got = %d, want 2", dimErr.Got)
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		others   []error
	}{
		{
			name:     "invalid configuration",
			err:      NewInvalidConfigurationError("features", "at least one feature is required", []string{}),
			sentinel: ErrInvalidConfiguration,
			others:   []error{ErrUnknownModel, ErrInsufficientSample, ErrDegenerateInput},
		},
		{
			name:     "unknown model",
			err:      NewUnknownModelError("XGBoost", []string{"SVR"}),
			sentinel: ErrUnknownModel,
			others:   []error{ErrInvalidConfiguration, ErrInsufficientSample, ErrDegenerateInput},
		},
		{
			name:     "insufficient sample",
			err:      NewInsufficientSampleError("Pearson", 1, 2),
			sentinel: ErrInsufficientSample,
			others:   []error{ErrInvalidConfiguration, ErrUnknownModel, ErrDegenerateInput},
		},
		{
			name:     "degenerate input",
			err:      NewDegenerateInputError("R2Score", "zero variance in yTrue"),
			sentinel: ErrDegenerateInput,
			others:   []error{ErrInvalidConfiguration, ErrUnknownModel, ErrInsufficientSample},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !Is(tt.err, tt.sentinel) {
				t.Errorf("Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
			wrapped := Wrap(tt.err, "stage failed")
			if !Is(wrapped, tt.sentinel) {
				t.Error("kind should survive wrapping")
			}
			for _, other := range tt.others {
				if Is(tt.err, other) {
					t.Errorf("Is(%v, %v) = true, want false", tt.err, other)
				}
			}
		})
	}
}

func TestInsufficientSampleErrorCarriesCount(t *testing.T) {
	err := NewInsufficientSampleError("Spearman", 1, 2)

	var sampleErr *InsufficientSampleError
	if !As(err, &sampleErr) {
		t.Fatal("Error should be castable to *InsufficientSampleError")
	}
	if sampleErr.N != 1 || sampleErr.Required != 2 {
		t.Errorf("got N=%d Required=%d", sampleErr.N, sampleErr.Required)
	}
	if !strings.Contains(err.Error(), "got 1") {
		t.Errorf("message should carry the count: %s", err)
	}
}

func TestUnknownModelErrorMessage(t *testing.T) {
	err := NewUnknownModelError("Lasso", []string{"Linear Regression", "SVR"})
	if !strings.Contains(err.Error(), `"Lasso"`) {
		t.Errorf("message should quote the name: %s", err)
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("SVR", "Predict")
	want := "machinability: SVR: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}
}

func TestWarnRoutesToHandler(t *testing.T) {
	var got []error
	SetWarningHandler(func(w error) { got = append(got, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewConvergenceWarning("SVR", 1000, "dual coordinate descent"))

	if len(got) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(got))
	}
	if !strings.Contains(got[0].Error(), "SVR failed to converge after 1000 iterations") {
		t.Errorf("unexpected warning text: %v", got[0])
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrapf(ErrSingularMatrix, "fitting %s", "Linear Regression")
	if !Is(wrapped, ErrSingularMatrix) {
		t.Error("Is should find the wrapped sentinel")
	}
	if !strings.Contains(wrapped.Error(), "fitting Linear Regression") {
		t.Errorf("unexpected message: %s", wrapped)
	}
}

func TestNumericalChecks(t *testing.T) {
	if err := CheckNumericalStability("dual update", []float64{1, 2, 3}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := CheckNumericalStability("dual update", []float64{1, math.NaN()}, 7); err == nil {
		t.Error("expected instability error for NaN")
	}
	if err := CheckScalar("objective", math.Inf(1), 3); err == nil {
		t.Error("expected instability error for Inf")
	}
	if got := ClipValue(12, 2, 10); got != 10 {
		t.Errorf("ClipValue = %v, want 10", got)
	}
	if got := Floor(-3, 5); got != 5 {
		t.Errorf("Floor = %v, want 5", got)
	}
}

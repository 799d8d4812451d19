package models

import (
	"testing"

	"github.com/RudolfRTC/AI-Research/core/model"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(k.String())
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k.String(), err)
		}
		if got != k {
			t.Errorf("ParseKind(%q) = %v", k.String(), got)
		}
	}

	_, err := ParseKind("XGBoost")
	if !errors.Is(err, errors.ErrUnknownModel) {
		t.Errorf("got %v, want UnknownModel", err)
	}
}

func TestKindGroups(t *testing.T) {
	tests := []struct {
		kind     Kind
		ensemble bool
		linear   bool
	}{
		{LinearRegression, false, true},
		{SVR, false, true},
		{RandomForest, true, false},
		{GradientBoosting, true, false},
	}
	for _, tt := range tests {
		if tt.kind.IsEnsemble() != tt.ensemble || tt.kind.IsLinearFamily() != tt.linear {
			t.Errorf("%v: IsEnsemble=%v IsLinearFamily=%v", tt.kind, tt.kind.IsEnsemble(), tt.kind.IsLinearFamily())
		}
	}
	if Kind(0).Valid() || Kind(99).Valid() {
		t.Error("out-of-range kinds should be invalid")
	}
}

func TestNewReturnsFreshEstimators(t *testing.T) {
	for _, k := range Kinds() {
		a, err := New(k)
		if err != nil {
			t.Fatalf("New(%v): %v", k, err)
		}
		b, _ := New(k)
		if a == b {
			t.Errorf("New(%v) returned the same instance twice", k)
		}
		if a.IsFitted() {
			t.Errorf("New(%v) returned a fitted estimator", k)
		}
		_, isImp := a.(model.FeatureImportancer)
		if isImp != k.IsEnsemble() {
			t.Errorf("%v: FeatureImportancer = %v, want %v", k, isImp, k.IsEnsemble())
		}
	}

	if _, err := New(Kind(42)); !errors.Is(err, errors.ErrUnknownModel) {
		t.Errorf("got %v, want UnknownModel", err)
	}
}

func TestKindText(t *testing.T) {
	var k Kind
	if err := k.UnmarshalText([]byte("Random Forest")); err != nil {
		t.Fatal(err)
	}
	if k != RandomForest {
		t.Errorf("got %v", k)
	}
	b, err := GradientBoosting.MarshalText()
	if err != nil || string(b) != "Gradient Boosting" {
		t.Errorf("MarshalText = %q, %v", b, err)
	}
}

package units

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func TestIACSReference(t *testing.T) {
	if got := IACSToMSPerM(100.0); got != 58.0 {
		t.Errorf("IACSToMSPerM(100) = %v, want exactly 58.0", got)
	}
	if got := MSPerMToIACS(58.0); got != 100.0 {
		t.Errorf("MSPerMToIACS(58) = %v, want exactly 100.0", got)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 1, 7.5, 12.345, 45, 100, 101.7, -3, 1e-9, 1e9} {
		got := MSPerMToIACS(IACSToMSPerM(x))
		if !scalar.EqualWithinAbsOrRel(got, x, 1e-12, 1e-12) {
			t.Errorf("round trip of %v = %v", x, got)
		}
	}
}

func TestResistivityToConductivity(t *testing.T) {
	tests := []struct {
		r    float64
		want float64
	}{
		{1.724, 0.1 / 1.724},
		{20, 0.005},
		{0.1, 1},
	}
	for _, tt := range tests {
		if got := ResistivityToConductivity(tt.r); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("ResistivityToConductivity(%v) = %v, want %v", tt.r, got, tt.want)
		}
	}
	if got := ResistivityToConductivity(0); !math.IsInf(got, 1) {
		t.Errorf("zero resistivity should give +Inf, got %v", got)
	}
}

func TestSliceVariantsMirrorShape(t *testing.T) {
	in := []float64{10, 50, 100}
	ms := IACSToMSPerMSlice(in)
	if len(ms) != len(in) {
		t.Fatalf("len = %d, want %d", len(ms), len(in))
	}
	if ms[2] != 58.0 {
		t.Errorf("ms[2] = %v", ms[2])
	}
	if in[2] != 100 {
		t.Error("input must not be modified")
	}
	back := MSPerMToIACSSlice(ms)
	if !floats.EqualApprox(back, in, 1e-12) {
		t.Errorf("round trip = %v", back)
	}
	if got := ResistivityToConductivitySlice(nil); got != nil {
		t.Errorf("nil input should give nil, got %v", got)
	}
	if got := ResistivityToConductivitySlice([]float64{}); len(got) != 0 {
		t.Errorf("empty input should give empty output, got %v", got)
	}
}

func TestConvertVector(t *testing.T) {
	src := mat.NewVecDense(3, []float64{100, 50, 0})
	dst := Convert(nil, src, IACSToMSPerM)
	want := []float64{58, 29, 0}
	for i, w := range want {
		if dst.AtVec(i) != w {
			t.Errorf("dst[%d] = %v, want %v", i, dst.AtVec(i), w)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	Convert(mat.NewVecDense(2, nil), src, IACSToMSPerM)
}

package dataset

import (
	"reflect"
	"testing"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(80, 42)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(80, 42)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 80 {
		t.Fatalf("len = %d, want 80", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed must produce identical specimens")
	}
}

func TestGenerateSeedSensitivity(t *testing.T) {
	a, _ := Generate(80, 42)
	b, _ := Generate(80, 43)
	if reflect.DeepEqual(a, b) {
		t.Error("different seeds should change at least one value")
	}
}

func TestGenerateRanges(t *testing.T) {
	specimens, err := Generate(500, 7)
	if err != nil {
		t.Fatal(err)
	}
	counts := map[string]int{}
	for i, s := range specimens {
		counts[s.SteelGrade]++
		if _, ok := GradeProfiles[s.SteelGrade]; !ok {
			t.Fatalf("specimen %d: unknown grade %q", i, s.SteelGrade)
		}
		checks := []struct {
			name   string
			v      float64
			lo, hi float64
		}{
			{"conductivity", s.Conductivity, 2, 10},
			{"hardness", s.Hardness, 150, 450},
			{"C", s.CompositionC, 0.10, 0.70},
			{"Mn", s.CompositionMn, 0.30, 1.20},
			{"Cr", s.CompositionCr, 0, 1.50},
		}
		for _, c := range checks {
			if c.v < c.lo || c.v > c.hi {
				t.Errorf("specimen %d: %s = %v outside [%v, %v]", i, c.name, c.v, c.lo, c.hi)
			}
		}
		if s.ToolLife < 5 || s.Ra < 0.05 || s.Fc < 50 {
			t.Errorf("specimen %d: targets below floor: %+v", i, s)
		}
	}
	for _, g := range SteelGrades {
		if counts[g] == 0 {
			t.Errorf("grade %s never drawn in 500 specimens", g)
		}
	}
}

func TestGenerateQualitativeTrends(t *testing.T) {
	tbl, err := GenerateTable(300, 42)
	if err != nil {
		t.Fatal(err)
	}
	cond, _ := tbl.Column(ColConductivity)
	life, _ := tbl.Column(ColToolLife)
	fc, _ := tbl.Column(ColFc)

	if c := cov(cond, life); c <= 0 {
		t.Errorf("conductivity and tool life should move together, cov = %v", c)
	}
	if c := cov(cond, fc); c >= 0 {
		t.Errorf("conductivity and cutting force should move apart, cov = %v", c)
	}
}

func TestGenerateRejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := Generate(n, 42)
		var ve *errors.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Generate(%d) error = %v, want ValidationError", n, err)
		}
	}
}

func cov(x, y []float64) float64 {
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(len(x))
	my /= float64(len(y))
	var s float64
	for i := range x {
		s += (x[i] - mx) * (y[i] - my)
	}
	return s / float64(len(x)-1)
}

package dataset

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"
)

func TestXLSXRoundTrip(t *testing.T) {
	tbl, err := GenerateTable(15, 9)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, tbl); err != nil {
		t.Fatal(err)
	}
	back, err := ReadXLSX(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if back.Len() != tbl.Len() {
		t.Fatalf("Len = %d, want %d", back.Len(), tbl.Len())
	}
	for _, name := range tbl.NumericColumns() {
		want, _ := tbl.Column(name)
		got, err := back.Column(name)
		if err != nil {
			t.Fatalf("column %s lost: %v", name, err)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("%s[%d] = %v, want %v", name, i, got[i], want[i])
			}
		}
	}
	for i, g := range tbl.Grades() {
		if back.Grades()[i] != g {
			t.Fatalf("grade[%d] = %q, want %q", i, back.Grades()[i], g)
		}
	}
}

func TestXLSXTrailingMissingCell(t *testing.T) {
	tbl, err := NewTable(
		[]string{ColHardness, ColToolLife},
		[][]float64{{210, 230}, {40.5, math.NaN()}},
		[]string{GradeAISI1045, GradeAISI4140},
	)
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "specimens.xlsx")
	if err := Save(path, tbl); err != nil {
		t.Fatal(err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	life, err := back.Column(ColToolLife)
	if err != nil {
		t.Fatal(err)
	}
	if life[0] != 40.5 || !math.IsNaN(life[1]) {
		t.Errorf("tool_life = %v, want [40.5 NaN]", life)
	}
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	tbl, err := GenerateTable(5, 1)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	for _, name := range []string{"a.csv", "b.XLSX"} {
		path := filepath.Join(dir, name)
		if err := Save(path, tbl); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		back, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if back.Len() != 5 {
			t.Errorf("%s: Len = %d, want 5", name, back.Len())
		}
	}
}

func TestReadXLSXRejectsGarbage(t *testing.T) {
	if _, err := ReadXLSX(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Error("expected an error for non-xlsx input")
	}
}

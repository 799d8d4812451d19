package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// Matrix is a symmetric Pearson correlation matrix over named columns.
// Entries are NaN where a column is constant or a pair has fewer than two
// complete rows.
type Matrix struct {
	Columns []string
	Values  *mat.SymDense
}

// At returns the coefficient between two named columns.
func (m *Matrix) At(a, b string) (float64, error) {
	i, j := m.index(a), m.index(b)
	if i < 0 {
		return math.NaN(), errors.NewValidationError("column", "not in correlation matrix", a)
	}
	if j < 0 {
		return math.NaN(), errors.NewValidationError("column", "not in correlation matrix", b)
	}
	return m.Values.At(i, j), nil
}

func (m *Matrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// CorrelationMatrix computes pairwise Pearson coefficients between the given
// columns, or every numeric column of t when none are given. Each pair uses
// its own complete rows.
func CorrelationMatrix(t *dataset.Table, columns ...string) (*Matrix, error) {
	if len(columns) == 0 {
		columns = t.NumericColumns()
	}
	if len(columns) == 0 {
		return nil, errors.NewValidationError("columns", "no numeric columns to correlate", columns)
	}

	data := make([][]float64, len(columns))
	for i, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		data[i] = col
	}

	k := len(columns)
	values := mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			values.SetSym(i, j, matrixEntry(data[i], data[j], i == j))
		}
	}
	return &Matrix{Columns: append([]string(nil), columns...), Values: values}, nil
}

func matrixEntry(x, y []float64, diagonal bool) float64 {
	res, err := Pearson(x, y)
	switch {
	case err != nil:
		return math.NaN()
	case diagonal:
		return 1
	}
	return res.Coefficient
}

// GroupCorrelation is the Pearson correlation inside one steel grade.
type GroupCorrelation struct {
	Grade string `json:"grade" yaml:"grade"`
	CorrelationResult
}

// MinGroupSample is the number of complete rows a grade needs before its
// correlation is reported.
const MinGroupSample = 3

// PearsonByGroup correlates columns x and y separately for every steel grade
// with at least MinGroupSample complete rows, in grade name order. Grades
// with a constant series are left out.
func PearsonByGroup(t *dataset.Table, x, y string) ([]GroupCorrelation, error) {
	grades := t.Grades()
	if grades == nil {
		return nil, errors.NewValidationError("columns", "missing columns", []string{dataset.ColSteelGrade})
	}
	xs, err := t.Column(x)
	if err != nil {
		return nil, err
	}
	ys, err := t.Column(y)
	if err != nil {
		return nil, err
	}

	var out []GroupCorrelation
	for _, g := range uniqueSorted(grades) {
		var gx, gy []float64
		for i, gr := range grades {
			if gr == g {
				gx = append(gx, xs[i])
				gy = append(gy, ys[i])
			}
		}
		res, err := Pearson(gx, gy)
		if err != nil || res.N < MinGroupSample {
			continue
		}
		out = append(out, GroupCorrelation{Grade: g, CorrelationResult: res})
	}
	return out, nil
}

func uniqueSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

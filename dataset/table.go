package dataset

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// Table is a column-oriented, read-only view of specimens. Numeric columns
// use NaN for a missing value. The steel_grade column is optional.
type Table struct {
	names  []string
	cols   map[string][]float64
	grades []string
	n      int
}

// NewTable builds a table from parallel numeric columns. grades may be nil;
// otherwise it needs one entry per row. The input slices are copied.
func NewTable(names []string, columns [][]float64, grades []string) (*Table, error) {
	if len(names) != len(columns) {
		return nil, errors.NewDimensionError("dataset.NewTable", len(names), len(columns), 1)
	}

	n := -1
	t := &Table{cols: make(map[string][]float64, len(names))}
	for i, name := range names {
		if name == "" || name == ColSteelGrade {
			return nil, errors.NewValidationError("columns", "invalid numeric column name", name)
		}
		if _, dup := t.cols[name]; dup {
			return nil, errors.NewValidationError("columns", "duplicate column", name)
		}
		if n < 0 {
			n = len(columns[i])
		} else if len(columns[i]) != n {
			return nil, errors.NewDimensionError("dataset.NewTable", n, len(columns[i]), 0)
		}
		t.names = append(t.names, name)
		t.cols[name] = append([]float64(nil), columns[i]...)
	}

	if n < 0 {
		n = len(grades)
	}
	if grades != nil {
		if len(grades) != n {
			return nil, errors.NewDimensionError("dataset.NewTable", n, len(grades), 0)
		}
		t.grades = append([]string(nil), grades...)
	}
	t.n = n
	return t, nil
}

// FromSpecimens lays specimens out as a table with the full column vocabulary.
func FromSpecimens(specimens []Specimen) *Table {
	n := len(specimens)
	t := &Table{
		names:  append([]string(nil), specimenColumns...),
		cols:   make(map[string][]float64, len(specimenColumns)),
		grades: make([]string, n),
		n:      n,
	}
	for _, name := range specimenColumns {
		t.cols[name] = make([]float64, n)
	}
	for i, s := range specimens {
		t.grades[i] = s.SteelGrade
		for j, v := range s.numeric() {
			t.cols[specimenColumns[j]][i] = v
		}
	}
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.n }

// Columns returns every column name, steel_grade first when present.
func (t *Table) Columns() []string {
	out := make([]string, 0, len(t.names)+1)
	if t.grades != nil {
		out = append(out, ColSteelGrade)
	}
	return append(out, t.names...)
}

// NumericColumns returns the numeric column names in insertion order.
func (t *Table) NumericColumns() []string {
	return append([]string(nil), t.names...)
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	if name == ColSteelGrade {
		return t.grades != nil
	}
	_, ok := t.cols[name]
	return ok
}

// Column returns a copy of a numeric column.
func (t *Table) Column(name string) ([]float64, error) {
	col, ok := t.cols[name]
	if !ok {
		return nil, unknownColumn(name)
	}
	return append([]float64(nil), col...), nil
}

// Grades returns a copy of the steel_grade column, nil when absent.
func (t *Table) Grades() []string {
	if t.grades == nil {
		return nil
	}
	return append([]string(nil), t.grades...)
}

// Matrix returns the named columns as an n×len(names) matrix.
func (t *Table) Matrix(names ...string) (*mat.Dense, error) {
	if len(names) == 0 {
		return nil, errors.NewValidationError("columns", "at least one column is required", names)
	}
	if t.n == 0 {
		return nil, errors.NewModelError("dataset.Matrix", "empty data", errors.ErrEmptyData)
	}
	m := mat.NewDense(t.n, len(names), nil)
	for j, name := range names {
		col, ok := t.cols[name]
		if !ok {
			return nil, unknownColumn(name)
		}
		m.SetCol(j, col)
	}
	return m, nil
}

// Vector returns one column as a vector.
func (t *Table) Vector(name string) (*mat.VecDense, error) {
	col, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if len(col) == 0 {
		return nil, errors.NewModelError("dataset.Vector", "empty data", errors.ErrEmptyData)
	}
	return mat.NewVecDense(len(col), col), nil
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(i int) bool) *Table {
	var idx []int
	for i := 0; i < t.n; i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return t.Rows(idx)
}

// Rows returns a new table with the given rows, in the given order.
func (t *Table) Rows(idx []int) *Table {
	out := &Table{
		names: append([]string(nil), t.names...),
		cols:  make(map[string][]float64, len(t.names)),
		n:     len(idx),
	}
	for _, name := range t.names {
		src := t.cols[name]
		dst := make([]float64, len(idx))
		for k, i := range idx {
			dst[k] = src[i]
		}
		out.cols[name] = dst
	}
	if t.grades != nil {
		out.grades = make([]string, len(idx))
		for k, i := range idx {
			out.grades[k] = t.grades[i]
		}
	}
	return out
}

// DropMissing keeps the rows where every named column is non-NaN.
func (t *Table) DropMissing(names ...string) (*Table, error) {
	cols := make([][]float64, len(names))
	for j, name := range names {
		col, ok := t.cols[name]
		if !ok {
			return nil, unknownColumn(name)
		}
		cols[j] = col
	}
	return t.Filter(func(i int) bool {
		for _, col := range cols {
			if math.IsNaN(col[i]) {
				return false
			}
		}
		return true
	}), nil
}

// RequireColumns returns a ValidationError listing every missing column.
func RequireColumns(t *Table, names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return errors.NewValidationError("columns", "missing columns", missing)
	}
	return nil
}

func unknownColumn(name string) error {
	return errors.NewValidationError("column", "unknown column", name)
}

package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/pkg/log"
)

// ReadCSV parses a measurement table with a header row. steel_grade becomes
// the categorical column, empty cells become NaN and any column holding a
// non-numeric value is skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read csv")
	}
	return fromRecords("dataset.ReadCSV", records)
}

// fromRecords builds a Table from a header row and string cells. Rows
// shorter than the header read as empty cells.
func fromRecords(op string, records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.NewModelError(op, "missing header row", errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]

	var (
		names   []string
		columns [][]float64
		grades  []string
		skipped []string
	)
	for j, raw := range header {
		name := strings.TrimSpace(raw)
		if name == ColSteelGrade {
			grades = make([]string, len(rows))
			for i, row := range rows {
				grades[i] = cell(row, j)
			}
			continue
		}

		col, ok := parseColumn(rows, j)
		if !ok {
			skipped = append(skipped, name)
			continue
		}
		names = append(names, name)
		columns = append(columns, col)
	}

	if len(skipped) > 0 {
		log.GetLoggerWithName("dataset").Debug("Skipped non-numeric columns", "columns", skipped)
	}
	return NewTable(names, columns, grades)
}

// LoadCSV reads a measurement table from a file.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV writes the table with steel_grade first. NaN is written as an
// empty cell.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return errors.Wrap(err, "dataset: write csv header")
	}

	record := make([]string, 0, len(t.names)+1)
	for i := 0; i < t.n; i++ {
		record = record[:0]
		if t.grades != nil {
			record = append(record, t.grades[i])
		}
		for _, name := range t.names {
			v := t.cols[name][i]
			if math.IsNaN(v) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrapf(err, "dataset: write csv row %d", i)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

// SaveCSV writes the table to a file, creating or truncating it.
func SaveCSV(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "dataset: create %s", path)
	}
	if err := WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return errors.WithStack(f.Close())
}

func parseColumn(rows [][]string, j int) ([]float64, bool) {
	col := make([]float64, len(rows))
	for i, row := range rows {
		c := cell(row, j)
		if c == "" {
			col[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			return nil, false
		}
		col[i] = v
	}
	return col, true
}

func cell(row []string, j int) string {
	if j >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[j])
}

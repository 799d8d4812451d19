package dataset

import (
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// Sheet is the worksheet WriteXLSX fills. ReadXLSX reads the first sheet
// whatever its name.
const Sheet = "Sheet1"

// ReadXLSX parses the first worksheet of a workbook with the same rules as
// ReadCSV.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "dataset: open xlsx")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewModelError("dataset.ReadXLSX", "workbook has no sheets", errors.ErrEmptyData)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: read sheet %s", sheets[0])
	}
	return fromRecords("dataset.ReadXLSX", rows)
}

// LoadXLSX reads a measurement table from a workbook file.
func LoadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewModelError("dataset.LoadXLSX", "workbook has no sheets", errors.ErrEmptyData)
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: read sheet %s", sheets[0])
	}
	return fromRecords("dataset.LoadXLSX", rows)
}

// WriteXLSX writes the table to Sheet with steel_grade first. Numbers are
// stored as numeric cells and NaN is left empty.
func WriteXLSX(w io.Writer, t *Table) error {
	f, err := workbook(t)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrap(f.Write(w), "dataset: write xlsx")
}

// SaveXLSX writes the table to a workbook file.
func SaveXLSX(path string, t *Table) error {
	f, err := workbook(t)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrapf(f.SaveAs(path), "dataset: save %s", path)
}

func workbook(t *Table) (*excelize.File, error) {
	f := excelize.NewFile()

	for j, h := range t.Columns() {
		name, _ := excelize.CoordinatesToCellName(j+1, 1)
		if err := f.SetCellValue(Sheet, name, h); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "dataset: write xlsx header")
		}
	}

	for i := 0; i < t.n; i++ {
		j := 1
		if t.grades != nil {
			name, _ := excelize.CoordinatesToCellName(j, i+2)
			if err := f.SetCellValue(Sheet, name, t.grades[i]); err != nil {
				f.Close()
				return nil, errors.Wrapf(err, "dataset: write xlsx row %d", i)
			}
			j++
		}
		for _, col := range t.names {
			v := t.cols[col][i]
			if !math.IsNaN(v) {
				name, _ := excelize.CoordinatesToCellName(j, i+2)
				if err := f.SetCellValue(Sheet, name, v); err != nil {
					f.Close()
					return nil, errors.Wrapf(err, "dataset: write xlsx row %d", i)
				}
			}
			j++
		}
	}
	return f, nil
}

// Load reads a .xlsx workbook or a CSV file depending on the extension.
func Load(path string) (*Table, error) {
	if isXLSX(path) {
		return LoadXLSX(path)
	}
	return LoadCSV(path)
}

// Save writes a .xlsx workbook or a CSV file depending on the extension.
func Save(path string, t *Table) error {
	if isXLSX(path) {
		return SaveXLSX(path, t)
	}
	return SaveCSV(path, t)
}

func isXLSX(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xlsx")
}

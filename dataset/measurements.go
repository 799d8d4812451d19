package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/pkg/log"
	"github.com/RudolfRTC/AI-Research/units"
)

// Raw measurement columns.
const (
	ColSpecimenID = "specimen_id"
	ColMethod     = "measurement_method"
	ColValue      = "value"
	ColUnit       = "unit"
	ColTempC      = "temp_C"
	ColTool       = "tool"
	ColSpeed      = "v_m_min"
	ColFeed       = "f_mm_rev"
	ColDepth      = "d_mm"
	ColMetric     = "metric"
)

// Conductivity units accepted by ConductivityMeasurement.MSPerM.
const (
	UnitMSPerM      = "MS/m"
	UnitIACS        = "%IACS"
	UnitResistivity = "uOhm.cm"
)

var (
	conductivityColumns = []string{ColSpecimenID, ColMethod, ColValue, ColUnit, ColTempC}
	machiningColumns    = []string{ColSpecimenID, ColTool, ColSpeed, ColFeed, ColDepth, ColMetric, ColValue}
)

var recordValidator *validator.Validate

func init() {
	recordValidator = validator.New()
	recordValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("csv")
	})
}

// ConductivityMeasurement is one row of a conductivity measurement log.
type ConductivityMeasurement struct {
	SpecimenID string  `csv:"specimen_id" validate:"required"`
	Method     string  `csv:"measurement_method" validate:"required"`
	Value      float64 `csv:"value" validate:"gt=0"`
	Unit       string  `csv:"unit" validate:"required"`
	TempC      float64 `csv:"temp_C"`
}

// MSPerM returns the measurement as a conductivity in MS/m.
func (m ConductivityMeasurement) MSPerM() (float64, error) {
	switch normalizeUnit(m.Unit) {
	case "ms/m":
		return m.Value, nil
	case "%iacs", "iacs%", "iacs":
		return units.IACSToMSPerM(m.Value), nil
	case "uohm.cm", "uohmcm", "µω.cm", "μω.cm", "µohm.cm":
		return units.ResistivityToConductivity(m.Value), nil
	}
	return 0, errors.NewValidationError(ColUnit, "unsupported conductivity unit", m.Unit)
}

// MachiningTest is one metric observed in a machining trial.
type MachiningTest struct {
	SpecimenID   string  `csv:"specimen_id" validate:"required"`
	Tool         string  `csv:"tool" validate:"required"`
	CuttingSpeed float64 `csv:"v_m_min" validate:"gt=0"`
	Feed         float64 `csv:"f_mm_rev" validate:"gt=0"`
	Depth        float64 `csv:"d_mm" validate:"gt=0"`
	Metric       string  `csv:"metric" validate:"required"`
	Value        float64 `csv:"value"`
}

// ReadConductivity parses a conductivity log with the columns specimen_id,
// measurement_method, value, unit and temp_C. Extra columns are ignored.
func ReadConductivity(r io.Reader) ([]ConductivityMeasurement, error) {
	rows, err := readRaw(r, "dataset.ReadConductivity", conductivityColumns)
	if err != nil {
		return nil, err
	}
	out := make([]ConductivityMeasurement, 0, len(rows))
	for i, row := range rows {
		m := ConductivityMeasurement{
			SpecimenID: row.text(ColSpecimenID),
			Method:     row.text(ColMethod),
			Unit:       row.text(ColUnit),
		}
		if m.Value, err = row.float(ColValue); err == nil {
			m.TempC, err = row.float(ColTempC)
		}
		if err == nil {
			err = checkRecord(m)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "conductivity row %d", i+2)
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadConductivity reads a conductivity log from a CSV file.
func LoadConductivity(path string) ([]ConductivityMeasurement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()
	return ReadConductivity(f)
}

// ReadMachining parses machining trials with the columns specimen_id, tool,
// v_m_min, f_mm_rev, d_mm, metric and value. Extra columns are ignored.
func ReadMachining(r io.Reader) ([]MachiningTest, error) {
	rows, err := readRaw(r, "dataset.ReadMachining", machiningColumns)
	if err != nil {
		return nil, err
	}
	out := make([]MachiningTest, 0, len(rows))
	for i, row := range rows {
		m := MachiningTest{
			SpecimenID: row.text(ColSpecimenID),
			Tool:       row.text(ColTool),
			Metric:     row.text(ColMetric),
		}
		for _, f := range []struct {
			col string
			dst *float64
		}{
			{ColSpeed, &m.CuttingSpeed},
			{ColFeed, &m.Feed},
			{ColDepth, &m.Depth},
			{ColValue, &m.Value},
		} {
			if *f.dst, err = row.float(f.col); err != nil {
				break
			}
		}
		if err == nil {
			err = checkRecord(m)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "machining row %d", i+2)
		}
		out = append(out, m)
	}
	return out, nil
}

// LoadMachining reads machining trials from a CSV file.
func LoadMachining(path string) ([]MachiningTest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()
	return ReadMachining(f)
}

// Merge inner-joins conductivity measurements with machining trials on the
// specimen id. Each specimen present in both inputs becomes one row: the
// conductivity column holds the mean of its measurements in MS/m and every
// machining metric becomes a column holding the mean of its values. Known
// targets come first, other metrics follow in name order. ids lists the
// specimen of every row, in order of first conductivity measurement.
//
// The result has no hardness or steel_grade column. training.Train always
// fits the hardness-only baseline, so hardness must be joined in before the
// merged table can be trained on.
func Merge(cond []ConductivityMeasurement, mach []MachiningTest) (t *Table, ids []string, err error) {
	type acc struct{ sum, n float64 }

	condBy := make(map[string]*acc)
	for _, m := range cond {
		v, err := m.MSPerM()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "specimen %s", m.SpecimenID)
		}
		a, ok := condBy[m.SpecimenID]
		if !ok {
			a = &acc{}
			condBy[m.SpecimenID] = a
			ids = append(ids, m.SpecimenID)
		}
		a.sum += v
		a.n++
	}

	machBy := make(map[string]map[string]*acc)
	metricSet := make(map[string]bool)
	for _, m := range mach {
		if _, ok := condBy[m.SpecimenID]; !ok {
			continue
		}
		byMetric, ok := machBy[m.SpecimenID]
		if !ok {
			byMetric = make(map[string]*acc)
			machBy[m.SpecimenID] = byMetric
		}
		a, ok := byMetric[m.Metric]
		if !ok {
			a = &acc{}
			byMetric[m.Metric] = a
		}
		a.sum += m.Value
		a.n++
		metricSet[m.Metric] = true
	}

	joined := ids[:0:0]
	for _, id := range ids {
		if _, ok := machBy[id]; ok {
			joined = append(joined, id)
		}
	}
	if dropped := len(ids) - len(joined); dropped > 0 {
		log.GetLoggerWithName("dataset").Debug("Dropped specimens without machining data", "count", dropped)
	}

	metrics := orderMetrics(metricSet)
	names := append([]string{ColConductivity}, metrics...)
	columns := make([][]float64, len(names))
	for j := range columns {
		columns[j] = make([]float64, len(joined))
	}
	for i, id := range joined {
		a := condBy[id]
		columns[0][i] = a.sum / a.n
		for j, metric := range metrics {
			if m, ok := machBy[id][metric]; ok {
				columns[j+1][i] = m.sum / m.n
			} else {
				columns[j+1][i] = math.NaN()
			}
		}
	}

	t, err = NewTable(names, columns, nil)
	if err != nil {
		return nil, nil, err
	}
	return t, joined, nil
}

func orderMetrics(set map[string]bool) []string {
	var out, rest []string
	for _, name := range TargetColumns {
		if set[name] {
			out = append(out, name)
		}
	}
	for name := range set {
		if !IsTarget(name) && name != ColConductivity {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

type rawRow struct {
	index map[string]int
	cells []string
}

func (r rawRow) text(col string) string { return cell(r.cells, r.index[col]) }

func (r rawRow) float(col string) (float64, error) {
	c := r.text(col)
	v, err := strconv.ParseFloat(c, 64)
	if err != nil {
		return 0, errors.NewValidationError(col, "not a number", c)
	}
	return v, nil
}

// readRaw reads a CSV with a header and checks that every required column
// is present.
func readRaw(r io.Reader, op string, required []string) ([]rawRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "%s: read csv", op)
	}
	if len(records) == 0 {
		return nil, errors.NewModelError(op, "missing header row", errors.ErrEmptyData)
	}

	index := make(map[string]int, len(records[0]))
	for j, name := range records[0] {
		index[strings.TrimSpace(name)] = j
	}
	var missing []string
	for _, name := range required {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError("columns", "missing columns", missing)
	}

	rows := make([]rawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, rawRow{index: index, cells: rec})
	}
	return rows, nil
}

func checkRecord(v any) error {
	err := recordValidator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return errors.NewValidationError(fe.Field(), "failed "+fe.Tag()+" rule", fe.Value())
	}
	return errors.WithStack(err)
}

func normalizeUnit(u string) string {
	u = strings.ToLower(strings.TrimSpace(u))
	return strings.NewReplacer(" ", "", "·", ".", "-", ".").Replace(u)
}

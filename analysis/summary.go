package analysis

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// GroupSummary describes one numeric column inside one steel grade. Std is
// the sample standard deviation and is NaN for a single observation.
type GroupSummary struct {
	Grade  string  `json:"grade" yaml:"grade"`
	Column string  `json:"column" yaml:"column"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	Max    float64 `json:"max" yaml:"max"`
	Count  int     `json:"count" yaml:"count"`
}

// Summarize returns per-grade descriptive statistics for the given columns,
// or every numeric column when none are given. Rows are ordered by grade then
// column; grade/column pairs without any non-NaN value are omitted.
func Summarize(t *dataset.Table, columns ...string) ([]GroupSummary, error) {
	grades := t.Grades()
	if grades == nil {
		return nil, errors.NewValidationError("columns", "missing columns", []string{dataset.ColSteelGrade})
	}
	if len(columns) == 0 {
		columns = t.NumericColumns()
	}

	data := make(map[string][]float64, len(columns))
	for _, name := range columns {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		data[name] = col
	}

	var out []GroupSummary
	for _, g := range uniqueSorted(grades) {
		for _, name := range columns {
			var values stats.Float64Data
			for i, v := range data[name] {
				if grades[i] == g && !math.IsNaN(v) {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				continue
			}
			s, err := describe(values)
			if err != nil {
				return nil, errors.Wrapf(err, "summarize %s/%s", g, name)
			}
			s.Grade, s.Column = g, name
			out = append(out, s)
		}
	}
	return out, nil
}

func describe(values stats.Float64Data) (GroupSummary, error) {
	s := GroupSummary{Count: values.Len(), Std: math.NaN()}
	var err error
	if s.Mean, err = values.Mean(); err != nil {
		return s, err
	}
	if s.Min, err = values.Min(); err != nil {
		return s, err
	}
	if s.Max, err = values.Max(); err != nil {
		return s, err
	}
	if values.Len() > 1 {
		if s.Std, err = values.StandardDeviationSample(); err != nil {
			return s, err
		}
	}
	return s, nil
}

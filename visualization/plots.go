// Package visualization renders training results and correlation analyses
// with gonum/plot.
package visualization

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/RudolfRTC/AI-Research/dataset"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
	"github.com/RudolfRTC/AI-Research/training"
)

// Default output size.
const (
	Width  = 6 * vg.Inch
	Height = 4.5 * vg.Inch
)

// Save writes p to path. The format follows the extension (.png, .svg, .pdf, ...).
func Save(p *plot.Plot, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf", ".eps", ".jpg", ".jpeg", ".tif", ".tiff":
	default:
		return errors.NewValidationError("path", "unsupported image format", path)
	}
	if err := p.Save(Width, Height, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}

// ActualVsPredicted scatters test-set predictions against the truth with the
// y = x reference line.
func ActualVsPredicted(actual, predicted []float64, title string) (*plot.Plot, error) {
	if err := checkPair("ActualVsPredicted", actual, predicted); err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Actual"
	p.Y.Label.Text = "Predicted"

	s, err := plotter.NewScatter(pairs(actual, predicted))
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = plotutil.Color(0)

	lo, hi := bounds(actual, predicted)
	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return nil, err
	}
	ref.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	ref.LineStyle.Color = plotutil.Color(1)

	p.Add(s, ref)
	p.Legend.Add("test samples", s)
	p.Legend.Add("ideal", ref)
	p.Legend.Top = true
	return p, nil
}

// Residuals plots actual − predicted against the prediction with a zero line.
func Residuals(actual, predicted []float64, title string) (*plot.Plot, error) {
	if err := checkPair("Residuals", actual, predicted); err != nil {
		return nil, err
	}
	res := make([]float64, len(actual))
	for i := range actual {
		res[i] = actual[i] - predicted[i]
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Predicted"
	p.Y.Label.Text = "Residual"

	s, err := plotter.NewScatter(pairs(predicted, res))
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = plotutil.Color(0)
	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}

	p.Add(s, zero, plotter.NewGrid())
	return p, nil
}

// FeatureImportance draws ranked importances as horizontal bars, the most
// important feature on top.
func FeatureImportance(ranked []training.FeatureImportance, title string) (*plot.Plot, error) {
	if len(ranked) == 0 {
		return nil, errors.NewModelError("FeatureImportance", "empty data", errors.ErrEmptyData)
	}
	n := len(ranked)
	values := make(plotter.Values, n)
	names := make([]string, n)
	for i, fi := range ranked {
		values[n-1-i] = fi.Importance
		names[n-1-i] = fi.Feature
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Importance"

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = true
	bars.Color = plotutil.Color(2)
	p.Add(bars)
	p.NominalY(names...)
	return p, nil
}

// CVScores draws the fold R² values as a box plot with the mean in the title.
func CVScores(scores []float64, title string) (*plot.Plot, error) {
	if len(scores) == 0 {
		return nil, errors.NewModelError("CVScores", "empty data", errors.ErrEmptyData)
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (mean R² = %.4f)", title, stat.Mean(scores, nil))
	p.Y.Label.Text = "R²"

	box, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(scores))
	if err != nil {
		return nil, err
	}
	folds, err := plotter.NewScatter(foldPoints(scores))
	if err != nil {
		return nil, err
	}
	folds.GlyphStyle.Color = plotutil.Color(1)
	p.Add(box, folds)
	p.NominalX("folds")
	return p, nil
}

// ScatterWithRegression scatters y against x with the least-squares line;
// the title carries R². Pairs with a NaN are skipped.
func ScatterWithRegression(x, y []float64, xLabel, yLabel string) (*plot.Plot, error) {
	if err := checkPair("ScatterWithRegression", x, y); err != nil {
		return nil, err
	}
	var xs, ys []float64
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return nil, errors.NewInsufficientSampleError("ScatterWithRegression", len(xs), 2)
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	r2 := stat.RSquared(xs, ys, nil, alpha, beta)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s (R² = %.3f)", yLabel, xLabel, r2)
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	s, err := plotter.NewScatter(pairs(xs, ys))
	if err != nil {
		return nil, err
	}
	s.GlyphStyle.Color = plotutil.Color(0)
	lo, hi := bounds(xs, xs)
	fit, err := plotter.NewLine(plotter.XYs{{X: lo, Y: alpha + beta*lo}, {X: hi, Y: alpha + beta*hi}})
	if err != nil {
		return nil, err
	}
	fit.LineStyle.Color = plotutil.Color(1)
	fit.LineStyle.Width = vg.Points(1.5)

	p.Add(s, fit)
	p.Legend.Add("samples", s)
	p.Legend.Add(fmt.Sprintf("y = %.3g + %.3g·x", alpha, beta), fit)
	p.Legend.Top = true
	return p, nil
}

// GradeComparison scatters y against x with one colour and glyph per steel
// grade, in the order the grades first appear. Rows with a NaN are skipped.
func GradeComparison(t *dataset.Table, x, y string) (*plot.Plot, error) {
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

	var order []string
	byGrade := make(map[string]plotter.XYs)
	for i, g := range grades {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		order = appendUnique(order, g)
		byGrade[g] = append(byGrade[g], plotter.XY{X: xs[i], Y: ys[i]})
	}
	if len(order) == 0 {
		return nil, errors.NewModelError("GradeComparison", "empty data", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s by steel grade", y, x)
	p.X.Label.Text = x
	p.Y.Label.Text = y
	for i, g := range order {
		s, err := plotter.NewScatter(byGrade[g])
		if err != nil {
			return nil, err
		}
		s.GlyphStyle.Color = plotutil.Color(i)
		s.GlyphStyle.Shape = plotutil.Shape(i)
		p.Add(s)
		p.Legend.Add(g, s)
	}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true
	return p, nil
}

// ModelComparison draws grouped R² bars: one group per model, one bar per
// target, from a history snapshot.
func ModelComparison(results []training.Result) (*plot.Plot, error) {
	if len(results) == 0 {
		return nil, errors.NewModelError("ModelComparison", "empty data", errors.ErrEmptyData)
	}

	var modelNames, targets []string
	best := make(map[[2]string]float64)
	for _, r := range results {
		m := r.Model.String()
		modelNames = appendUnique(modelNames, m)
		targets = appendUnique(targets, r.Target)
		k := [2]string{m, r.Target}
		if v, ok := best[k]; !ok || r.R2 > v {
			best[k] = r.R2
		}
	}

	p := plot.New()
	p.Title.Text = "Model Comparison (R²)"
	p.Y.Label.Text = "R²"

	width := vg.Points(12)
	for ti, target := range targets {
		values := make(plotter.Values, len(modelNames))
		for mi, m := range modelNames {
			values[mi] = best[[2]string{m, target}]
		}
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(ti)
		bars.Offset = width * vg.Length(ti-len(targets)/2)
		p.Add(bars)
		p.Legend.Add(target, bars)
	}
	p.Legend.Top = true
	p.NominalX(modelNames...)
	return p, nil
}

func checkPair(op string, a, b []float64) error {
	if len(a) != len(b) {
		return errors.NewDimensionError(op, len(a), len(b), 0)
	}
	if len(a) == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	return nil
}

func pairs(x, y []float64) plotter.XYs {
	xys := make(plotter.XYs, len(x))
	for i := range x {
		xys[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return xys
}

func foldPoints(scores []float64) plotter.XYs {
	xys := make(plotter.XYs, len(scores))
	for i, s := range scores {
		xys[i] = plotter.XY{X: 0, Y: s}
	}
	return xys
}

func bounds(a, b []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range [][]float64{a, b} {
		for _, v := range s {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

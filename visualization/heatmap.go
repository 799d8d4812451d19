package visualization

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"github.com/RudolfRTC/AI-Research/analysis"
	"github.com/RudolfRTC/AI-Research/pkg/errors"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct{ m *analysis.Matrix }

func (g corrGrid) Dims() (c, r int) {
	n := len(g.m.Columns)
	return n, n
}

func (g corrGrid) Z(c, r int) float64 { return g.m.Values.At(r, c) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// CorrelationHeatmap draws m on a diverging blue/red scale fixed to [-1, 1]
// with the coefficient printed in each cell. NaN cells are grey.
func CorrelationHeatmap(m *analysis.Matrix, title string) (*plot.Plot, error) {
	if m == nil || len(m.Columns) == 0 {
		return nil, errors.NewModelError("CorrelationHeatmap", "empty data", errors.ErrEmptyData)
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	heat := plotter.NewHeatMap(corrGrid{m}, cmap.Palette(64))
	heat.Min, heat.Max = -1, 1
	heat.NaN = color.Gray{Y: 200}

	n := len(m.Columns)
	labels := plotter.XYLabels{
		XYs:    make(plotter.XYs, 0, n*n),
		Labels: make([]string, 0, n*n),
	}
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m.Values.At(r, c)
			text := fmt.Sprintf("%.2f", v)
			if math.IsNaN(v) {
				text = "n/a"
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, text)
		}
	}
	cells, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, err
	}
	for i := range cells.TextStyle {
		cells.TextStyle[i].XAlign = draw.XCenter
		cells.TextStyle[i].YAlign = draw.YCenter
	}

	p := plot.New()
	p.Title.Text = title
	p.Add(heat, cells)
	p.NominalX(m.Columns...)
	p.NominalY(m.Columns...)
	return p, nil
}

package tui

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/linechart"

	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/frame"
)

// BarPanel renders bar charts over a categorical x-axis with block
// runes. Bar positions come from the chart's band scale; numeric x
// labels are suppressed and replaced with the category keys.
type BarPanel struct {
	linechart.Model

	chart *chart.Chart[frame.Row]
	dirty bool
}

func NewBarPanel(width, height int) *BarPanel {
	p := &BarPanel{
		Model: linechart.New(width, height, 0, 1, 0, 1,
			linechart.WithXYSteps(1, 5),
			linechart.WithYLabelFormatter(formatYLabel),
			linechart.WithXLabelFormatter(func(int, float64) string { return "" }),
		),
	}

	p.AxisStyle = axisStyle
	p.LabelStyle = labelStyle

	return p
}

// SetChart replaces the rendered chart and re-derives the y-axis range
// from its scale.
func (p *BarPanel) SetChart(c *chart.Chart[frame.Row]) {
	p.chart = c

	ext := c.YScale().Extent
	ymin, ymax := ext.Min, ext.Max
	if ymax <= ymin {
		pad := math.Abs(ymax) * 0.1
		if pad == 0 {
			pad = 1
		}
		ymin, ymax = ymin-pad, ymax+pad
	}

	w := c.Geometry().Width
	if w <= 0 {
		w = 1
	}
	p.SetXRange(0, w)
	p.SetViewXRange(0, w)
	p.SetYRange(ymin, ymax)
	p.SetViewYRange(ymin, ymax)

	p.dirty = true
}

// Draw renders the bars and the category labels.
func (p *BarPanel) Draw() {
	p.Clear()
	p.DrawXYAxisAndLabel()
	defer func() { p.dirty = false }()

	if p.chart == nil {
		return
	}
	band, ok := p.chart.XScale().(chart.BandScale)
	if !ok {
		return
	}

	w := p.GraphWidth()
	h := p.GraphHeight()
	geom := p.chart.Geometry()
	if w <= 0 || h <= 0 || geom.Width <= 0 || geom.Height <= 0 {
		return
	}

	startX := 0
	if p.YStep() > 0 {
		startX = p.Origin().X + 1
	}

	cfg := p.chart.Config()
	for i := range cfg.Series {
		style := seriesStyle(cfg.Series[i].Color, i)
		for _, r := range p.chart.SeriesRects(i) {
			c0 := int(r.X / geom.Width * float64(w))
			c1 := int((r.X + r.Width) / geom.Width * float64(w))
			if c1 > c0 {
				c1--
			}
			c0 = clampInt(c0, 0, w-1)
			c1 = clampInt(c1, 0, w-1)

			bottomPx := r.Y + r.Height
			bottomRow := int(math.Ceil(bottomPx/geom.Height*float64(h))) - 1
			bottomRow = clampInt(bottomRow, 0, h-1)

			v := r.Height / geom.Height * float64(h)
			for col := c0; col <= c1; col++ {
				graph.DrawColumnBottomToTop(&p.Canvas,
					canvas.Point{X: startX + col, Y: bottomRow},
					v,
					style)
			}
		}
	}

	p.drawCategoryLabels(band, startX, w)
}

// drawCategoryLabels writes one key per band, centered under it, into
// the label row below the x-axis.
func (p *BarPanel) drawCategoryLabels(band chart.BandScale, startX, w int) {
	keys := band.Keys()
	if len(keys) == 0 {
		return
	}
	geom := p.chart.Geometry()
	labelRow := p.Origin().Y + 1

	bandCells := w / len(keys)
	if bandCells < 1 {
		bandCells = 1
	}

	for _, key := range keys {
		centerPx := band.Convert(key) + band.Bandwidth()/2
		center := int(centerPx / geom.Width * float64(w))

		label := truncateLabel(key, bandCells)
		col := startX + center - len([]rune(label))/2
		if col < startX {
			col = startX
		}

		p.Canvas.SetStringWithStyle(canvas.Point{X: col, Y: labelRow}, label, p.LabelStyle)
	}
}

// truncateLabel shortens a label to at most width cells, marking the cut
// with an ellipsis.
func truncateLabel(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

func clampInt(v, minimum, maximum int) int {
	if v < minimum {
		return minimum
	}
	if v > maximum {
		return maximum
	}
	return v
}

// DrawIfNeeded only draws if the chart is marked as dirty
func (p *BarPanel) DrawIfNeeded() {
	if p.dirty {
		p.Draw()
	}
}

// Resize updates the chart dimensions
func (p *BarPanel) Resize(width, height int) {
	if p.Width() != width || p.Height() != height {
		p.Model.Resize(width, height)
		p.dirty = true
	}
}

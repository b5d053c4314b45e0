package tui

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/canvas/graph"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/frame"
)

// ChartPanel renders line charts with value or time x-axes using Braille
// patterns. The x-axis can be zoomed with the mouse wheel; moving the
// pointer over the graph shows a vertical guide with interpolated series
// values.
type ChartPanel struct {
	linechart.Model

	chart *chart.Chart[frame.Row]

	// xData holds data-space x per row; time axes use epoch milliseconds.
	// yData is per series, aligned with xData. NaN marks a gap.
	xData  []float64
	yData  [][]float64
	styles []lipgloss.Style
	isTime bool

	// Track the observed data X range to clamp zoom to real data.
	xMinData float64
	xMaxData float64

	dirty        bool
	isZoomed     bool    // Track if user has zoomed
	userViewMinX float64 // Preserve user's zoom settings
	userViewMaxX float64

	cursorVisible bool
	cursorCell    int // graph-local column of the guide line
	overlay       chart.Overlay
	hasOverlay    bool
}

func NewChartPanel(width, height int) *ChartPanel {
	p := &ChartPanel{
		Model: linechart.New(width, height, 0, 1, 0, 1,
			linechart.WithXYSteps(4, 5),
			linechart.WithYLabelFormatter(formatYLabel),
		),
		cursorVisible: true,
		xMinData:      math.Inf(1),
		xMaxData:      math.Inf(-1),
	}

	p.AxisStyle = axisStyle
	p.LabelStyle = labelStyle
	p.XLabelFormatter = p.formatXLabel

	return p
}

// SetChart replaces the rendered chart, re-deriving axis ranges from its
// scales. An existing zoom window is preserved and clamped into the new
// domain.
func (p *ChartPanel) SetChart(c *chart.Chart[frame.Row]) {
	p.chart = c
	p.hasOverlay = false

	cfg := c.Config()
	n := cfg.Frame.Len()

	p.xData = p.xData[:0]
	p.isTime = false
	switch acc := cfg.X.(type) {
	case chart.ValueAccessor[frame.Row]:
		for j := range n {
			p.xData = append(p.xData, acc(cfg.Frame.At(j)))
		}
	case chart.TimeAccessor[frame.Row]:
		p.isTime = true
		for j := range n {
			p.xData = append(p.xData, float64(acc(cfg.Frame.At(j)).UnixMilli()))
		}
	case chart.BandAccessor[frame.Row]:
		// Banded axes are rendered by BarPanel.
	}

	p.xMinData = math.Inf(1)
	p.xMaxData = math.Inf(-1)
	for _, x := range p.xData {
		if !isFinite(x) {
			continue
		}
		p.xMinData = math.Min(p.xMinData, x)
		p.xMaxData = math.Max(p.xMaxData, x)
	}

	p.yData = p.yData[:0]
	p.styles = p.styles[:0]
	for i, s := range cfg.Series {
		ys := make([]float64, 0, n)
		for j := range n {
			ys = append(ys, s.Y(cfg.Frame.At(j)))
		}
		p.yData = append(p.yData, ys)
		p.styles = append(p.styles, seriesStyle(s.Color, i))
	}

	p.updateRanges()
	p.dirty = true
}

// updateRanges projects the chart's scale extents onto the axis ranges.
func (p *ChartPanel) updateRanges() {
	if p.chart == nil {
		return
	}

	var xmin, xmax float64
	switch s := p.chart.XScale().(type) {
	case chart.ValueScale:
		xmin, xmax = s.Extent.Min, s.Extent.Max
	case chart.TimeScale:
		xmin = float64(s.Extent.Min.UnixMilli())
		xmax = float64(s.Extent.Max.UnixMilli())
	case chart.BandScale:
		return
	}
	if xmax <= xmin {
		// Single x value: widen so the axis still has a direction.
		xmin, xmax = xmin-0.5, xmax+0.5
	}

	ext := p.chart.YScale().Extent
	ymin, ymax := ext.Min, ext.Max
	if ymax <= ymin {
		pad := math.Abs(ymax) * 0.1
		if pad == 0 {
			pad = 1
		}
		ymin, ymax = ymin-pad, ymax+pad
	}

	p.SetXRange(xmin, xmax)
	p.SetYRange(ymin, ymax)
	p.SetViewYRange(ymin, ymax)

	if p.isZoomed {
		vmin := math.Max(p.userViewMinX, xmin)
		vmax := math.Min(p.userViewMaxX, xmax)
		if vmax <= vmin {
			p.isZoomed = false
			vmin, vmax = xmin, xmax
		}
		p.SetViewXRange(vmin, vmax)
	} else {
		p.SetViewXRange(xmin, xmax)
	}
}

// HandleZoom processes zoom events with mouse position
func (p *ChartPanel) HandleZoom(direction string, mouseX int) {
	const zoomFactor = 0.1

	viewMin := p.ViewMinX()
	viewMax := p.ViewMaxX()
	viewRange := viewMax - viewMin
	if viewRange <= 0 || p.GraphWidth() <= 0 {
		return
	}

	minRange := (p.MaxX() - p.MinX()) / 100
	if minRange <= 0 {
		return
	}

	// Calculate the x position under the mouse
	mouseProportion := float64(mouseX) / float64(p.GraphWidth())
	xUnderMouse := viewMin + mouseProportion*viewRange

	// Calculate new range
	var newRange float64
	if direction == "in" {
		newRange = viewRange * (1 - zoomFactor)
	} else {
		newRange = viewRange * (1 + zoomFactor)
	}

	// Clamp zoom levels
	if newRange < minRange {
		newRange = minRange
	}
	// Don't allow ranges larger than the domain
	if newRange > p.MaxX()-p.MinX() {
		newRange = p.MaxX() - p.MinX()
	}

	// Calculate new bounds keeping mouse position stable
	newMin := xUnderMouse - newRange*mouseProportion
	newMax := xUnderMouse + newRange*(1-mouseProportion)

	// Only apply tail nudge when zooming in AND mouse is at the far right
	if direction == "in" && mouseProportion >= 0.95 && isFinite(p.xMaxData) {
		// Check if we're losing the tail
		rightPad := p.pixelEpsX(newRange) * 2
		if newMax < p.xMaxData-rightPad {
			// Adjust to include the tail
			shift := (p.xMaxData + rightPad) - newMax
			newMin += shift
			newMax += shift
		}
	}

	// Final clamp to domain [MinX .. MaxX]
	domMin, domMax := p.MinX(), p.MaxX()
	if newMin < domMin {
		newMin = domMin
		newMax = newMin + newRange
		if newMax > domMax {
			newMax = domMax
		}
	}
	if newMax > domMax {
		newMax = domMax
		newMin = newMax - newRange
		if newMin < domMin {
			newMin = domMin
		}
	}

	p.SetViewXRange(newMin, newMax)
	p.userViewMinX = newMin
	p.userViewMaxX = newMax
	p.isZoomed = true
	p.dirty = true
}

// ResetZoom restores the view to the full x domain.
func (p *ChartPanel) ResetZoom() {
	if !p.isZoomed {
		return
	}
	p.isZoomed = false
	p.SetViewXRange(p.MinX(), p.MaxX())
	p.dirty = true
}

// IsZoomed reports whether a zoom window is active.
func (p *ChartPanel) IsZoomed() bool {
	return p.isZoomed
}

// pixelEpsX returns ~1 horizontal pixel in X units for the current graph.
func (p *ChartPanel) pixelEpsX(xRange float64) float64 {
	if p.GraphWidth() <= 0 || xRange <= 0 {
		return 0
	}
	return xRange / float64(p.GraphWidth())
}

// PointerMoved updates the cursor overlay for a pointer at the given
// graph-local cell position.
func (p *ChartPanel) PointerMoved(x, y int) {
	if !p.cursorVisible || p.chart == nil || p.chart.Config().Cursor == nil {
		p.PointerLeft()
		return
	}
	if x < 0 || x >= p.GraphWidth() || y < 0 || y >= p.GraphHeight() {
		p.PointerLeft()
		return
	}

	box, ok := p.overlayBox()
	if !ok {
		p.PointerLeft()
		return
	}

	overlay, ok := p.chart.OverlayAt(chart.Point{X: float64(x), Y: float64(y)}, box)
	if !ok {
		p.PointerLeft()
		return
	}

	p.overlay = overlay
	p.hasOverlay = true
	p.cursorCell = x
	p.dirty = true
}

// PointerLeft clears the cursor overlay.
func (p *ChartPanel) PointerLeft() {
	if !p.hasOverlay {
		return
	}
	p.hasOverlay = false
	p.dirty = true
}

// Overlay returns the active cursor overlay, if any.
func (p *ChartPanel) Overlay() (chart.Overlay, bool) {
	return p.overlay, p.hasOverlay
}

// SetCursorVisible toggles the pointer readout.
func (p *ChartPanel) SetCursorVisible(visible bool) {
	p.cursorVisible = visible
	if !visible {
		p.PointerLeft()
	}
}

// overlayBox derives the bounding box that maps graph-local cell
// coordinates onto the chart's nominal pixel space. The terminal cell
// grid is treated as a scaled rendering of the chart: cell column u sits
// at plot pixel a+u*slope, which the box communicates to OverlayAt.
func (p *ChartPanel) overlayBox() (chart.BoundingBox, bool) {
	w := p.GraphWidth()
	if w <= 0 {
		return chart.BoundingBox{}, false
	}

	a := p.pixelAtCell(0)
	b := p.pixelAtCell(float64(w))
	if !isFinite(a) || !isFinite(b) || b <= a {
		return chart.BoundingBox{}, false
	}
	slope := (b - a) / float64(w)

	cfg := p.chart.Config()
	return chart.BoundingBox{
		X:      -(chart.PaddingX + a) / slope,
		Y:      0,
		Width:  cfg.Width / slope,
		Height: cfg.Height,
	}, true
}

// pixelAtCell maps a graph-local cell column to the plot-local pixel
// position of the data value shown there.
func (p *ChartPanel) pixelAtCell(u float64) float64 {
	w := float64(p.GraphWidth())
	if w <= 0 {
		return math.NaN()
	}
	dataX := p.ViewMinX() + u/w*(p.ViewMaxX()-p.ViewMinX())

	switch s := p.chart.XScale().(type) {
	case chart.ValueScale:
		return s.Convert(dataX)
	case chart.TimeScale:
		return s.Convert(time.UnixMilli(int64(math.Round(dataX))).UTC())
	case chart.BandScale:
		return math.NaN()
	}
	return math.NaN()
}

// Draw renders the chart using Braille patterns, one grid per series.
func (p *ChartPanel) Draw() {
	p.Clear()
	p.DrawXYAxisAndLabel()
	defer func() { p.dirty = false }()

	w := p.GraphWidth()
	h := p.GraphHeight()
	if len(p.xData) == 0 || w <= 0 || h <= 0 {
		return
	}

	viewRangeX := p.ViewMaxX() - p.ViewMinX()
	viewRangeY := p.ViewMaxY() - p.ViewMinY()
	if viewRangeX <= 0 || viewRangeY <= 0 {
		return
	}
	xScale := float64(w) / viewRangeX
	yScale := float64(h) / viewRangeY

	startX := 0
	if p.YStep() > 0 {
		startX = p.Origin().X + 1
	}

	points := make([]canvas.Float64Point, len(p.xData))
	valid := make([]bool, len(p.xData))

	for si := range p.yData {
		bGrid := graph.NewBrailleGrid(w, h, 0, float64(w), 0, float64(h))
		drawn := false

		for i, x := range p.xData {
			y := p.yData[si][i]
			valid[i] = isFinite(x) && isFinite(y)
			if valid[i] {
				points[i] = canvas.Float64Point{
					X: (x - p.ViewMinX()) * xScale,
					Y: (y - p.ViewMinY()) * yScale,
				}
			}
		}

		// Connect consecutive valid points in row order; gaps break the
		// line, isolated points become dots.
		for i := range points {
			if !valid[i] {
				continue
			}
			prevOK := i > 0 && valid[i-1]
			nextOK := i+1 < len(points) && valid[i+1]

			if !prevOK && !nextOK {
				pt := points[i]
				if pt.X >= 0 && pt.X <= float64(w) && pt.Y >= 0 && pt.Y <= float64(h) {
					bGrid.Set(bGrid.GridPoint(pt))
					drawn = true
				}
				continue
			}

			if nextOK {
				a, b, ok := clipSegment(points[i], points[i+1], float64(w), float64(h))
				if ok {
					drawLine(bGrid, bGrid.GridPoint(a), bGrid.GridPoint(b))
					drawn = true
				}
			}
		}

		if drawn {
			graph.DrawBraillePatterns(&p.Canvas,
				canvas.Point{X: startX, Y: 0},
				bGrid.BraillePatterns(),
				p.styles[si])
		}
	}

	p.drawCursor(startX)
}

// drawCursor draws the vertical guide line and the interpolated series
// dots on top of the rendered graph.
func (p *ChartPanel) drawCursor(startX int) {
	if !p.cursorVisible || !p.hasOverlay || p.chart == nil {
		return
	}
	cursor := p.chart.Config().Cursor
	if cursor == nil {
		return
	}

	h := p.GraphHeight()
	col := startX + p.cursorCell

	lineStyle := cursorLineStyle
	if cursor.Color != "" {
		lineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cursor.Color))
	}
	for row := range h {
		p.Canvas.SetCell(canvas.Point{X: col, Y: row}, canvas.NewCellWithStyle('│', lineStyle))
	}

	plotH := p.chart.Geometry().Height
	if plotH <= 0 || h < 1 {
		return
	}
	for _, dot := range p.overlay.Dots {
		row := int(math.Round(dot.Y / plotH * float64(h-1)))
		if row < 0 {
			row = 0
		}
		if row > h-1 {
			row = h - 1
		}

		dotStyle := p.styles[dot.Series]
		if cursor.DotColor != "" {
			dotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(cursor.DotColor))
		}
		p.Canvas.SetCell(canvas.Point{X: col, Y: row}, canvas.NewCellWithStyle('●', dotStyle))
	}
}

// DrawIfNeeded only draws if the chart is marked as dirty
func (p *ChartPanel) DrawIfNeeded() {
	if p.dirty {
		p.Draw()
	}
}

// Resize updates the chart dimensions
func (p *ChartPanel) Resize(width, height int) {
	if p.Width() != width || p.Height() != height {
		p.Model.Resize(width, height)
		p.dirty = true
	}
}

func (p *ChartPanel) formatXLabel(index int, v float64) string {
	if !p.isTime {
		return formatYLabel(index, v)
	}
	t := time.UnixMilli(int64(math.Round(v))).UTC()
	if p.ViewMaxX()-p.ViewMinX() >= float64(48*time.Hour/time.Millisecond) {
		return t.Format("02.01.06")
	}
	return t.Format("15:04")
}

// formatYLabel renders axis values compactly, shortening large and tiny
// magnitudes with k/M/m suffixes.
func formatYLabel(index int, value float64) string {
	if value == 0 {
		return "0"
	}
	abs := math.Abs(value)
	switch {
	case abs >= 1000000:
		return formatFloat(value/1000000, 1) + "M"
	case abs >= 1000:
		return formatFloat(value/1000, 1) + "k"
	case abs < 0.01:
		return formatFloat(value*1000, 1) + "m"
	case abs < 1:
		return formatFloat(value, 2)
	case abs < 10:
		return formatFloat(value, 1)
	default:
		return formatFloat(value, 0)
	}
}

func formatFloat(value float64, decimals int) string {
	formatted := strconv.FormatFloat(value, 'f', decimals, 64)

	// Only trim zeros after decimal point, not before it.
	if decimals > 0 && strings.Contains(formatted, ".") {
		formatted = strings.TrimRight(formatted, "0")
		formatted = strings.TrimRight(formatted, ".")
	}

	if formatted == "" {
		formatted = "0"
	}
	return formatted
}

// clipSegment clips a segment to the [0,w] x [0,h] box, keeping slopes
// intact for partially visible lines.
//
// See https://en.wikipedia.org/wiki/Liang%E2%80%93Barsky_algorithm.
func clipSegment(p1, p2 canvas.Float64Point, w, h float64) (canvas.Float64Point, canvas.Float64Point, bool) {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y

	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, p1.X},
		{dx, w - p1.X},
		{-dy, p1.Y},
		{dy, h - p1.Y},
	}

	for _, e := range edges {
		pe, qe := e[0], e[1]
		if pe == 0 {
			if qe < 0 {
				return p1, p2, false
			}
			continue
		}
		r := qe / pe
		if pe < 0 {
			if r > t1 {
				return p1, p2, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return p1, p2, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	a := canvas.Float64Point{X: p1.X + t0*dx, Y: p1.Y + t0*dy}
	b := canvas.Float64Point{X: p1.X + t1*dx, Y: p1.Y + t1*dy}
	return a, b, true
}

// drawLine draws a line using Bresenham's algorithm.
//
// See https://en.wikipedia.org/wiki/Bresenham%27s_line_algorithm.
func drawLine(bGrid *graph.BrailleGrid, p1, p2 canvas.Point) {
	dx := abs(p2.X - p1.X)
	dy := abs(p2.Y - p1.Y)

	sx := 1
	if p1.X > p2.X {
		sx = -1
	}

	sy := 1
	if p1.Y > p2.Y {
		sy = -1
	}

	err := dx - dy
	x, y := p1.X, p1.Y

	for {
		bGrid.Set(canvas.Point{X: x, Y: y})

		if x == p2.X && y == p2.Y {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

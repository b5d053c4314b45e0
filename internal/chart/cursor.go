package chart

import (
	"fmt"
	"math"
)

// Point is a position in pixel space.
type Point struct {
	X float64
	Y float64
}

// BoundingBox is the rendered position and size of a chart in viewport
// pixels. The rendered size can differ from the chart's nominal
// dimensions when the host environment scales its output.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// CursorState tracks the pointer for the interactive overlay. The zero
// value is the idle state. Every pointer event replaces the whole state.
type CursorState struct {
	// Pointer is the last pointer position in viewport pixels, or nil
	// while idle.
	Pointer *Point
}

// Tracking reports whether a pointer position is set.
func (s CursorState) Tracking() bool { return s.Pointer != nil }

// PointerEvent is a pointer notification from the host environment. It
// is a closed set: PointerMove and PointerLeave are the only
// implementations.
type PointerEvent interface {
	pointerEvent()
}

// PointerMove reports a new pointer position in viewport pixels.
type PointerMove Point

// PointerLeave reports that the pointer left the chart.
type PointerLeave struct{}

func (PointerMove) pointerEvent()  {}
func (PointerLeave) pointerEvent() {}

// ReduceCursor applies a pointer event to the cursor state and returns
// the next state. It is pure; rendering happens elsewhere. Moves always
// enter the tracking state, even out of bounds: whether an overlay is
// drawn is decided later by OverlayAt.
func ReduceCursor(event PointerEvent, state CursorState) CursorState {
	switch e := event.(type) {
	case PointerMove:
		p := Point(e)
		return CursorState{Pointer: &p}
	case PointerLeave:
		return CursorState{}
	}
	return state
}

// Dot is one series' interpolated cursor marker in plot-local pixels.
type Dot struct {
	Series int
	X      float64
	Y      float64
	// Value is the interpolated data-space y-value behind the dot.
	Value float64
}

// Overlay is the cursor geometry for one pointer position: a vertical
// guide line at X spanning the full plot height, a formatted x-value
// label, and one dot per series that covers the pointer position.
type Overlay struct {
	X     float64
	Label string
	Dots  []Dot
}

// OverlayAt computes the cursor overlay for a pointer position.
//
// The pointer is given in viewport pixels. The offset within box is
// scaled by the ratio of the chart's nominal dimensions to the box's
// rendered size, decoupling chart coordinates from on-screen scaling.
// The second return value is false when the overlay is empty: the
// pointer is left of the plot area, or the x-axis is categorical.
func (c *Chart[T]) OverlayAt(pointer Point, box BoundingBox) (Overlay, bool) {
	local := pointer
	if box.Width > 0 {
		local.X = (pointer.X - box.X) * c.cfg.Width / box.Width
	}
	if box.Height > 0 {
		local.Y = (pointer.Y - box.Y) * c.cfg.Height / box.Height
	}

	graphX := local.X - PaddingX
	if graphX < 0 {
		return Overlay{}, false
	}

	var label string
	switch s := c.xScale.(type) {
	case ValueScale:
		label = fmt.Sprintf("%.2f", s.Invert(graphX))
	case TimeScale:
		label = s.Invert(graphX).UTC().Format("02.01.2006 15:04")
	case BandScale:
		// No inverse mapping for categorical axes, so no cursor.
		return Overlay{}, false
	}

	overlay := Overlay{X: graphX, Label: label}
	for i := range c.cfg.Series {
		if dot, ok := c.seriesDot(i, graphX); ok {
			overlay.Dots = append(overlay.Dots, dot)
		}
	}
	return overlay, true
}

// seriesDot interpolates series i at a graph-local x position.
//
// The usable range is the pixel extent of the series' own x-values, not
// the shared axis extent: each series clamps interpolation to where its
// samples exist, so a pointer outside that range produces no dot.
// Within it, the y-values are waypoints in row order and the bracketing
// pair is blended linearly.
func (c *Chart[T]) seriesDot(i int, graphX float64) (Dot, bool) {
	n := c.cfg.Frame.Len()
	if n == 0 {
		return Dot{}, false
	}

	minPx := math.Inf(1)
	maxPx := math.Inf(-1)
	for j := range n {
		px := c.xPixel(c.cfg.Frame.At(j))
		minPx = math.Min(minPx, px)
		maxPx = math.Max(maxPx, px)
	}
	if graphX < minPx || graphX > maxPx {
		return Dot{}, false
	}

	t := 0.0
	if maxPx > minPx {
		t = (graphX - minPx) / (maxPx - minPx)
	}

	acc := c.cfg.Series[i].Y
	ys := make([]float64, 0, n)
	for j := range n {
		ys = append(ys, acc(c.cfg.Frame.At(j)))
	}

	value := interpolateWaypoints(ys, t)
	if math.IsNaN(value) {
		return Dot{}, false
	}
	return Dot{
		Series: i,
		X:      graphX,
		Y:      c.yScale.Convert(value),
		Value:  value,
	}, true
}

// interpolateWaypoints evaluates the piecewise-linear curve through the
// waypoints at fraction t of the whole sequence. The cursor always
// blends straight segments between adjacent samples, whatever curve the
// line itself was drawn with.
func interpolateWaypoints(ys []float64, t float64) float64 {
	switch len(ys) {
	case 0:
		return math.NaN()
	case 1:
		return ys[0]
	}
	pos := t * float64(len(ys)-1)
	i := int(math.Floor(pos))
	if i >= len(ys)-1 {
		return ys[len(ys)-1]
	}
	frac := pos - float64(i)
	return ys[i] + (ys[i+1]-ys[i])*frac
}

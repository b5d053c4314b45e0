// Package chart computes pixel-space geometry for declarative charts:
// scales derived from row data, axis ticks, per-series point and bar
// positions, and the pointer-following cursor overlay.
//
// The package is pure. It never draws: renderers consume the geometry it
// produces. All computed positions are in plot-local pixels; Geometry
// says where the plot sits inside the full chart rectangle.
package chart

import (
	"math"

	"github.com/henne90gen/dfplot/internal/frame"
)

// Pixels reserved on each side of the plot for axes and labels.
const (
	PaddingX = 30
	PaddingY = 20
)

// Series is one y-accessor rendered against the shared x-axis.
type Series[T any] struct {
	Y     ValueAccessor[T]
	Label string
	Color string
}

// CursorStyle configures the interactive cursor overlay.
type CursorStyle struct {
	Color    string
	DotColor string
	DotSize  float64
}

// Config describes one chart instance.
type Config[T any] struct {
	// Width and Height are the nominal chart dimensions in pixels,
	// including the axis padding.
	Width  float64
	Height float64

	// X extracts x-values and selects the x-axis kind.
	X XAccessor[T]

	// Series are the y-accessors drawn against the shared x-axis. The
	// y-scale spans the extent across all of them.
	Series []Series[T]

	// Frame holds the rows, in render order.
	Frame frame.Frame[T]

	// YMin and YMax, when set, replace the computed y-extent bounds.
	YMin *float64
	YMax *float64

	// Cursor enables the interactive overlay. A nil cursor disables
	// pointer handling entirely.
	Cursor *CursorStyle
}

// Geometry is the pixel rectangle of the plotted area within the chart.
type Geometry struct {
	OriginX float64
	OriginY float64
	Width   float64
	Height  float64
}

// NewGeometry derives the plot rectangle from the full chart dimensions
// and the fixed axis padding.
func NewGeometry(width, height float64) Geometry {
	return Geometry{
		OriginX: PaddingX,
		OriginY: PaddingY,
		Width:   math.Max(0, width-2*PaddingX),
		Height:  math.Max(0, height-2*PaddingY),
	}
}

// Chart is the computed geometry for one Config. It is immutable; build
// a new Chart when the data or the dimensions change.
type Chart[T any] struct {
	cfg    Config[T]
	geom   Geometry
	xScale XScale
	yScale ValueScale

	// xPixel positions one row on the x-axis; band keys map to the
	// center of their band.
	xPixel func(T) float64

	// bandKey is set only for categorical x-axes.
	bandKey func(T) string
}

// New builds the scales and geometry for a chart. It never fails: empty
// data produces zero-width extents and empty geometry.
func New[T any](cfg Config[T]) *Chart[T] {
	c := &Chart[T]{
		cfg:  cfg,
		geom: NewGeometry(cfg.Width, cfg.Height),
	}

	yAccessors := make([]ValueAccessor[T], 0, len(cfg.Series))
	for _, s := range cfg.Series {
		yAccessors = append(yAccessors, s.Y)
	}
	yExtent := ValueExtentOf(cfg.Frame, yAccessors...).
		ClampMinToZero().
		Override(cfg.YMin, cfg.YMax)
	c.yScale = NewValueScale(PixelRange{Start: c.geom.Height, End: 0}, yExtent)

	xPixels := PixelRange{Start: 0, End: c.geom.Width}
	switch acc := cfg.X.(type) {
	case ValueAccessor[T]:
		s := NewValueScale(xPixels, ValueExtentOf(cfg.Frame, acc).WithMargin())
		c.xScale = s
		c.xPixel = func(row T) float64 { return s.Convert(acc(row)) }
	case TimeAccessor[T]:
		s := NewTimeScale(xPixels, TimeExtentOf(cfg.Frame, acc).WithMargin())
		c.xScale = s
		c.xPixel = func(row T) float64 { return s.Convert(acc(row)) }
	case BandAccessor[T]:
		s := NewBandScale(xPixels, BandKeysOf(cfg.Frame, acc))
		c.xScale = s
		c.xPixel = func(row T) float64 { return s.Convert(acc(row)) + s.Bandwidth()/2 }
		c.bandKey = acc
	}

	return c
}

// Config returns the configuration the chart was built from.
func (c *Chart[T]) Config() Config[T] { return c.cfg }

// Geometry returns the plot rectangle.
func (c *Chart[T]) Geometry() Geometry { return c.geom }

// XScale returns the x-axis scale.
func (c *Chart[T]) XScale() XScale { return c.xScale }

// YScale returns the shared y-axis scale.
func (c *Chart[T]) YScale() ValueScale { return c.yScale }

// XTicks returns up to roughly count ticks for the x-axis. Band axes
// ignore count and produce one tick per key.
func (c *Chart[T]) XTicks(count int) []Tick {
	switch s := c.xScale.(type) {
	case ValueScale:
		return ValueTicks(s, count)
	case TimeScale:
		return TimeTicks(s, count)
	case BandScale:
		return BandTicks(s)
	}
	return nil
}

// YTicks returns up to roughly count ticks for the y-axis.
func (c *Chart[T]) YTicks(count int) []Tick {
	return ValueTicks(c.yScale, count)
}

package chart

import (
	"math"
	"time"
)

// PixelRange is an oriented span of pixels. Start may exceed End: the
// y-axis runs from the plot height down to zero so that the data minimum
// lands at the bottom of the plot.
type PixelRange struct {
	Start float64
	End   float64
}

// XScale is the pixel mapping for a chart's x-axis. It is a closed set:
// ValueScale, TimeScale and BandScale are the only implementations, and
// call sites handle all of them exhaustively.
type XScale interface {
	xScale()
}

func (ValueScale) xScale() {}
func (TimeScale) xScale()  {}
func (BandScale) xScale()  {}

// ValueScale is an affine mapping between a numeric extent and a pixel
// range.
type ValueScale struct {
	Extent Extent
	Pixels PixelRange
}

func NewValueScale(pixels PixelRange, extent Extent) ValueScale {
	return ValueScale{Extent: extent, Pixels: pixels}
}

// Convert maps a data-space value to a pixel position. A zero-width
// extent maps every value to the middle of the pixel range.
func (s ValueScale) Convert(v float64) float64 {
	width := s.Extent.Max - s.Extent.Min
	if width == 0 {
		return s.Pixels.Start + (s.Pixels.End-s.Pixels.Start)/2
	}
	return s.Pixels.Start + (v-s.Extent.Min)*(s.Pixels.End-s.Pixels.Start)/width
}

// Invert maps a pixel position back to a data-space value. It is the
// exact algebraic inverse of Convert.
func (s ValueScale) Invert(px float64) float64 {
	span := s.Pixels.End - s.Pixels.Start
	if span == 0 {
		return s.Extent.Min
	}
	return s.Extent.Min + (px-s.Pixels.Start)*(s.Extent.Max-s.Extent.Min)/span
}

// TimeScale is an affine mapping between a temporal extent and a pixel
// range. The mapping operates on integer milliseconds since the Unix
// epoch, converting to and from time.Time only at the boundary.
type TimeScale struct {
	Extent TimeExtent
	Pixels PixelRange
}

func NewTimeScale(pixels PixelRange, extent TimeExtent) TimeScale {
	return TimeScale{Extent: extent, Pixels: pixels}
}

// Convert maps an instant to a pixel position.
func (s TimeScale) Convert(t time.Time) float64 {
	return s.millis().Convert(float64(t.UnixMilli()))
}

// Invert maps a pixel position back to an instant in UTC, rounded to the
// nearest millisecond.
func (s TimeScale) Invert(px float64) time.Time {
	ms := s.millis().Invert(px)
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}

// millis views the scale as a numeric scale over epoch milliseconds.
func (s TimeScale) millis() ValueScale {
	return ValueScale{
		Extent: Extent{
			Min: float64(s.Extent.Min.UnixMilli()),
			Max: float64(s.Extent.Max.UnixMilli()),
		},
		Pixels: s.Pixels,
	}
}

const (
	defaultInnerPadding = 0.1
	defaultOuterPadding = 0.2
)

// BandScale maps an ordered set of categorical keys to equal-width
// bands. Keys keep their first-seen order. The axis reserves the outer
// padding fraction of the total width, split evenly between both ends;
// each band gives up the inner padding fraction of its step, split
// evenly around the band. Categorical axes have no inverse.
type BandScale struct {
	Pixels PixelRange

	keys  []string
	index map[string]int

	innerPadding float64
	outerPadding float64
}

// NewBandScale builds a band scale with the default inner (0.1) and
// outer (0.2) padding fractions. Duplicate keys are dropped, keeping the
// first occurrence.
func NewBandScale(pixels PixelRange, keys []string) BandScale {
	return NewBandScaleWithPadding(pixels, keys, defaultInnerPadding, defaultOuterPadding)
}

// NewBandScaleWithPadding is NewBandScale with explicit padding
// fractions.
func NewBandScaleWithPadding(pixels PixelRange, keys []string, inner, outer float64) BandScale {
	s := BandScale{
		Pixels:       pixels,
		index:        map[string]int{},
		innerPadding: inner,
		outerPadding: outer,
	}
	for _, key := range keys {
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = len(s.keys)
		s.keys = append(s.keys, key)
	}
	return s
}

// Keys returns the distinct keys in band order.
func (s BandScale) Keys() []string { return s.keys }

// step is the width allotted to one band including its share of the
// inner gaps.
func (s BandScale) step() float64 {
	if len(s.keys) == 0 {
		return 0
	}
	total := s.Pixels.End - s.Pixels.Start
	return total * (1 - s.outerPadding) / float64(len(s.keys))
}

// Bandwidth returns the drawable width of one band.
func (s BandScale) Bandwidth() float64 {
	return s.step() * (1 - s.innerPadding)
}

// Convert returns the left edge of the key's band. Unknown keys map to
// NaN.
func (s BandScale) Convert(key string) float64 {
	i, ok := s.index[key]
	if !ok {
		return math.NaN()
	}
	total := s.Pixels.End - s.Pixels.Start
	step := s.step()
	outer := total * s.outerPadding / 2
	return s.Pixels.Start + outer + float64(i)*step + step*s.innerPadding/2
}

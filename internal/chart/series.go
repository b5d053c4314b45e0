package chart

import "math"

// Rect is an axis-aligned rectangle in plot-local pixels.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// SeriesPoints maps every row of series i through the x and y scales, in
// row order, producing plot-local positions for line and point
// rendering. An empty frame yields an empty slice.
func (c *Chart[T]) SeriesPoints(i int) []Point {
	points := make([]Point, 0, c.cfg.Frame.Len())
	acc := c.cfg.Series[i].Y
	for j := range c.cfg.Frame.Len() {
		row := c.cfg.Frame.At(j)
		points = append(points, Point{
			X: c.xPixel(row),
			Y: c.yScale.Convert(acc(row)),
		})
	}
	return points
}

// SeriesRects produces one bar per row for series i. Bars need a banded
// x-axis; continuous axes yield nil. With multiple series the band is
// split into equal slots, one per series, in series order. Bars grow
// from the zero baseline, clamped into the y-extent.
func (c *Chart[T]) SeriesRects(i int) []Rect {
	band, ok := c.xScale.(BandScale)
	if !ok {
		return nil
	}

	slot := band.Bandwidth() / float64(len(c.cfg.Series))
	base := math.Min(math.Max(0, c.yScale.Extent.Min), c.yScale.Extent.Max)
	basePx := c.yScale.Convert(base)

	acc := c.cfg.Series[i].Y
	rects := make([]Rect, 0, c.cfg.Frame.Len())
	for j := range c.cfg.Frame.Len() {
		row := c.cfg.Frame.At(j)
		v := acc(row)
		if math.IsNaN(v) {
			continue
		}
		py := c.yScale.Convert(v)
		rects = append(rects, Rect{
			X:      band.Convert(c.bandKey(row)) + slot*float64(i),
			Y:      math.Min(py, basePx),
			Width:  slot,
			Height: math.Abs(basePx - py),
		})
	}
	return rects
}

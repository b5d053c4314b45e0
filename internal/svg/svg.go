// Package svg renders charts as standalone SVG documents.
//
// The document uses the chart's nominal pixel dimensions. Series with a
// continuous x-axis are drawn as paths, series over a categorical
// x-axis as bar rectangles.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/henne90gen/dfplot/internal/chart"
)

// Stroke colors for series that do not set their own.
var defaultPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd", "#8c564b",
}

const (
	titleFontSize = 13.0
	tickFontSize  = 10.0
	tickLength    = 4.0
	legendRowStep = 16.0
)

// Options carries the parts of the document not derived from the chart.
type Options struct {
	// Title is drawn centered above the plot. Optional.
	Title string
}

// Render produces a complete SVG document for the chart.
func Render[T any](c *chart.Chart[T], opts Options) string {
	var buf bytes.Buffer
	cfg := c.Config()
	geom := c.Geometry()

	buf.WriteString(fmt.Sprintf(
		"<svg width=\"%.0f\" height=\"%.0f\" xmlns=\"http://www.w3.org/2000/svg\">\n",
		cfg.Width, cfg.Height))
	writeStyle(&buf)
	buf.WriteString(fmt.Sprintf(
		"  <rect width=\"%.0f\" height=\"%.0f\" fill=\"#ffffff\" />\n",
		cfg.Width, cfg.Height))

	if opts.Title != "" {
		buf.WriteString(fmt.Sprintf(
			"  <text x=\"%.1f\" y=\"%.1f\" class=\"chart-title\">%s</text>\n",
			cfg.Width/2, titleFontSize+1, html.EscapeString(opts.Title)))
	}

	buf.WriteString(fmt.Sprintf("  <g transform=\"translate(%.0f,%.0f)\">\n",
		geom.OriginX, geom.OriginY))
	writeYTicks(&buf, c, geom)
	writeXTicks(&buf, c, geom)
	writeAxes(&buf, geom)
	writeSeries(&buf, c)
	writeLegend(&buf, cfg.Series, geom)
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.String()
}

func writeStyle(buf *bytes.Buffer) {
	buf.WriteString("  <style>\n")
	buf.WriteString(fmt.Sprintf(
		"    .chart-title { font-family: Arial, sans-serif; font-size: %.1fpx; font-weight: bold; text-anchor: middle; }\n",
		titleFontSize))
	buf.WriteString("    .axis-line { stroke: #333; stroke-width: 1px; }\n")
	buf.WriteString("    .grid-line { stroke: #ddd; stroke-width: 0.5px; }\n")
	buf.WriteString("    .tick-line { stroke: #333; stroke-width: 1px; }\n")
	buf.WriteString(fmt.Sprintf(
		"    .tick-label { font-family: Arial, sans-serif; font-size: %.1fpx; fill: #333; }\n",
		tickFontSize))
	buf.WriteString("    .series-line { stroke-width: 1.5px; fill: none; }\n")
	buf.WriteString(fmt.Sprintf(
		"    .legend-label { font-family: Arial, sans-serif; font-size: %.1fpx; fill: #333; }\n",
		tickFontSize+1))
	buf.WriteString("  </style>\n")
}

func writeAxes(buf *bytes.Buffer, geom chart.Geometry) {
	buf.WriteString(fmt.Sprintf(
		"    <line x1=\"0\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" class=\"axis-line\" />\n",
		geom.Height, geom.Width, geom.Height))
	buf.WriteString(fmt.Sprintf(
		"    <line x1=\"0\" y1=\"0\" x2=\"0\" y2=\"%.1f\" class=\"axis-line\" />\n",
		geom.Height))
}

func writeXTicks[T any](buf *bytes.Buffer, c *chart.Chart[T], geom chart.Geometry) {
	for _, tick := range c.XTicks(xTickCount(geom.Width)) {
		buf.WriteString(fmt.Sprintf(
			"    <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" class=\"tick-line\" />\n",
			tick.Pixel, geom.Height, tick.Pixel, geom.Height+tickLength))
		buf.WriteString(fmt.Sprintf(
			"    <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" class=\"tick-label\">%s</text>\n",
			tick.Pixel, geom.Height+tickLength+tickFontSize+1, html.EscapeString(tick.Label)))
	}
}

func writeYTicks[T any](buf *bytes.Buffer, c *chart.Chart[T], geom chart.Geometry) {
	for _, tick := range c.YTicks(yTickCount(geom.Height)) {
		buf.WriteString(fmt.Sprintf(
			"    <line x1=\"%.1f\" y1=\"%.1f\" x2=\"0\" y2=\"%.1f\" class=\"grid-line\" />\n",
			geom.Width, tick.Pixel, tick.Pixel))
		buf.WriteString(fmt.Sprintf(
			"    <line x1=\"%.1f\" y1=\"%.1f\" x2=\"0\" y2=\"%.1f\" class=\"tick-line\" />\n",
			-tickLength, tick.Pixel, tick.Pixel))
		buf.WriteString(fmt.Sprintf(
			"    <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"end\" class=\"tick-label\">%s</text>\n",
			-tickLength-2, tick.Pixel+tickFontSize/2-1, html.EscapeString(tick.Label)))
	}
}

func writeSeries[T any](buf *bytes.Buffer, c *chart.Chart[T]) {
	series := c.Config().Series
	for i := range series {
		color := SeriesColor(series[i].Color, i)
		if rects := c.SeriesRects(i); rects != nil {
			writeBars(buf, rects, color)
			continue
		}
		writePath(buf, c.SeriesPoints(i), color)
	}
}

// writePath draws one series as a path. Points with a non-finite y are
// gaps: the path is interrupted and picked up again at the next finite
// point.
func writePath(buf *bytes.Buffer, points []chart.Point, color string) {
	var d bytes.Buffer
	penDown := false
	for _, p := range points {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			penDown = false
			continue
		}
		if penDown {
			d.WriteString(fmt.Sprintf(" L%.1f,%.1f", p.X, p.Y))
		} else {
			if d.Len() > 0 {
				d.WriteString(" ")
			}
			d.WriteString(fmt.Sprintf("M%.1f,%.1f", p.X, p.Y))
			penDown = true
		}
	}
	if d.Len() == 0 {
		return
	}
	buf.WriteString(fmt.Sprintf(
		"    <path d=\"%s\" stroke=\"%s\" class=\"series-line\" />\n",
		d.String(), color))
}

func writeBars(buf *bytes.Buffer, rects []chart.Rect, color string) {
	for _, r := range rects {
		buf.WriteString(fmt.Sprintf(
			"    <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\" class=\"series-bar\" />\n",
			r.X, r.Y, r.Width, r.Height, color))
	}
}

func writeLegend[T any](buf *bytes.Buffer, series []chart.Series[T], geom chart.Geometry) {
	labeled := false
	for _, s := range series {
		if s.Label != "" {
			labeled = true
			break
		}
	}
	if !labeled {
		return
	}

	x := geom.Width - 110
	y := 8.0
	for i, s := range series {
		color := SeriesColor(s.Color, i)
		buf.WriteString(fmt.Sprintf(
			"    <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\" stroke-width=\"2\" />\n",
			x, y, x+18, y, color))
		buf.WriteString(fmt.Sprintf(
			"    <text x=\"%.1f\" y=\"%.1f\" class=\"legend-label\">%s</text>\n",
			x+24, y+4, html.EscapeString(s.Label)))
		y += legendRowStep
	}
}

// SeriesColor resolves the stroke color for series i, falling back to a
// fixed palette when the series does not set one.
func SeriesColor(configured string, i int) string {
	if configured != "" {
		return configured
	}
	return defaultPalette[i%len(defaultPalette)]
}

func xTickCount(plotWidth float64) int {
	return max(2, int(plotWidth/80))
}

func yTickCount(plotHeight float64) int {
	return max(2, int(plotHeight/40))
}

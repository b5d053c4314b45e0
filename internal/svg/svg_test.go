package svg_test

import (
	"math"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/frame"
	"github.com/henne90gen/dfplot/internal/svg"
)

type sample struct {
	x    float64
	loss float64
	acc  float64
}

func lineChart(rows []sample) *chart.Chart[sample] {
	return chart.New(chart.Config[sample]{
		Width:  600,
		Height: 300,
		X:      chart.ValueAccessor[sample](func(s sample) float64 { return s.x }),
		Series: []chart.Series[sample]{
			{Y: func(s sample) float64 { return s.loss }, Label: "Loss", Color: "#ff0000"},
			{Y: func(s sample) float64 { return s.acc }, Label: "Accuracy"},
		},
		Frame: frame.New(rows),
	})
}

func TestRender_Line(t *testing.T) {
	c := lineChart([]sample{
		{x: 0, loss: 10, acc: 0.5},
		{x: 1, loss: 15, acc: 0.7},
	})

	out := svg.Render(c, svg.Options{Title: "Training"})

	assert.True(t, strings.HasPrefix(out, `<svg width="600" height="300"`))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
	assert.Equal(t, 2, strings.Count(out, "<path"), "one path per series")
	assert.Contains(t, out, `stroke="#ff0000"`)
	assert.Contains(t, out, `stroke="#ff7f0e"`, "second series falls back to the palette")
	assert.Contains(t, out, ">Training<")
	assert.Contains(t, out, ">Loss<")
	assert.Contains(t, out, ">Accuracy<")
	assert.Equal(t, 2, strings.Count(out, `class="axis-line"`))
}

func TestRender_TitleEscaped(t *testing.T) {
	c := lineChart([]sample{{x: 0, loss: 1, acc: 1}})

	out := svg.Render(c, svg.Options{Title: "Loss & Gain"})

	assert.Contains(t, out, "Loss &amp; Gain")
	assert.NotContains(t, out, ">Loss & Gain<")
}

func TestRender_GapOnMissingValue(t *testing.T) {
	c := chart.New(chart.Config[sample]{
		Width:  600,
		Height: 300,
		X:      chart.ValueAccessor[sample](func(s sample) float64 { return s.x }),
		Series: []chart.Series[sample]{
			{Y: func(s sample) float64 { return s.loss }},
		},
		Frame: frame.New([]sample{
			{x: 0, loss: 1},
			{x: 1, loss: math.NaN()},
			{x: 2, loss: 3},
		}),
	})

	out := svg.Render(c, svg.Options{})

	d := regexp.MustCompile(`<path d="([^"]+)"`).FindStringSubmatch(out)
	require.Len(t, d, 2)
	assert.Equal(t, 2, strings.Count(d[1], "M"), "missing value splits the path")
	assert.Equal(t, 0, strings.Count(d[1], "NaN"))
}

func TestRender_Bars(t *testing.T) {
	type cat struct {
		region string
		sales  float64
	}
	c := chart.New(chart.Config[cat]{
		Width:  260,
		Height: 140,
		X:      chart.BandAccessor[cat](func(v cat) string { return v.region }),
		Series: []chart.Series[cat]{
			{Y: func(v cat) float64 { return v.sales }, Label: "Sales"},
		},
		Frame: frame.New([]cat{
			{region: "north", sales: 3},
			{region: "south", sales: 5},
			{region: "west", sales: 2},
		}),
	})

	out := svg.Render(c, svg.Options{})

	assert.Equal(t, 3, strings.Count(out, `class="series-bar"`))
	assert.NotContains(t, out, "<path")
	assert.Contains(t, out, ">north<")
	assert.Contains(t, out, ">south<")
	assert.Contains(t, out, ">west<")
}

func TestRender_EmptyData(t *testing.T) {
	c := lineChart(nil)

	out := svg.Render(c, svg.Options{})

	assert.NotContains(t, out, "<path")
	assert.Equal(t, 2, strings.Count(out, `class="axis-line"`))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestRender_TickLabels(t *testing.T) {
	c := chart.New(chart.Config[sample]{
		Width:  600,
		Height: 300,
		X:      chart.ValueAccessor[sample](func(s sample) float64 { return s.x }),
		Series: []chart.Series[sample]{
			{Y: func(s sample) float64 { return s.loss }},
		},
		Frame: frame.New([]sample{
			{x: 0, loss: 10},
			{x: 1, loss: 15},
		}),
	})

	out := svg.Render(c, svg.Options{})

	assert.Contains(t, out, ">0<", "y axis starts at zero after clamping")
	assert.Contains(t, out, ">15<")
	assert.Contains(t, out, ">0.0<")
	assert.Contains(t, out, ">1.0<")
}

func TestSeriesColor(t *testing.T) {
	assert.Equal(t, "#123456", svg.SeriesColor("#123456", 0))
	assert.Equal(t, "#1f77b4", svg.SeriesColor("", 0))
	assert.Equal(t, "#1f77b4", svg.SeriesColor("", 6), "palette wraps around")
}

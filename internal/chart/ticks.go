package chart

import (
	"math"
	"strconv"
	"time"
)

// Tick is one axis mark: a pixel position along the axis and its label.
type Tick struct {
	Pixel float64
	Label string
}

// ValueTicks returns ticks at round values covering the scale's extent.
// count is a hint for the approximate number of ticks.
func ValueTicks(s ValueScale, count int) []Tick {
	if count < 1 {
		count = 1
	}
	width := s.Extent.Max - s.Extent.Min
	if width <= 0 {
		return []Tick{{
			Pixel: s.Convert(s.Extent.Min),
			Label: formatTickValue(s.Extent.Min, 0),
		}}
	}

	step := niceStep(width / float64(count))
	decimals := tickDecimals(step)

	var ticks []Tick
	first := math.Ceil(s.Extent.Min / step)
	last := math.Floor(s.Extent.Max / step)
	for i := first; i <= last; i++ {
		v := i * step
		ticks = append(ticks, Tick{
			Pixel: s.Convert(v),
			Label: formatTickValue(v, decimals),
		})
	}
	return ticks
}

// niceStep rounds a raw step up to a 1, 2, 5 or 10 multiple of a power
// of ten.
func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func tickDecimals(step float64) int {
	if step >= 1 {
		return 0
	}
	return int(math.Ceil(-math.Log10(step)))
}

func formatTickValue(v float64, decimals int) string {
	if v == 0 {
		v = 0 // drop the sign of negative zero
	}
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// Candidate spacings for time axes, coarsest last.
var timeTickSteps = []time.Duration{
	time.Second,
	5 * time.Second,
	15 * time.Second,
	30 * time.Second,
	time.Minute,
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
	7 * 24 * time.Hour,
	30 * 24 * time.Hour,
	90 * 24 * time.Hour,
	365 * 24 * time.Hour,
}

// timeTickLayout picks a label format readable at the given spacing.
func timeTickLayout(step time.Duration) string {
	switch {
	case step < time.Minute:
		return "15:04:05"
	case step < 24*time.Hour:
		return "15:04"
	case step < 30*24*time.Hour:
		return "02.01"
	case step < 365*24*time.Hour:
		return "01.2006"
	default:
		return "2006"
	}
}

// TimeTicks returns ticks at round instants covering the scale's extent.
// count is a hint for the approximate number of ticks.
func TimeTicks(s TimeScale, count int) []Tick {
	if count < 1 {
		count = 1
	}
	minMs := s.Extent.Min.UnixMilli()
	maxMs := s.Extent.Max.UnixMilli()
	span := maxMs - minMs
	if span <= 0 {
		return []Tick{{
			Pixel: s.Convert(s.Extent.Min),
			Label: s.Extent.Min.UTC().Format("02.01.2006 15:04"),
		}}
	}

	step := timeTickSteps[len(timeTickSteps)-1]
	for _, d := range timeTickSteps {
		if d.Milliseconds()*int64(count) >= span {
			step = d
			break
		}
	}
	stepMs := step.Milliseconds()
	layout := timeTickLayout(step)

	var ticks []Tick
	first := int64(math.Ceil(float64(minMs)/float64(stepMs))) * stepMs
	for ms := first; ms <= maxMs; ms += stepMs {
		t := time.UnixMilli(ms).UTC()
		ticks = append(ticks, Tick{Pixel: s.Convert(t), Label: t.Format(layout)})
	}
	return ticks
}

// BandTicks returns one tick per key, centered on its band.
func BandTicks(s BandScale) []Tick {
	var ticks []Tick
	for _, key := range s.Keys() {
		ticks = append(ticks, Tick{
			Pixel: s.Convert(key) + s.Bandwidth()/2,
			Label: key,
		})
	}
	return ticks
}

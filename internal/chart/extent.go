package chart

import (
	"math"
	"time"

	"github.com/henne90gen/dfplot/internal/frame"
)

// Extent is a numeric data-space range with Min <= Max.
type Extent struct {
	Min float64
	Max float64
}

// TimeExtent is a temporal data-space range with Min not after Max.
type TimeExtent struct {
	Min time.Time
	Max time.Time
}

// Fraction of the extent width added on both ends of an x-axis so that
// extreme points are not drawn flush against the axis.
const extentMargin = 0.015

// ValueExtentOf scans the accessor outputs across all rows and series
// and returns the global minimum and maximum. Non-finite values are
// skipped. An empty frame yields the zero extent.
func ValueExtentOf[T any](f frame.Frame[T], accessors ...ValueAccessor[T]) Extent {
	low := math.Inf(1)
	high := math.Inf(-1)
	for i := range f.Len() {
		row := f.At(i)
		for _, acc := range accessors {
			v := acc(row)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			low = math.Min(low, v)
			high = math.Max(high, v)
		}
	}
	if low > high {
		return Extent{}
	}
	return Extent{Min: low, Max: high}
}

// TimeExtentOf scans the accessor outputs across all rows and returns
// the earliest and latest instant. An empty frame yields a zero-width
// extent at the Unix epoch.
func TimeExtentOf[T any](f frame.Frame[T], accessor TimeAccessor[T]) TimeExtent {
	if f.Len() == 0 {
		epoch := time.UnixMilli(0).UTC()
		return TimeExtent{Min: epoch, Max: epoch}
	}
	low := accessor(f.At(0))
	high := low
	for i := 1; i < f.Len(); i++ {
		t := accessor(f.At(i))
		if t.Before(low) {
			low = t
		}
		if t.After(high) {
			high = t
		}
	}
	return TimeExtent{Min: low, Max: high}
}

// BandKeysOf returns the distinct accessor outputs in first-seen order.
func BandKeysOf[T any](f frame.Frame[T], accessor BandAccessor[T]) []string {
	var keys []string
	seen := map[string]bool{}
	for i := range f.Len() {
		key := accessor(f.At(i))
		if seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}

// WithMargin widens the extent by 1.5% of its width on both ends.
func (e Extent) WithMargin() Extent {
	margin := extentMargin * (e.Max - e.Min)
	return Extent{Min: e.Min - margin, Max: e.Max + margin}
}

// WithMargin widens the extent by 1.5% of its width on both ends,
// rounded to the nearest integer millisecond.
func (e TimeExtent) WithMargin() TimeExtent {
	minMs := e.Min.UnixMilli()
	maxMs := e.Max.UnixMilli()
	margin := int64(math.Round(extentMargin * float64(maxMs-minMs)))
	return TimeExtent{
		Min: time.UnixMilli(minMs - margin).UTC(),
		Max: time.UnixMilli(maxMs + margin).UTC(),
	}
}

// ClampMinToZero anchors an all-positive extent to the zero baseline. A
// negative minimum is never clamped.
func (e Extent) ClampMinToZero() Extent {
	if e.Min > 0 {
		e.Min = 0
	}
	return e
}

// Override replaces the bounds with the caller-supplied values, when
// given. The overrides are not validated against the data, so a fixed
// range can be held across re-renders.
func (e Extent) Override(min, max *float64) Extent {
	if min != nil {
		e.Min = *min
	}
	if max != nil {
		e.Max = *max
	}
	return e
}

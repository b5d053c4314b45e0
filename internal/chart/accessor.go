package chart

import "time"

// XAccessor selects the kind of x-axis for a chart and extracts x-values
// from rows. It is a closed set: ValueAccessor, TimeAccessor and
// BandAccessor are the only implementations, and call sites handle all
// of them exhaustively. Every series on a chart shares the one x
// accessor, so scale kinds cannot be mixed on a single axis.
type XAccessor[T any] interface {
	xAccessor()
}

// ValueAccessor extracts a numeric value from a row.
type ValueAccessor[T any] func(T) float64

// TimeAccessor extracts an instant from a row.
type TimeAccessor[T any] func(T) time.Time

// BandAccessor extracts a categorical key from a row.
type BandAccessor[T any] func(T) string

func (ValueAccessor[T]) xAccessor() {}
func (TimeAccessor[T]) xAccessor() {}
func (BandAccessor[T]) xAccessor() {}

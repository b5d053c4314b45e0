package frame

import (
	"strconv"
	"time"
)

// Row is a generic record decoded from a serialized table.
type Row map[string]any

// Layouts accepted for temporal columns. Serialized tables written by
// pandas use ISO 8601 with millisecond precision, with or without a zone.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// String returns the named column as a string, or def if the column is
// missing or has a different type.
func (r Row) String(key string, def string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return def
}

// Key returns the named column formatted as a categorical key. Strings
// are returned as is, numeric and boolean values are formatted as text.
// A missing or unsupported column yields the empty string.
func (r Row) Key(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

// Number returns the named column as a float64, accepting any numeric
// representation, or def if the column is missing or not numeric.
func (r Row) Number(key string, def float64) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	}
	return def
}

// Int returns the named column as an int, truncating a floating-point
// value, or def if the column is missing or not numeric.
func (r Row) Int(key string, def int) int {
	switch v := r[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the named column as a bool, or def if the column is
// missing or has a different type.
func (r Row) Bool(key string, def bool) bool {
	if v, ok := r[key].(bool); ok {
		return v
	}
	return def
}

// Time returns the named column as an instant.
//
// Accepts ISO 8601 strings as emitted by pandas and integer or
// floating-point milliseconds since the Unix epoch. Strings without a
// zone are interpreted as UTC. Returns def when the column is missing
// or unparsable.
func (r Row) Time(key string, def time.Time) time.Time {
	switch v := r[key].(type) {
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	case int64:
		return time.UnixMilli(v).UTC()
	case float64:
		return time.UnixMilli(int64(v)).UTC()
	case time.Time:
		return v
	}
	return def
}

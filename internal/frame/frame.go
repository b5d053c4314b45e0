// Package frame provides an immutable, ordered table of rows.
package frame

import "slices"

// Field describes one column of a Frame.
type Field struct {
	Name string
	Type string
}

// Schema is optional column metadata, typically carried over from a
// serialized table.
type Schema struct {
	Fields     []Field
	PrimaryKey []string
}

// Field returns the field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Frame is an ordered sequence of rows with optional schema metadata.
//
// A Frame is immutable once built. Row order is stable and meaningful:
// it determines line-path ordering and cursor interpolation order.
type Frame[T any] struct {
	rows   []T
	schema *Schema
}

// New creates a Frame from a sequence of rows.
func New[T any](rows []T) Frame[T] {
	return Frame[T]{rows: slices.Clone(rows)}
}

// NewWithSchema creates a Frame from a sequence of rows and its schema.
func NewWithSchema[T any](rows []T, schema *Schema) Frame[T] {
	return Frame[T]{rows: slices.Clone(rows), schema: schema}
}

// Len returns the number of rows.
func (f Frame[T]) Len() int { return len(f.rows) }

// At returns the row at index i.
func (f Frame[T]) At(i int) T { return f.rows[i] }

// Rows returns a copy of the rows in order.
func (f Frame[T]) Rows() []T { return slices.Clone(f.rows) }

// Schema returns the schema metadata, or nil if there is none.
func (f Frame[T]) Schema() *Schema { return f.schema }

// Filter returns a new Frame holding the rows for which keep returns true,
// preserving row order and schema.
func (f Frame[T]) Filter(keep func(T) bool) Frame[T] {
	out := Frame[T]{schema: f.schema}
	for _, row := range f.rows {
		if keep(row) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// Map returns a new Frame with fn applied to every row in order.
//
// It is a free function because Go methods cannot introduce type
// parameters. The schema does not carry over since the row type changes.
func Map[T, U any](f Frame[T], fn func(T) U) Frame[U] {
	out := Frame[U]{rows: make([]U, 0, len(f.rows))}
	for _, row := range f.rows {
		out.rows = append(out.rows, fn(row))
	}
	return out
}

// Package chartspec loads chart definitions from YAML files.
//
// A chart definition names a data file, a mark, an x-axis column and one
// or more series columns. It binds those columns to a chart.Config so
// the same definition drives both the interactive viewer and the SVG
// exporter.
package chartspec

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/frame"
)

// Marks supported by a chart definition.
const (
	MarkLine = "line"
	MarkBar  = "bar"
)

// X-axis kinds supported by a chart definition.
const (
	KindValue = "value"
	KindTime  = "time"
	KindBand  = "band"
)

const (
	defaultWidth   = 600
	defaultHeight  = 300
	defaultDotSize = 3
)

// Spec is a parsed chart definition.
type Spec struct {
	// Title is shown above the chart. Optional.
	Title string `yaml:"title"`

	// Data is the path to a serialized table, relative to the
	// definition file unless absolute.
	Data string `yaml:"data"`

	// Mark selects the chart type, "line" or "bar". Defaults to "line".
	Mark string `yaml:"mark"`

	X XSpec `yaml:"x"`

	Series []SeriesSpec `yaml:"series"`

	// YMin and YMax override the computed y extent when set.
	YMin *float64 `yaml:"yMin"`
	YMax *float64 `yaml:"yMax"`

	// Width and Height are the nominal pixel dimensions of the chart.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// Cursor enables the hover readout when present.
	Cursor *CursorSpec `yaml:"cursor"`
}

// XSpec selects the x-axis column and how to interpret it.
type XSpec struct {
	Column string `yaml:"column"`

	// Kind is "value", "time" or "band". Defaults to "value".
	Kind string `yaml:"kind"`
}

// SeriesSpec selects one y column.
type SeriesSpec struct {
	Column string `yaml:"column"`

	// Label defaults to the column name.
	Label string `yaml:"label"`

	// Color is any color the renderer understands, typically "#rrggbb".
	Color string `yaml:"color"`
}

// CursorSpec styles the hover readout.
type CursorSpec struct {
	Color    string  `yaml:"color"`
	DotColor string  `yaml:"dotColor"`
	DotSize  float64 `yaml:"dotSize"`
}

// Load reads, parses and validates a chart definition.
func Load(fsys afero.Fs, path string) (*Spec, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("chartspec: read %s: %w", path, err)
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("chartspec: parse %s: %w", path, err)
	}

	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("chartspec: %s: %w", path, err)
	}
	return &spec, nil
}

// Normalize fills in defaults for fields left empty in the file.
func (s *Spec) Normalize() {
	if s.Mark == "" {
		s.Mark = MarkLine
	}
	if s.X.Kind == "" {
		s.X.Kind = KindValue
	}
	if s.Width <= 0 {
		s.Width = defaultWidth
	}
	if s.Height <= 0 {
		s.Height = defaultHeight
	}
	for i := range s.Series {
		if s.Series[i].Label == "" {
			s.Series[i].Label = s.Series[i].Column
		}
	}
	if s.Cursor != nil && s.Cursor.DotSize <= 0 {
		s.Cursor.DotSize = defaultDotSize
	}
}

// Validate reports the first problem with the definition, if any.
func (s *Spec) Validate() error {
	if s.Data == "" {
		return fmt.Errorf("missing data file")
	}
	switch s.Mark {
	case MarkLine, MarkBar:
	default:
		return fmt.Errorf("unsupported mark %q (use %q or %q)", s.Mark, MarkLine, MarkBar)
	}
	if s.X.Column == "" {
		return fmt.Errorf("missing x column")
	}
	switch s.X.Kind {
	case KindValue, KindTime, KindBand:
	default:
		return fmt.Errorf("unsupported x kind %q (use %q, %q or %q)",
			s.X.Kind, KindValue, KindTime, KindBand)
	}
	if s.Mark == MarkBar && s.X.Kind != KindBand {
		return fmt.Errorf("bar charts need x kind %q, got %q", KindBand, s.X.Kind)
	}
	if s.Mark == MarkLine && s.X.Kind == KindBand {
		return fmt.Errorf("line charts need x kind %q or %q, got %q",
			KindValue, KindTime, s.X.Kind)
	}
	if len(s.Series) == 0 {
		return fmt.Errorf("missing series")
	}
	for i, series := range s.Series {
		if series.Column == "" {
			return fmt.Errorf("series %d: missing column", i)
		}
	}
	if s.YMin != nil && s.YMax != nil && *s.YMin >= *s.YMax {
		return fmt.Errorf("yMin %v must be below yMax %v", *s.YMin, *s.YMax)
	}
	return nil
}

// DataPath resolves the data file location relative to the definition
// file. An absolute path in the definition is used as is.
func (s *Spec) DataPath(specPath string) string {
	if filepath.IsAbs(s.Data) {
		return s.Data
	}
	return filepath.Join(filepath.Dir(specPath), s.Data)
}

// LoadData reads and decodes the data file named by the definition.
// specPath is the path the definition itself was loaded from.
func (s *Spec) LoadData(fsys afero.Fs, specPath string) (frame.Frame[frame.Row], error) {
	return s.LoadDataFrom(fsys, s.DataPath(specPath))
}

// LoadDataFrom reads and decodes a data file at an explicit path,
// bypassing the definition's own data reference.
func (s *Spec) LoadDataFrom(fsys afero.Fs, path string) (frame.Frame[frame.Row], error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return frame.Frame[frame.Row]{}, fmt.Errorf("chartspec: read data %s: %w", path, err)
	}
	f, err := frame.Decode(data)
	if err != nil {
		return frame.Frame[frame.Row]{}, fmt.Errorf("chartspec: %s: %w", path, err)
	}
	return f, nil
}

// CheckColumns verifies that every column the definition references
// exists in the data. Columns are checked against the table schema when
// one is present, otherwise against the first row.
func (s *Spec) CheckColumns(f frame.Frame[frame.Row]) error {
	columns := make([]string, 0, len(s.Series)+1)
	columns = append(columns, s.X.Column)
	for _, series := range s.Series {
		columns = append(columns, series.Column)
	}

	if schema := f.Schema(); schema != nil {
		for _, col := range columns {
			if _, ok := schema.Field(col); !ok {
				return fmt.Errorf("chartspec: column %q not found in data schema", col)
			}
		}
		return nil
	}
	if f.Len() == 0 {
		return nil
	}
	row := f.At(0)
	for _, col := range columns {
		if _, ok := row[col]; !ok {
			return fmt.Errorf("chartspec: column %q not found in data", col)
		}
	}
	return nil
}

// Config binds the definition's columns to accessors over the given
// frame. The result is ready for chart.New.
func (s *Spec) Config(f frame.Frame[frame.Row]) chart.Config[frame.Row] {
	cfg := chart.Config[frame.Row]{
		Width:  s.Width,
		Height: s.Height,
		Frame:  f,
		YMin:   s.YMin,
		YMax:   s.YMax,
	}

	xCol := s.X.Column
	switch s.X.Kind {
	case KindTime:
		cfg.X = chart.TimeAccessor[frame.Row](func(r frame.Row) time.Time {
			return r.Time(xCol, time.UnixMilli(0).UTC())
		})
	case KindBand:
		cfg.X = chart.BandAccessor[frame.Row](func(r frame.Row) string {
			return r.Key(xCol)
		})
	default:
		cfg.X = chart.ValueAccessor[frame.Row](func(r frame.Row) float64 {
			return r.Number(xCol, math.NaN())
		})
	}

	for _, series := range s.Series {
		yCol := series.Column
		cfg.Series = append(cfg.Series, chart.Series[frame.Row]{
			Y:     func(r frame.Row) float64 { return r.Number(yCol, math.NaN()) },
			Label: series.Label,
			Color: series.Color,
		})
	}

	if s.Cursor != nil {
		cfg.Cursor = &chart.CursorStyle{
			Color:    s.Cursor.Color,
			DotColor: s.Cursor.DotColor,
			DotSize:  s.Cursor.DotSize,
		}
	}
	return cfg
}

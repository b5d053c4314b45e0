package chartspec_test

import (
	"math"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/henne90gen/dfplot/internal/chart"
	"github.com/henne90gen/dfplot/internal/chartspec"
	"github.com/henne90gen/dfplot/internal/frame"
)

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/charts/loss.yaml", `
title: Training loss
data: loss.json
mark: line
x:
  column: step
  kind: value
series:
  - column: loss
    label: Loss
    color: "#ff0000"
  - column: val_loss
yMin: 0
yMax: 2
width: 800
height: 400
cursor:
  color: "#888888"
  dotColor: "#ff5555"
`)

	spec, err := chartspec.Load(fsys, "/charts/loss.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Training loss", spec.Title)
	assert.Equal(t, "loss.json", spec.Data)
	assert.Equal(t, chartspec.MarkLine, spec.Mark)
	assert.Equal(t, "step", spec.X.Column)
	assert.Equal(t, chartspec.KindValue, spec.X.Kind)

	require.Len(t, spec.Series, 2)
	assert.Equal(t, "Loss", spec.Series[0].Label)
	assert.Equal(t, "#ff0000", spec.Series[0].Color)
	assert.Equal(t, "val_loss", spec.Series[1].Label, "label falls back to the column name")

	require.NotNil(t, spec.YMin)
	require.NotNil(t, spec.YMax)
	assert.Equal(t, 0.0, *spec.YMin)
	assert.Equal(t, 2.0, *spec.YMax)
	assert.Equal(t, 800.0, spec.Width)
	assert.Equal(t, 400.0, spec.Height)

	require.NotNil(t, spec.Cursor)
	assert.Equal(t, "#888888", spec.Cursor.Color)
	assert.Equal(t, 3.0, spec.Cursor.DotSize, "dot size falls back to the default")
}

func TestLoad_Defaults(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/minimal.yaml", `
data: table.json
x:
  column: step
series:
  - column: loss
`)

	spec, err := chartspec.Load(fsys, "/minimal.yaml")
	require.NoError(t, err)

	assert.Equal(t, chartspec.MarkLine, spec.Mark)
	assert.Equal(t, chartspec.KindValue, spec.X.Kind)
	assert.Equal(t, 600.0, spec.Width)
	assert.Equal(t, 300.0, spec.Height)
	assert.Nil(t, spec.YMin)
	assert.Nil(t, spec.YMax)
	assert.Nil(t, spec.Cursor)
}

func TestLoad_MissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := chartspec.Load(fsys, "/nope.yaml")

	assert.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/bad.yaml", "series: [}")

	_, err := chartspec.Load(fsys, "/bad.yaml")

	assert.ErrorContains(t, err, "parse")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "no data file",
			content: "x: {column: step}\nseries: [{column: loss}]",
			wantErr: "missing data file",
		},
		{
			name:    "unknown mark",
			content: "data: t.json\nmark: pie\nx: {column: step}\nseries: [{column: loss}]",
			wantErr: `unsupported mark "pie"`,
		},
		{
			name:    "no x column",
			content: "data: t.json\nseries: [{column: loss}]",
			wantErr: "missing x column",
		},
		{
			name:    "unknown x kind",
			content: "data: t.json\nx: {column: step, kind: radial}\nseries: [{column: loss}]",
			wantErr: `unsupported x kind "radial"`,
		},
		{
			name:    "bar over continuous axis",
			content: "data: t.json\nmark: bar\nx: {column: step, kind: value}\nseries: [{column: loss}]",
			wantErr: `bar charts need x kind "band"`,
		},
		{
			name:    "line over band axis",
			content: "data: t.json\nmark: line\nx: {column: region, kind: band}\nseries: [{column: sales}]",
			wantErr: "line charts need x kind",
		},
		{
			name:    "no series",
			content: "data: t.json\nx: {column: step}",
			wantErr: "missing series",
		},
		{
			name:    "series without column",
			content: "data: t.json\nx: {column: step}\nseries: [{label: Loss}]",
			wantErr: "series 0: missing column",
		},
		{
			name:    "inverted y bounds",
			content: "data: t.json\nx: {column: step}\nseries: [{column: loss}]\nyMin: 2\nyMax: 1",
			wantErr: "must be below",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "/spec.yaml", tt.content)

			_, err := chartspec.Load(fsys, "/spec.yaml")

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDataPath(t *testing.T) {
	spec := &chartspec.Spec{Data: "../data/loss.json"}
	assert.Equal(t, "/data/loss.json", spec.DataPath("/charts/loss.yaml"))

	spec = &chartspec.Spec{Data: "/abs/loss.json"}
	assert.Equal(t, "/abs/loss.json", spec.DataPath("/charts/loss.yaml"))
}

func TestLoadData(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/charts/loss.yaml", `
data: ../data/loss.json
x:
  column: step
series:
  - column: loss
`)
	writeFile(t, fsys, "/data/loss.json",
		`{"data": [{"step": 0, "loss": 1.5}, {"step": 1, "loss": 1.0}]}`)

	spec, err := chartspec.Load(fsys, "/charts/loss.yaml")
	require.NoError(t, err)

	f, err := spec.LoadData(fsys, "/charts/loss.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, 1.5, f.At(0).Number("loss", 0))
}

func TestLoadData_MissingFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	spec := &chartspec.Spec{Data: "gone.json"}

	_, err := spec.LoadData(fsys, "/charts/loss.yaml")

	assert.ErrorContains(t, err, "gone.json")
}

func TestLoadDataFrom(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "/elsewhere/run2.json",
		`{"data": [{"step": 0, "loss": 3.0}]}`)
	spec := &chartspec.Spec{Data: "loss.json"}

	f, err := spec.LoadDataFrom(fsys, "/elsewhere/run2.json")
	require.NoError(t, err)
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, 3.0, f.At(0).Number("loss", 0))
}

func TestCheckColumns(t *testing.T) {
	spec := &chartspec.Spec{
		X:      chartspec.XSpec{Column: "step"},
		Series: []chartspec.SeriesSpec{{Column: "loss"}},
	}

	t.Run("against schema", func(t *testing.T) {
		schema := &frame.Schema{Fields: []frame.Field{
			{Name: "step", Type: "integer"},
			{Name: "loss", Type: "number"},
		}}
		f := frame.NewWithSchema([]frame.Row{}, schema)

		assert.NoError(t, spec.CheckColumns(f))
	})

	t.Run("missing from schema", func(t *testing.T) {
		schema := &frame.Schema{Fields: []frame.Field{
			{Name: "step", Type: "integer"},
		}}
		f := frame.NewWithSchema([]frame.Row{}, schema)

		assert.ErrorContains(t, spec.CheckColumns(f), `column "loss" not found`)
	})

	t.Run("against first row", func(t *testing.T) {
		f := frame.New([]frame.Row{{"step": int64(0), "loss": 1.5}})

		assert.NoError(t, spec.CheckColumns(f))
	})

	t.Run("missing from rows", func(t *testing.T) {
		f := frame.New([]frame.Row{{"step": int64(0)}})

		assert.ErrorContains(t, spec.CheckColumns(f), `column "loss" not found`)
	})

	t.Run("empty data passes", func(t *testing.T) {
		assert.NoError(t, spec.CheckColumns(frame.Frame[frame.Row]{}))
	})
}

func TestConfig(t *testing.T) {
	rows := []frame.Row{
		{"step": int64(0), "loss": 1.5, "when": "2019-01-02T00:00:00.000", "region": "north"},
		{"step": int64(1), "loss": 1.0, "when": "2019-01-03T00:00:00.000", "region": "south"},
	}
	f := frame.New(rows)

	t.Run("value axis", func(t *testing.T) {
		spec := &chartspec.Spec{
			Data:   "t.json",
			X:      chartspec.XSpec{Column: "step"},
			Series: []chartspec.SeriesSpec{{Column: "loss", Color: "#ff0000"}},
		}
		spec.Normalize()

		cfg := spec.Config(f)
		c := chart.New(cfg)

		_, ok := c.XScale().(chart.ValueScale)
		assert.True(t, ok)
		require.Len(t, cfg.Series, 1)
		assert.Equal(t, "loss", cfg.Series[0].Label)
		assert.Equal(t, "#ff0000", cfg.Series[0].Color)
		assert.Equal(t, 1.5, cfg.Series[0].Y(rows[0]))
	})

	t.Run("time axis", func(t *testing.T) {
		spec := &chartspec.Spec{
			Data:   "t.json",
			X:      chartspec.XSpec{Column: "when", Kind: chartspec.KindTime},
			Series: []chartspec.SeriesSpec{{Column: "loss"}},
		}
		spec.Normalize()

		c := chart.New(spec.Config(f))

		_, ok := c.XScale().(chart.TimeScale)
		assert.True(t, ok)
	})

	t.Run("band axis", func(t *testing.T) {
		spec := &chartspec.Spec{
			Data:   "t.json",
			Mark:   chartspec.MarkBar,
			X:      chartspec.XSpec{Column: "region", Kind: chartspec.KindBand},
			Series: []chartspec.SeriesSpec{{Column: "loss"}},
		}
		spec.Normalize()

		c := chart.New(spec.Config(f))

		band, ok := c.XScale().(chart.BandScale)
		require.True(t, ok)
		assert.Equal(t, []string{"north", "south"}, band.Keys())
	})

	t.Run("missing column yields no point", func(t *testing.T) {
		spec := &chartspec.Spec{
			Data:   "t.json",
			X:      chartspec.XSpec{Column: "step"},
			Series: []chartspec.SeriesSpec{{Column: "nope"}},
		}
		spec.Normalize()

		cfg := spec.Config(f)

		assert.True(t, math.IsNaN(cfg.Series[0].Y(rows[0])))
	})

	t.Run("cursor and bounds carry over", func(t *testing.T) {
		yMin, yMax := 0.0, 2.0
		spec := &chartspec.Spec{
			Data:   "t.json",
			X:      chartspec.XSpec{Column: "step"},
			Series: []chartspec.SeriesSpec{{Column: "loss"}},
			YMin:   &yMin,
			YMax:   &yMax,
			Cursor: &chartspec.CursorSpec{Color: "#888888", DotColor: "#ff5555"},
		}
		spec.Normalize()

		cfg := spec.Config(f)

		require.NotNil(t, cfg.Cursor)
		assert.Equal(t, "#888888", cfg.Cursor.Color)
		assert.Equal(t, 3.0, cfg.Cursor.DotSize)
		require.NotNil(t, cfg.YMin)
		assert.Equal(t, 0.0, *cfg.YMin)
	})
}

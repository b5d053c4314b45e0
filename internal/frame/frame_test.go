package frame_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/henne90gen/dfplot/internal/frame"
)

func TestFrame_PreservesRowOrder(t *testing.T) {
	f := frame.New([]int{3, 1, 2})

	assert.Equal(t, 3, f.Len())
	assert.Equal(t, []int{3, 1, 2}, f.Rows())
	assert.Equal(t, 1, f.At(1))
}

func TestFrame_IsolatedFromInputSlice(t *testing.T) {
	rows := []int{1, 2, 3}
	f := frame.New(rows)

	rows[0] = 99

	assert.Equal(t, []int{1, 2, 3}, f.Rows())
}

func TestFrame_Filter(t *testing.T) {
	schema := &frame.Schema{Fields: []frame.Field{{Name: "x", Type: "integer"}}}
	f := frame.NewWithSchema([]int{1, 2, 3, 4}, schema)

	even := f.Filter(func(v int) bool { return v%2 == 0 })

	assert.Equal(t, []int{2, 4}, even.Rows())
	assert.Equal(t, schema, even.Schema(), "filter should keep the schema")
	assert.Equal(t, []int{1, 2, 3, 4}, f.Rows(), "filter must not mutate the source")
}

func TestFrame_Map(t *testing.T) {
	f := frame.New([]int{1, 2, 3})

	doubled := frame.Map(f, func(v int) float64 { return float64(v) * 2 })

	assert.Equal(t, []float64{2, 4, 6}, doubled.Rows())
}

func TestSchema_Field(t *testing.T) {
	s := &frame.Schema{Fields: []frame.Field{
		{Name: "date", Type: "datetime"},
		{Name: "value", Type: "number"},
	}}

	f, ok := s.Field("value")
	assert.True(t, ok)
	assert.Equal(t, "number", f.Type)

	_, ok = s.Field("missing")
	assert.False(t, ok)
}

func TestRow_Number(t *testing.T) {
	row := frame.Row{"f": 1.5, "i": int64(7), "s": "nope"}

	assert.Equal(t, 1.5, row.Number("f", 0))
	assert.Equal(t, 7.0, row.Number("i", 0))
	assert.Equal(t, -1.0, row.Number("s", -1), "non-numeric column falls back to default")
	assert.Equal(t, -1.0, row.Number("missing", -1))
}

func TestRow_Time(t *testing.T) {
	row := frame.Row{
		"iso":   "2019-01-02T03:04:05.000Z",
		"naive": "2019-01-02T03:04:05.000",
		"date":  "2019-01-02",
		"ms":    int64(1546398245000),
		"bad":   "not a time",
	}
	want := time.Date(2019, 1, 2, 3, 4, 5, 0, time.UTC)
	def := time.Unix(0, 0).UTC()

	assert.True(t, row.Time("iso", def).Equal(want))
	assert.True(t, row.Time("naive", def).Equal(want))
	assert.True(t, row.Time("date", def).Equal(time.Date(2019, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.True(t, row.Time("ms", def).Equal(want))
	assert.True(t, row.Time("bad", def).Equal(def))
	assert.True(t, row.Time("missing", def).Equal(def))
}

func TestRow_StringIntBool(t *testing.T) {
	row := frame.Row{"s": "abc", "i": int64(3), "f": 2.9, "b": true}

	assert.Equal(t, "abc", row.String("s", ""))
	assert.Equal(t, "x", row.String("missing", "x"))
	assert.Equal(t, 3, row.Int("i", 0))
	assert.Equal(t, 2, row.Int("f", 0))
	assert.Equal(t, true, row.Bool("b", false))
	assert.Equal(t, true, row.Bool("missing", true))
}

func TestRow_Key(t *testing.T) {
	row := frame.Row{"s": "north", "i": int64(2019), "f": 2.5, "b": false}

	assert.Equal(t, "north", row.Key("s"))
	assert.Equal(t, "2019", row.Key("i"), "numeric categories format as text")
	assert.Equal(t, "2.5", row.Key("f"))
	assert.Equal(t, "false", row.Key("b"))
	assert.Equal(t, "", row.Key("missing"))
}

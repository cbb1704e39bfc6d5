package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCell(t *testing.T) {
	assert.False(t, NewCell("").Valid, "empty field is missing")
	assert.True(t, NewCell(" ").Valid, "whitespace is a value until a cleaning rule says otherwise")
	assert.Equal(t, "x", NewCell("x").Raw)
}

func TestNewTableRejectsBadHeaders(t *testing.T) {
	_, err := NewTable(nil)
	assert.Error(t, err)

	_, err = NewTable([]string{"a", "b", "a"})
	assert.Error(t, err)
}

func TestAppendRowPadsAndTruncates(t *testing.T) {
	table, err := NewTable([]string{"a", "b", "c"})
	require.NoError(t, err)

	table.AppendRow([]string{"1"})
	table.AppendRow([]string{"1", "2", "3", "4"})

	assert.Equal(t, 2, table.RowCount())

	b, _ := table.Column("b")
	assert.False(t, b[0].Valid)
	assert.Equal(t, "2", b[1].Raw)

	c, _ := table.Column("c")
	assert.Equal(t, "3", c[1].Raw)
}

func TestSeriesValues(t *testing.T) {
	s := Series{
		Kind:  KindNumeric,
		Nums:  []float64{1, 0, 3},
		Valid: []bool{true, false, true},
	}

	assert.Equal(t, []float64{1, 3}, s.Values())
	assert.Equal(t, 2, s.NonMissing())
	assert.Equal(t, 1, s.Missing())
}

func TestFrameAddColumnChecks(t *testing.T) {
	f := NewFrame(2)
	s := Series{Kind: KindText, Text: []string{"x", "y"}, Valid: []bool{true, true}}

	require.NoError(t, f.AddColumn("a", s))
	assert.Error(t, f.AddColumn("a", s), "duplicate column")

	short := Series{Kind: KindText, Text: []string{"x"}, Valid: []bool{true}}
	assert.Error(t, f.AddColumn("b", short), "length mismatch")
}

package tabular

import "fmt"

// SeriesKind discriminates how a cleaned column is typed.
type SeriesKind string

const (
	KindNumeric SeriesKind = "float64"
	KindText    SeriesKind = "object"
)

// Series is one cleaned column. Valid[i] reports whether row i holds a value;
// Nums/Text are only meaningful where Valid is true. A numeric series uses
// Nums, a text series uses Text.
type Series struct {
	Kind  SeriesKind
	Nums  []float64
	Text  []string
	Valid []bool
}

// Len returns the row count of the series.
func (s Series) Len() int {
	return len(s.Valid)
}

// NonMissing returns the count of valid values.
func (s Series) NonMissing() int {
	n := 0
	for _, v := range s.Valid {
		if v {
			n++
		}
	}
	return n
}

// Missing returns the count of missing values.
func (s Series) Missing() int {
	return s.Len() - s.NonMissing()
}

// Values returns the valid numeric values of a numeric series, in row order.
func (s Series) Values() []float64 {
	if s.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(s.Nums))
	for i, ok := range s.Valid {
		if ok {
			out = append(out, s.Nums[i])
		}
	}
	return out
}

// Frame is a cleaned record set: ordered, typed, canonically named columns.
// Rows are never dropped during cleaning, so every series has the same length.
type Frame struct {
	names []string
	cols  map[string]Series
	rows  int
}

// NewFrame creates an empty frame expecting the given row count.
func NewFrame(rows int) *Frame {
	return &Frame{
		cols: make(map[string]Series),
		rows: rows,
	}
}

// AddColumn appends a named series to the frame.
func (f *Frame) AddColumn(name string, s Series) error {
	if _, dup := f.cols[name]; dup {
		return fmt.Errorf("duplicate column name %q", name)
	}
	if s.Len() != f.rows {
		return fmt.Errorf("column %q has %d rows, frame expects %d", name, s.Len(), f.rows)
	}
	f.names = append(f.names, name)
	f.cols[name] = s
	return nil
}

// ColumnNames returns the column names in order.
func (f *Frame) ColumnNames() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// Column returns the named series.
func (f *Frame) Column(name string) (Series, bool) {
	s, ok := f.cols[name]
	return s, ok
}

// RowCount returns the number of rows.
func (f *Frame) RowCount() int {
	return f.rows
}

// ColumnCount returns the number of columns.
func (f *Frame) ColumnCount() int {
	return len(f.names)
}

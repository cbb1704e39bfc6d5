// Package tabular holds the column-oriented table types the ingestion and
// analysis layers exchange. A Table carries raw cells exactly as parsed from
// the source file; a Frame carries cleaned, typed series.
package tabular

import "fmt"

// Cell is a single raw value. Missing cells (empty CSV fields, absent Excel
// cells) have Valid=false.
type Cell struct {
	Raw   string
	Valid bool
}

// NewCell builds a cell from a raw field. Only a truly empty field is
// missing; whitespace-only values stay valid here and are normalized away
// later, per column, by the cleaning rules.
func NewCell(raw string) Cell {
	if raw == "" {
		return Cell{}
	}
	return Cell{Raw: raw, Valid: true}
}

// Table is an ordered collection of named raw columns. Column names are kept
// exactly as supplied by the source file.
type Table struct {
	names []string
	cols  map[string][]Cell
	rows  int
}

// NewTable creates an empty table with the given header row.
func NewTable(headers []string) (*Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("table must have at least one column")
	}
	t := &Table{
		names: make([]string, len(headers)),
		cols:  make(map[string][]Cell, len(headers)),
	}
	for i, h := range headers {
		if _, dup := t.cols[h]; dup {
			return nil, fmt.Errorf("duplicate column name %q", h)
		}
		t.names[i] = h
		t.cols[h] = nil
	}
	return t, nil
}

// AppendRow adds one row of raw fields. Short rows are padded with missing
// cells and long rows truncated, matching how ragged spreadsheet rows read.
func (t *Table) AppendRow(fields []string) {
	for i, name := range t.names {
		var c Cell
		if i < len(fields) {
			c = NewCell(fields[i])
		}
		t.cols[name] = append(t.cols[name], c)
	}
	t.rows++
}

// ColumnNames returns the header names in source order.
func (t *Table) ColumnNames() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Column returns the cells of the named column.
func (t *Table) Column(name string) ([]Cell, bool) {
	cells, ok := t.cols[name]
	return cells, ok
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int {
	return len(t.names)
}

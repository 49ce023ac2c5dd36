// Package report renders plans as aligned, optionally coloured tables.
package report

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc is a callback to colourise a cell value
type FormatFunc func(value string) string

// ColumnSpec defines a column's properties
type ColumnSpec struct {
	Header     string
	FormatFunc FormatFunc // Optional colouriser, applied after width calculation
	AlignRight bool
}

// Table is a column aligned text table
type Table struct {
	columns []ColumnSpec
	rows    [][]string
	widths  []int
}

// NewTable creates a new table with the given column specifications
func NewTable(cols ...ColumnSpec) *Table {
	t := &Table{
		columns: cols,
		widths:  make([]int, len(cols)),
	}
	for i, col := range cols {
		t.widths[i] = len(col.Header)
	}
	return t
}

// AddRow adds a row. Missing cells are rendered as "-".
func (t *Table) AddRow(data ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(data) && data[i] != "" {
			row[i] = data[i]
		} else {
			row[i] = "-"
		}
		t.widths[i] = max(t.widths[i], len(row[i]))
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w
func (t *Table) Render(w io.Writer) error {
	headers := make([]string, len(t.columns))
	sep := make([]string, len(t.columns))
	for i, col := range t.columns {
		headers[i] = t.pad(col.Header, i)
		sep[i] = strings.Repeat("-", t.widths[i])
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(headers, "  "), " ")); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Join(sep, "  ")); err != nil {
		return err
	}

	for _, row := range t.rows {
		formatted := make([]string, len(row))
		for i, val := range row {
			cell := t.pad(val, i)
			if f := t.columns[i].FormatFunc; f != nil {
				// colour only the text, padding stays plain
				cell = strings.Replace(cell, val, f(val), 1)
			}
			formatted[i] = cell
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(formatted, "  "), " ")); err != nil {
			return err
		}
	}

	return nil
}

func (t *Table) pad(s string, col int) string {
	fill := t.widths[col] - len(s)
	if fill <= 0 {
		return s
	}
	if t.columns[col].AlignRight {
		return strings.Repeat(" ", fill) + s
	}
	return s + strings.Repeat(" ", fill)
}

// Package table provides the in-memory tabular representation shared by the
// pipeline stages. Tables are read from and written as CSV, the handoff format
// between the upstream cleaner, the labeling stage, and the trainer.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// SchemaError reports a required column missing from an input table.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("input table missing required column %q", e.Column)
}

// Table is a column-indexed table of string cells. Rows preserve the input
// column order so the labeled output carries every input column through.
type Table struct {
	Header []string
	Rows   [][]string

	index map[string]int
}

// New creates a Table with the given header and no rows.
func New(header []string) *Table {
	t := &Table{Header: append([]string(nil), header...)}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		t.index[h] = i
	}
}

// Col returns the index of the named column.
func (t *Table) Col(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Require checks that all named columns are present, returning a SchemaError
// naming the first missing one.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if _, ok := t.index[n]; !ok {
			return &SchemaError{Column: n}
		}
	}
	return nil
}

// Cell returns the cell at (row, column name), or "" when the column is
// absent or the row is ragged.
func (t *Table) Cell(row int, name string) string {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][i]
}

// SetCell writes the cell at (row, column name). Unknown columns are ignored.
func (t *Table) SetCell(row int, name, value string) {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return
	}
	t.Rows[row][i] = value
}

// Float parses the cell at (row, column name) as a float64.
// Empty cells and parse failures report ok=false.
func (t *Table) Float(row int, name string) (float64, bool) {
	s := t.Cell(row, name)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// AppendColumn adds a column with one value per existing row.
func (t *Table) AppendColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("append column %q: %d values for %d rows", name, len(values), len(t.Rows))
	}
	if _, ok := t.index[name]; ok {
		return fmt.Errorf("append column %q: column already exists", name)
	}
	t.Header = append(t.Header, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], values[i])
	}
	t.reindex()
	return nil
}

// AppendRow adds a row, which must match the header width.
func (t *Table) AppendRow(row []string) error {
	if len(row) != len(t.Header) {
		return fmt.Errorf("append row: %d cells for %d columns", len(row), len(t.Header))
	}
	t.Rows = append(t.Rows, row)
	return nil
}

// CloneRow returns a copy of the given row's cells.
func (t *Table) CloneRow(row int) []string {
	return append([]string(nil), t.Rows[row]...)
}

// NumericColumns returns, in header order, the columns whose every non-empty
// cell parses as a float and which contain at least one non-empty cell.
// Columns named in exclude are skipped.
func (t *Table) NumericColumns(exclude map[string]bool) []string {
	var cols []string
	for i, name := range t.Header {
		if exclude[name] {
			continue
		}
		numeric := false
		ok := true
		for _, row := range t.Rows {
			if i >= len(row) || row[i] == "" {
				continue
			}
			if _, err := strconv.ParseFloat(row[i], 64); err != nil {
				ok = false
				break
			}
			numeric = true
		}
		if ok && numeric {
			cols = append(cols, name)
		}
	}
	return cols
}

// Read parses CSV data into a Table. The first record is the header.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	all, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("read csv: no header row")
	}

	t := New(all[0])
	for _, row := range all[1:] {
		// Pad ragged rows so column access stays positional.
		for len(row) < len(t.Header) {
			row = append(row, "")
		}
		t.Rows = append(t.Rows, row[:len(t.Header)])
	}
	return t, nil
}

// Write serializes the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

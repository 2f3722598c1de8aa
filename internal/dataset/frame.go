// Package dataset holds the tabular data plumbing used by training: a small
// string-cell frame, CSV reading, the visit/patient join and train/test splits.
package dataset

import (
	"fmt"
	"strings"
)

// Frame is an ordered set of named columns over rows of string cells.
// Cells are kept as text; the preprocess package decides how to parse them.
type Frame struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// ColumnNotFoundError reports a reference to a column the frame does not have.
type ColumnNotFoundError struct{ Column string }

func (e ColumnNotFoundError) Error() string { return "column not found: " + e.Column }

// NewFrame builds a frame and validates that every row has one cell per column.
func NewFrame(columns []string, rows [][]string) (*Frame, error) {
	f := &Frame{Columns: append([]string(nil), columns...), Rows: rows}
	f.reindex()
	if len(f.index) != len(f.Columns) {
		return nil, fmt.Errorf("duplicate column names in %v", columns)
	}
	for i, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d: %d cells, want %d", i, len(r), len(columns))
		}
	}
	return f, nil
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.Columns))
	for i, c := range f.Columns {
		f.index[c] = i
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int { return len(f.Rows) }

// ColumnIndex returns the position of column name.
func (f *Frame) ColumnIndex(name string) (int, bool) {
	if f.index == nil {
		f.reindex()
	}
	i, ok := f.index[name]
	return i, ok
}

// Has reports whether the frame has the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.ColumnIndex(name)
	return ok
}

// Column returns a copy of the named column's cells.
func (f *Frame) Column(name string) ([]string, error) {
	j, ok := f.ColumnIndex(name)
	if !ok {
		return nil, ColumnNotFoundError{Column: name}
	}
	out := make([]string, len(f.Rows))
	for i, r := range f.Rows {
		out[i] = r[j]
	}
	return out, nil
}

// Select projects the frame onto columns, in the given order.
func (f *Frame) Select(columns []string) (*Frame, error) {
	idx := make([]int, len(columns))
	for k, c := range columns {
		j, ok := f.ColumnIndex(c)
		if !ok {
			return nil, ColumnNotFoundError{Column: c}
		}
		idx[k] = j
	}
	rows := make([][]string, len(f.Rows))
	for i, r := range f.Rows {
		row := make([]string, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		rows[i] = row
	}
	return NewFrame(columns, rows)
}

// Take returns a frame with the rows at the given positions, in that order.
// Rows are shared with f, not copied.
func (f *Frame) Take(positions []int) *Frame {
	rows := make([][]string, len(positions))
	for k, p := range positions {
		rows[k] = f.Rows[p]
	}
	out := &Frame{Columns: f.Columns, Rows: rows}
	out.reindex()
	return out
}

// Filter keeps the rows for which keep returns true.
func (f *Frame) Filter(keep func(row []string) bool) *Frame {
	var positions []int
	for i, r := range f.Rows {
		if keep(r) {
			positions = append(positions, i)
		}
	}
	return f.Take(positions)
}

// IsMissing reports whether a cell counts as a missing value.
func IsMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "nan", "null", "none", "<na>":
		return true
	}
	return false
}

// DropMissing removes rows whose value in column is missing.
func DropMissing(f *Frame, column string) (*Frame, error) {
	j, ok := f.ColumnIndex(column)
	if !ok {
		return nil, ColumnNotFoundError{Column: column}
	}
	return f.Filter(func(r []string) bool { return !IsMissing(r[j]) }), nil
}

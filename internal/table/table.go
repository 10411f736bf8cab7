package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Row is one record. A nil cell is a missing value.
type Row []*string

// Table is an in-memory, column-named, row-ordered dataset.
// Row order is stable: stages that filter or rebuild rows document the
// order they produce.
type Table struct {
	Columns []string
	Rows    []Row
	index   map[string]int
}

// New creates a Table over the given header and rows. Rows are not copied.
func New(columns []string, rows []Row) *Table {
	t := &Table{Columns: columns, Rows: rows}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		t.index[c] = i
	}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the named column.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// MustIndex is Index for columns the caller has already validated.
func (t *Table) MustIndex(name string) int {
	i, ok := t.index[name]
	if !ok {
		panic(fmt.Sprintf("table: unknown column %q", name))
	}
	return i
}

// Missing returns the required columns absent from the table.
func (t *Table) Missing(required ...string) []string {
	var out []string
	for _, c := range required {
		if _, ok := t.index[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}

// DropColumns removes the named columns from the header and every row.
// Unknown names are ignored. Returns the number of columns removed.
func (t *Table) DropColumns(names ...string) int {
	drop := make(map[int]bool, len(names))
	for _, n := range names {
		if i, ok := t.index[n]; ok {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return 0
	}

	cols := make([]string, 0, len(t.Columns)-len(drop))
	for i, c := range t.Columns {
		if !drop[i] {
			cols = append(cols, c)
		}
	}
	for r, row := range t.Rows {
		kept := make(Row, 0, len(cols))
		for i, v := range row {
			if !drop[i] {
				kept = append(kept, v)
			}
		}
		t.Rows[r] = kept
	}
	t.Columns = cols
	t.reindex()
	return len(drop)
}

// MapColumn replaces every cell of the named column with fn(cell).
// Returns false if the column does not exist.
func (t *Table) MapColumn(name string, fn func(*string) *string) bool {
	i, ok := t.index[name]
	if !ok {
		return false
	}
	for _, row := range t.Rows {
		row[i] = fn(row[i])
	}
	return true
}

// MapAll replaces every cell of every column with fn(cell).
func (t *Table) MapAll(fn func(*string) *string) {
	for _, row := range t.Rows {
		for i := range row {
			row[i] = fn(row[i])
		}
	}
}

// Filter keeps only the rows for which keep returns true, preserving order.
// Returns the number of rows removed.
func (t *Table) Filter(keep func(Row) bool) int {
	kept := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	removed := len(t.Rows) - len(kept)
	t.Rows = kept
	return removed
}

// Clone returns a deep copy of the table. Cell strings are immutable so only
// the pointers are copied.
func (t *Table) Clone() *Table {
	cols := append([]string(nil), t.Columns...)
	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = append(Row(nil), row...)
	}
	return New(cols, rows)
}

// Column returns a copy of the named column's cells.
func (t *Table) Column(name string) ([]*string, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	out := make([]*string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, true
}

// Str returns a pointer to s, for building cells.
func Str(s string) *string { return &s }

// Value dereferences a cell, returning "" for missing.
func Value(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// Number parses a cell as float64. ok is false for missing or unparseable cells.
func Number(v *string) (float64, bool) {
	if v == nil {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Package table holds the in-memory tabular structure shared by every loader
// and page: named columns over rows of typed cells.
package table

import (
	"math"
	"strconv"
	"strings"
)

// Kind classifies a cell.
type Kind uint8

// Cell kinds.
const (
	Null Kind = iota
	Text
	Number
)

// Value is a single typed cell. Text cells keep the raw source text; numeric
// cells come from typed sources (XLSX numeric cells, SQL numeric columns).
type Value struct {
	Kind Kind
	Text string
	Num  float64
}

// TextValue returns a text cell.
func TextValue(s string) Value { return Value{Kind: Text, Text: s} }

// NumberValue returns a numeric cell. NaN is stored as null.
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{Kind: Number, Num: f}
}

// IsNull reports whether the cell is missing.
func (v Value) IsNull() bool { return v.Kind == Null }

// String renders the cell as text. Null renders as "" and numbers use the
// shortest exact decimal form, so 2020 renders as "2020" and never "2020.0".
func (v Value) String() string {
	switch v.Kind {
	case Text:
		return v.Text
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// Table is a named set of rows. Column lookups are by exact name; call
// NormalizeColumns to make them trimmed and lower-cased.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]Value

	index map[string]int
}

// New creates an empty table with the given columns.
func New(name string, columns []string) *Table {
	t := &Table{Name: name, Columns: append([]string(nil), columns...)}
	t.reindex()
	return t
}

// FromRecords builds a table from a header row and text records. Empty
// fields become null cells. Short records are padded and long ones truncated.
func FromRecords(name string, header []string, records [][]string) *Table {
	t := New(name, header)
	for _, rec := range records {
		row := make([]Value, len(header))
		for i := range row {
			if i < len(rec) && strings.TrimSpace(rec[i]) != "" {
				row[i] = TextValue(rec[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(row []Value) {
	out := make([]Value, len(t.Columns))
	copy(out, row)
	t.Rows = append(t.Rows, out)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Index returns the position of a column or -1.
func (t *Table) Index(col string) int {
	if t == nil {
		return -1
	}
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[col]
	if !ok {
		return -1
	}
	return i
}

// Has reports whether the column exists.
func (t *Table) Has(col string) bool { return t.Index(col) >= 0 }

// Missing returns the subset of cols absent from the table, in order.
func (t *Table) Missing(cols ...string) []string {
	var out []string
	for _, c := range cols {
		if !t.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Value returns the cell at row/col, or a null cell when the column is absent.
func (t *Table) Value(row int, col string) Value {
	i := t.Index(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return Value{}
	}
	return t.Rows[row][i]
}

// String returns the cell at row/col as text.
func (t *Table) String(row int, col string) string {
	return t.Value(row, col).String()
}

// Set overwrites the cell at row/col. It is a no-op for unknown columns.
func (t *Table) Set(row int, col string, v Value) {
	i := t.Index(col)
	if i < 0 || row < 0 || row >= len(t.Rows) {
		return
	}
	t.Rows[row][i] = v
}

// Copy returns a deep copy. Cells are values, so copying the row slices is
// enough to make the copy independent.
func (t *Table) Copy() *Table {
	if t == nil {
		return nil
	}
	out := New(t.Name, t.Columns)
	out.Rows = make([][]Value, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = append([]Value(nil), r...)
	}
	return out
}

// Filter returns a new table holding the rows for which keep returns true.
// Row slices are shared with the receiver.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := New(t.Name, t.Columns)
	for i, r := range t.Rows {
		if keep(i) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// NormalizeColumns trims and lower-cases every column name in place.
func (t *Table) NormalizeColumns() {
	for i, c := range t.Columns {
		t.Columns[i] = NormalizeName(c)
	}
	t.reindex()
}

// NormalizeName is the column-name normalization applied to every table.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

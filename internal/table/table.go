package table

import (
	"strings"
)

// Optional is a value that may be missing
type Optional[T any] struct {
	Value T
	Valid bool
}

// Some wraps a present value
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Valid: true}
}

// None returns a missing value
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Column holds one value per data row. An absent column is nil.
type Column []Optional[string]

// Table is an immutable named sheet: a header row plus data rows.
type Table struct {
	name    string
	headers []string
	rows    [][]string
	index   map[string]int
}

// New builds a table and its case-insensitive header index. When two headers
// collide after lower-casing the later one wins.
func New(name string, headers []string, rows [][]string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[normalizeName(h)] = i
	}
	return &Table{
		name:    name,
		headers: append([]string(nil), headers...),
		rows:    rows,
		index:   index,
	}
}

// FromRows treats the first row as the header. Nil or empty input yields a
// table with no columns and no data rows.
func FromRows(name string, rows [][]string) *Table {
	if len(rows) == 0 {
		return New(name, nil, nil)
	}
	return New(name, rows[0], rows[1:])
}

// Name returns the sheet name
func (t *Table) Name() string {
	return t.name
}

// Headers returns a copy of the header row
func (t *Table) Headers() []string {
	return append([]string(nil), t.headers...)
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Lookup resolves a logical field name to a column index, ignoring case and
// surrounding whitespace. The second result is false when the table has no
// such column.
func (t *Table) Lookup(field string) (int, bool) {
	if t == nil {
		return 0, false
	}
	idx, ok := t.index[normalizeName(field)]
	return idx, ok
}

// Column returns the values of the named field, or nil when the field is absent.
// Blank cells and cells past the end of a short row are missing.
func (t *Table) Column(field string) Column {
	idx, ok := t.Lookup(field)
	if !ok {
		return nil
	}
	col := make(Column, len(t.rows))
	for i, row := range t.rows {
		if idx >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[idx]); v != "" {
			col[i] = Some(row[idx])
		}
	}
	return col
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package normalize

import (
	"jobsingest/internal/table"
)

// Prefer merges candidate columns in priority order. For each of the n rows
// the value comes from the first candidate with a present value at that row.
// Nil (absent) candidates are skipped; with no usable candidate the row is missing.
func Prefer(n int, cols ...table.Column) table.Column {
	out := make(table.Column, n)
	for i := range out {
		for _, col := range cols {
			if i < len(col) && col[i].Valid {
				out[i] = col[i]
				break
			}
		}
	}
	return out
}

// FillDefault replaces every missing value with def.
func FillDefault(col table.Column, def string) table.Column {
	out := make(table.Column, len(col))
	for i, v := range col {
		if v.Valid {
			out[i] = v
		} else {
			out[i] = table.Some(def)
		}
	}
	return out
}

// Package table holds the in-memory tabular snapshot the engine reduces over.
// Tables are column-indexed string grids; numeric coercion happens lazily per
// column so malformed cells degrade to NaN instead of failing a load.
package table

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is one immutable tabular input (a sample table or a mapped table).
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New builds a table from a header row and data rows. Short rows are padded
// so every row has one cell per column.
func New(columns []string, rows [][]string) *Table {
	t := &Table{Columns: columns, Rows: rows}
	t.index = make(map[string]int, len(columns))
	for i, c := range columns {
		t.index[strings.TrimSpace(c)] = i
	}
	for i, row := range t.Rows {
		for len(row) < len(columns) {
			row = append(row, "")
		}
		t.Rows[i] = row
	}
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColumnIndex returns the position of an exactly named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// FindColumn returns the first column whose trimmed name matches any of the
// candidates case-insensitively, or "" when none match.
func (t *Table) FindColumn(candidates ...string) string {
	if t == nil {
		return ""
	}
	for _, want := range candidates {
		for _, col := range t.Columns {
			if strings.EqualFold(strings.TrimSpace(col), strings.TrimSpace(want)) {
				return col
			}
		}
	}
	return ""
}

// Column returns the raw string cells of a column. Returns nil when the
// column is absent.
func (t *Table) Column(name string) []string {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out
}

// NumericColumn coerces a column to float64. Cells that are empty or fail to
// parse become NaN; coercion never errors.
func (t *Table) NumericColumn(name string) []float64 {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil
	}
	out := make([]float64, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = ParseCell(row[i])
	}
	return out
}

// ParseCell coerces one cell to float64, returning NaN for anything that is
// not a number.
func ParseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	// Excel exports sometimes carry thousands separators.
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Rename returns a copy of the table with one column renamed. Renaming a
// missing column is an error.
func (t *Table) Rename(from, to string) (*Table, error) {
	i := t.ColumnIndex(from)
	if i < 0 {
		return nil, eris.Errorf("table: column %q not found", from)
	}
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	cols[i] = to
	return New(cols, t.Rows), nil
}

// Select returns a new table containing only the rows at the given indices.
// Row slices are shared with the parent; tables are never mutated.
func (t *Table) Select(rows []int) *Table {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, t.Rows[r])
	}
	return New(t.Columns, out)
}

// Concat merges tables that may have different column sets into one table
// with the union of columns; missing cells are empty.
func Concat(tables ...*Table) *Table {
	var cols []string
	seen := make(map[string]bool)
	total := 0
	for _, t := range tables {
		if t == nil {
			continue
		}
		total += len(t.Rows)
		for _, c := range t.Columns {
			key := strings.TrimSpace(c)
			if !seen[key] {
				seen[key] = true
				cols = append(cols, c)
			}
		}
	}

	rows := make([][]string, 0, total)
	for _, t := range tables {
		if t == nil {
			continue
		}
		// Map source column positions into the merged layout.
		pos := make([]int, len(t.Columns))
		for i, c := range t.Columns {
			pos[i] = -1
			for j, mc := range cols {
				if strings.TrimSpace(mc) == strings.TrimSpace(c) {
					pos[i] = j
					break
				}
			}
		}
		for _, row := range t.Rows {
			merged := make([]string, len(cols))
			for i, cell := range row {
				if i < len(pos) && pos[i] >= 0 {
					merged[pos[i]] = cell
				}
			}
			rows = append(rows, merged)
		}
	}
	return New(cols, rows)
}

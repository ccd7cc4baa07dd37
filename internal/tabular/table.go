// Package tabular implements the query engine shared by every dataset tool:
// filtering with wildcard semantics, time-range resolution, group-by
// aggregation, sorting and top-N truncation over in-memory tables.
package tabular

import (
	"fmt"
	"strconv"
	"time"
)

// Table is an ordered collection of named columns with row-major storage.
// Cells hold string, int64, float64 or time.Time values. Source tables are
// loaded once and never mutated; every query begins with Clone.
type Table struct {
	cols []string
	rows [][]any
}

func New(cols ...string) *Table {
	return &Table{cols: append([]string(nil), cols...)}
}

// Append adds one row. The number of values must match the column count.
func (t *Table) Append(vals ...any) *Table {
	if len(vals) != len(t.cols) {
		panic(fmt.Sprintf("tabular: row has %d values, table has %d columns", len(vals), len(t.cols)))
	}
	t.rows = append(t.rows, append([]any(nil), vals...))
	return t
}

// Clone returns a deep copy of the row structure. Cell values are immutable
// value types and are shared.
func (t *Table) Clone() *Table {
	c := &Table{cols: append([]string(nil), t.cols...), rows: make([][]any, len(t.rows))}
	for i, r := range t.rows {
		c.rows[i] = append([]any(nil), r...)
	}
	return c
}

func (t *Table) Len() int          { return len(t.rows) }
func (t *Table) Columns() []string { return append([]string(nil), t.cols...) }

func (t *Table) HasColumn(name string) bool {
	_, ok := t.index(name)
	return ok
}

func (t *Table) index(name string) (int, bool) {
	for i, c := range t.cols {
		if c == name {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the value at (row, column name).
func (t *Table) Cell(row int, col string) any {
	i, ok := t.index(col)
	if !ok {
		return nil
	}
	return t.rows[row][i]
}

// Where returns the rows for which pred is true, as a new table.
func (t *Table) Where(pred func(row Row) bool) *Table {
	out := &Table{cols: append([]string(nil), t.cols...)}
	for _, r := range t.rows {
		if pred(Row{t: t, vals: r}) {
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Row is a lightweight view over one table row.
type Row struct {
	t    *Table
	vals []any
}

func (r Row) Get(col string) any {
	i, ok := r.t.index(col)
	if !ok {
		return nil
	}
	return r.vals[i]
}

// Float reports the cell as a float64, coercing integers and numeric
// strings. The second return is false for non-numeric cells.
func (r Row) Float(col string) (float64, bool) {
	return AsFloat(r.Get(col))
}

func (r Row) Time(col string) (time.Time, bool) {
	ts, ok := r.Get(col).(time.Time)
	return ts, ok
}

// Select projects the table onto the given columns, preserving their
// requested order. Unknown columns are an error.
func (t *Table) Select(cols ...string) (*Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		j, ok := t.index(c)
		if !ok {
			return nil, fmt.Errorf("no such column: %s", c)
		}
		idx[i] = j
	}
	out := &Table{cols: append([]string(nil), cols...), rows: make([][]any, len(t.rows))}
	for i, r := range t.rows {
		row := make([]any, len(idx))
		for k, j := range idx {
			row[k] = r[j]
		}
		out.rows[i] = row
	}
	return out, nil
}

// Rename changes a column name in place. Missing columns are ignored.
func (t *Table) Rename(old, new string) *Table {
	if i, ok := t.index(old); ok {
		t.cols[i] = new
	}
	return t
}

// Distinct returns the column's unique values in first-appearance order.
func (t *Table) Distinct(col string) []any {
	i, ok := t.index(col)
	if !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []any
	for _, r := range t.rows {
		k := canonical(r[i])
		if !seen[k] {
			seen[k] = true
			out = append(out, r[i])
		}
	}
	return out
}

// Column returns all values of one column.
func (t *Table) Column(col string) []any {
	i, ok := t.index(col)
	if !ok {
		return nil
	}
	out := make([]any, len(t.rows))
	for j, r := range t.rows {
		out[j] = r[i]
	}
	return out
}

// Floats returns the numeric values of a column, skipping cells that do not
// coerce to a number.
func (t *Table) Floats(col string) []float64 {
	i, ok := t.index(col)
	if !ok {
		return nil
	}
	out := make([]float64, 0, len(t.rows))
	for _, r := range t.rows {
		if f, ok := AsFloat(r[i]); ok {
			out = append(out, f)
		}
	}
	return out
}

// WithColumn appends a derived column computed per row.
func (t *Table) WithColumn(name string, fn func(row Row) any) *Table {
	out := &Table{cols: append(append([]string(nil), t.cols...), name), rows: make([][]any, len(t.rows))}
	for i, r := range t.rows {
		out.rows[i] = append(append([]any(nil), r...), fn(Row{t: t, vals: r}))
	}
	return out
}

// MapColumn rewrites one column through fn, returning a new table.
func (t *Table) MapColumn(col string, fn func(v any) any) *Table {
	i, ok := t.index(col)
	if !ok {
		return t
	}
	out := t.Clone()
	for _, r := range out.rows {
		r[i] = fn(r[i])
	}
	return out
}

// DropNull removes rows holding a nil cell in any of the given columns
// (all columns when none are given).
func (t *Table) DropNull(cols ...string) *Table {
	if len(cols) == 0 {
		cols = t.cols
	}
	return t.Where(func(r Row) bool {
		for _, c := range cols {
			if r.Get(c) == nil {
				return false
			}
		}
		return true
	})
}

// Dedup removes duplicate rows, keeping first occurrences.
func (t *Table) Dedup() *Table {
	seen := map[string]bool{}
	out := &Table{cols: append([]string(nil), t.cols...)}
	for _, r := range t.rows {
		k := ""
		for _, v := range r {
			k += canonical(v) + "\x1f"
		}
		if !seen[k] {
			seen[k] = true
			out.rows = append(out.rows, r)
		}
	}
	return out
}

// Records materializes the table as a list of maps, the shape every tool
// returns to the orchestration layer. The result is never nil.
func (t *Table) Records() []map[string]any {
	out := make([]map[string]any, len(t.rows))
	for i, r := range t.rows {
		m := make(map[string]any, len(t.cols))
		for j, c := range t.cols {
			v := r[j]
			if ts, ok := v.(time.Time); ok {
				v = ts.Format("2006-01-02T15:04:05")
			}
			m[c] = v
		}
		out[i] = m
	}
	return out
}

// AsFloat coerces a cell to float64. Numeric strings count; everything
// else does not.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// canonical maps a cell to a comparison key so that 2020 (int64) and
// 2020.0 (float64) filter identically.
func canonical(v any) string {
	switch x := v.(type) {
	case nil:
		return "z"
	case string:
		return "s:" + x
	case float64:
		return "n:" + strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return "n:" + strconv.FormatFloat(float64(x), 'g', -1, 64)
	case int:
		return "n:" + strconv.FormatFloat(float64(x), 'g', -1, 64)
	case bool:
		return "b:" + strconv.FormatBool(x)
	case time.Time:
		return "t:" + x.UTC().Format(time.RFC3339Nano)
	default:
		return "s:" + fmt.Sprint(x)
	}
}

// Format renders a cell the way it appears in diagnostic messages.
func Format(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return fmt.Sprint(x)
	}
}

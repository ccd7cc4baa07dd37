package tabular

import "sort"

// SortByNumeric orders rows by the given numeric columns, left to right,
// ascending or descending. The sort is stable so that equal keys keep
// their incoming order. Non-numeric cells sort last.
func SortByNumeric(t *Table, cols []string, ascending bool) *Table {
	idx := make([]int, 0, len(cols))
	for _, c := range cols {
		if i, ok := t.index(c); ok {
			idx = append(idx, i)
		}
	}
	out := t.Clone()
	sort.SliceStable(out.rows, func(a, b int) bool {
		for _, i := range idx {
			fa, oka := AsFloat(out.rows[a][i])
			fb, okb := AsFloat(out.rows[b][i])
			if !oka && !okb {
				continue
			}
			if oka != okb {
				return oka
			}
			if fa == fb {
				continue
			}
			if ascending {
				return fa < fb
			}
			return fa > fb
		}
		return false
	})
	return out
}

// Head returns the first n rows after sorting. Zero, absent or negative n
// means all rows.
func Head(t *Table, n int) *Table {
	if n <= 0 || n >= len(t.rows) {
		return t
	}
	out := &Table{cols: append([]string(nil), t.cols...), rows: t.rows[:n]}
	return out
}

// NumericColumns lists the columns whose first non-nil cell is numeric,
// in schema order. This is the default multi-column sort key.
func NumericColumns(t *Table) []string {
	var out []string
	for _, c := range t.cols {
		for i := 0; i < t.Len(); i++ {
			v := t.Cell(i, c)
			if v == nil {
				continue
			}
			if _, ok := v.(string); ok {
				break
			}
			if _, ok := AsFloat(v); ok {
				out = append(out, c)
			}
			break
		}
	}
	return out
}

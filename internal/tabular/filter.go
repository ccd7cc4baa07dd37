package tabular

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FilterValue is the normalized form of a tool parameter that may be
// absent, the wildcard "all", a scalar, or a list of scalars. Tools decode
// request arguments into FilterValue fields once; every later stage works
// with the tagged form instead of re-checking shapes.
type FilterValue struct {
	kind filterKind
	vals []any
}

type filterKind int

const (
	filterOmitted filterKind = iota
	filterAll
	filterValues
)

// All is the explicit wildcard value.
var All = FilterValue{kind: filterAll}

// Values builds a concrete filter from the given scalars.
func Values(vals ...any) FilterValue {
	return FilterValue{kind: filterValues, vals: vals}
}

func (v FilterValue) IsOmitted() bool { return v.kind == filterOmitted }
func (v FilterValue) IsAll() bool     { return v.kind == filterAll }

// IsConcrete reports whether the filter carries explicit values.
func (v FilterValue) IsConcrete() bool { return v.kind == filterValues && len(v.vals) > 0 }

// IsWildcard reports the "no effective filter" cases: omitted or "all".
func (v FilterValue) IsWildcard() bool { return !v.IsConcrete() }

// Values returns the requested scalars in request order.
func (v FilterValue) Values() []any { return v.vals }

// Strings renders the requested scalars for diagnostics, verbatim.
func (v FilterValue) Strings() []string {
	out := make([]string, len(v.vals))
	for i, x := range v.vals {
		out[i] = Format(x)
	}
	return out
}

func (v *FilterValue) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*v = normalize(raw)
	return nil
}

func normalize(raw any) FilterValue {
	switch x := raw.(type) {
	case nil:
		return FilterValue{}
	case string:
		if strings.EqualFold(x, "all") {
			return All
		}
		// Comma-separated scalars arrive from the model as one string.
		if strings.Contains(x, ",") {
			var vals []any
			for _, p := range strings.Split(x, ",") {
				vals = append(vals, strings.TrimSpace(p))
			}
			return FilterValue{kind: filterValues, vals: vals}
		}
		return FilterValue{kind: filterValues, vals: []any{x}}
	case []any:
		if len(x) == 0 {
			return FilterValue{}
		}
		return FilterValue{kind: filterValues, vals: x}
	default:
		return FilterValue{kind: filterValues, vals: []any{raw}}
	}
}

// Filter applies a membership filter to one column. Omitted and "all"
// leave the table untouched. Concrete values narrow the table to matching
// rows and report the requested values absent from the column's distinct
// set at this point in the pipeline; matching rows for the remaining
// values are still returned.
func Filter(t *Table, col string, v FilterValue) (*Table, []string) {
	if v.IsWildcard() {
		return t, nil
	}
	available := map[string]bool{}
	for _, d := range t.Distinct(col) {
		available[canonical(d)] = true
	}
	var missing []string
	want := map[string]bool{}
	for _, req := range v.vals {
		k := canonical(req)
		want[k] = true
		if !available[k] {
			missing = append(missing, Format(req))
		}
	}
	out := t.Where(func(r Row) bool { return want[canonical(r.Get(col))] })
	return out, missing
}

// FilterContains narrows string columns by case-insensitive substring
// match, the matching mode the global-carbon family of tools documents.
func FilterContains(t *Table, col, needle string) *Table {
	n := strings.ToLower(needle)
	return t.Where(func(r Row) bool {
		s, ok := r.Get(col).(string)
		return ok && strings.Contains(strings.ToLower(s), n)
	})
}

// FilterDomain is Filter for fields with a fixed legal domain (months,
// hours). Values inside the domain filter as usual; values outside it are
// reported separately and excluded from the effective filter.
func FilterDomain(t *Table, v FilterValue, lo, hi int, match func(r Row) (int, bool)) (*Table, []string) {
	if v.IsWildcard() {
		return t, nil
	}
	want := map[int]bool{}
	var incorrect []string
	for _, req := range v.vals {
		f, ok := AsFloat(req)
		n := int(f)
		if !ok || float64(n) != f || n < lo || n > hi {
			incorrect = append(incorrect, Format(req))
			continue
		}
		want[n] = true
	}
	out := t.Where(func(r Row) bool {
		n, ok := match(r)
		return ok && want[n]
	})
	return out, incorrect
}

// Messages accumulates the human-readable diagnostics returned alongside
// query data. Never a cause for failure.
type Messages []string

func (m *Messages) Addf(format string, args ...any) {
	*m = append(*m, fmt.Sprintf(format, args...))
}

func (m *Messages) Add(msg string) {
	*m = append(*m, msg)
}

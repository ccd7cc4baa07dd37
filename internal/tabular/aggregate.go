package tabular

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Method names a reduction applied to a numeric column.
type Method string

const (
	Mean   Method = "mean"
	Median Method = "median"
	Sum    Method = "sum"
	Var    Method = "var"
	Sem    Method = "sem"
	Min    Method = "min"
	Max    Method = "max"
	First  Method = "first"
	Last   Method = "last"
)

// ParseMethod validates a model-supplied aggregation name.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case Mean, Median, Sum, Var, Sem, Min, Max, First, Last:
		return Method(s), nil
	case "":
		return Mean, nil
	default:
		return "", fmt.Errorf("unknown aggregation method: %s", s)
	}
}

// Reduce collapses a series to one value. Variance follows the sample
// convention (ddof=1), matching the upstream datasets' published figures.
func Reduce(vals []float64, m Method) (float64, error) {
	if len(vals) == 0 {
		return 0, fmt.Errorf("aggregate %s: empty series", m)
	}
	switch m {
	case Mean:
		return stats.Mean(vals)
	case Median:
		return stats.Median(vals)
	case Sum:
		return stats.Sum(vals)
	case Var:
		return stats.SampleVariance(vals)
	case Sem:
		sd, err := stats.StandardDeviationSample(vals)
		if err != nil {
			return 0, err
		}
		return sd / math.Sqrt(float64(len(vals))), nil
	case Min:
		return stats.Min(vals)
	case Max:
		return stats.Max(vals)
	case First:
		return vals[0], nil
	case Last:
		return vals[len(vals)-1], nil
	default:
		return 0, fmt.Errorf("unknown aggregation method: %s", m)
	}
}

// GroupBy reduces every value column with m per distinct combination of
// the key columns. Output columns are the keys (in the given order)
// followed by the reduced value columns; groups are ordered by key, the
// way the source datasets present aggregates. A key column missing from
// the table is an error, which callers surface as an empty result.
func GroupBy(t *Table, keys []string, valueCols []string, m Method) (*Table, error) {
	for _, k := range keys {
		if !t.HasColumn(k) {
			return nil, fmt.Errorf("no such column: %s", k)
		}
	}
	for _, c := range valueCols {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("no such column: %s", c)
		}
	}

	type group struct {
		keyVals []any
		series  map[string][]float64
	}
	groups := map[string]*group{}
	var order []string
	for i := 0; i < t.Len(); i++ {
		gk := ""
		keyVals := make([]any, len(keys))
		for j, k := range keys {
			v := t.Cell(i, k)
			keyVals[j] = v
			gk += canonical(v) + "\x1f"
		}
		g, ok := groups[gk]
		if !ok {
			g = &group{keyVals: keyVals, series: map[string][]float64{}}
			groups[gk] = g
			order = append(order, gk)
		}
		for _, c := range valueCols {
			if f, ok := AsFloat(t.Cell(i, c)); ok {
				g.series[c] = append(g.series[c], f)
			}
		}
	}
	sort.Strings(order)

	out := New(append(append([]string(nil), keys...), valueCols...)...)
	for _, gk := range order {
		g := groups[gk]
		row := append([]any(nil), g.keyVals...)
		for _, c := range valueCols {
			v, err := Reduce(g.series[c], m)
			if err != nil {
				row = append(row, nil)
				continue
			}
			row = append(row, v)
		}
		out.Append(row...)
	}
	return out, nil
}

// Aggregate reduces the whole table to a single row over the given value
// columns, with no grouping.
func Aggregate(t *Table, valueCols []string, m Method) (*Table, error) {
	out := New(valueCols...)
	row := make([]any, len(valueCols))
	for i, c := range valueCols {
		if !t.HasColumn(c) {
			return nil, fmt.Errorf("no such column: %s", c)
		}
		v, err := Reduce(t.Floats(c), m)
		if err != nil {
			row[i] = nil
			continue
		}
		row[i] = v
	}
	out.Append(row...)
	return out, nil
}

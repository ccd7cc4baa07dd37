package tabular

import (
	"fmt"
	"sort"
	"time"
)

// ResolveYears turns (start, end, decade, interval) request parameters
// into the ordered list of years to operate on, for wide tables whose
// columns are year names. Precedence: interval over plain ranges, then
// start+end, single start, decade, and finally every available year.
// An empty result means no valid years and is terminal for the call.
func ResolveYears(available []int, startYear, endYear, decadeStart, interval int) []int {
	if len(available) == 0 {
		return nil
	}
	set := map[int]bool{}
	minYear, maxYear := available[0], available[0]
	for _, y := range available {
		set[y] = true
		if y < minYear {
			minYear = y
		}
		if y > maxYear {
			maxYear = y
		}
	}

	var years []int
	switch {
	case interval > 0:
		start, end := minYear, maxYear
		if startYear > 0 {
			start = max(startYear, minYear)
		}
		if endYear > 0 && startYear > 0 {
			end = min(endYear, maxYear)
		}
		for y := start; y <= end; y += interval {
			if set[y] {
				years = append(years, y)
			}
		}
	case startYear > 0 && endYear > 0:
		for y := startYear; y <= endYear; y++ {
			if set[y] {
				years = append(years, y)
			}
		}
	case startYear > 0:
		if set[startYear] {
			years = append(years, startYear)
		}
	case decadeStart > 0:
		for y := decadeStart; y < decadeStart+10; y++ {
			if set[y] {
				years = append(years, y)
			}
		}
	default:
		years = append(years, available...)
		sort.Ints(years)
	}
	return years
}

// YearColumns extracts the columns of a wide table that parse as years,
// as ints, in schema order.
func YearColumns(t *Table) []int {
	var out []int
	for _, c := range t.Columns() {
		var y int
		if _, err := fmt.Sscanf(c, "%d", &y); err == nil && fmt.Sprint(y) == c {
			out = append(out, y)
		}
	}
	return out
}

// ResampleLevel selects the bucket width for Resample.
type ResampleLevel string

const (
	Daily   ResampleLevel = "daily"
	Monthly ResampleLevel = "monthly"
	Yearly  ResampleLevel = "yearly"
)

// Resample buckets a long table's time column to the given level per key
// column combination and reduces the value column by mean. This is a
// resampling step, not a filter; it runs before any aggregation stage.
// Bucket labels replace the time column: a date string for daily, a
// "YYYY-MM" string for monthly and the year number for yearly.
func Resample(t *Table, timeCol string, level ResampleLevel, keyCols []string, valueCol string) (*Table, error) {
	bucket := func(ts time.Time) any {
		switch level {
		case Daily:
			return ts.Format("2006-01-02")
		case Monthly:
			return ts.Format("2006-01")
		case Yearly:
			return int64(ts.Year())
		}
		return nil
	}
	if level != Daily && level != Monthly && level != Yearly {
		return nil, fmt.Errorf("unknown merge level: %s", level)
	}
	if !t.HasColumn(timeCol) || !t.HasColumn(valueCol) {
		return nil, fmt.Errorf("resample needs %s and %s columns", timeCol, valueCol)
	}

	bucketed := New(append([]string{timeCol}, append(append([]string(nil), keyCols...), valueCol)...)...)
	for i := 0; i < t.Len(); i++ {
		ts, ok := t.Cell(i, timeCol).(time.Time)
		if !ok {
			continue
		}
		row := []any{bucket(ts)}
		for _, k := range keyCols {
			row = append(row, t.Cell(i, k))
		}
		row = append(row, t.Cell(i, valueCol))
		bucketed.Append(row...)
	}
	return GroupBy(bucketed, append([]string{timeCol}, keyCols...), []string{valueCol}, Mean)
}

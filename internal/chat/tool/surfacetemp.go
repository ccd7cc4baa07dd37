package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// SurfaceTemperatureTool answers get_surface_temperature_change over the
// wide climate indicators table, where each year is its own column. It
// supports plain retrieval plus three analysis modes: top-N ranking,
// threshold screening and a two-year difference comparison.
type SurfaceTemperatureTool struct {
	data *tabular.Table
}

func NewSurfaceTemperatureTool(data *tabular.Table) *SurfaceTemperatureTool {
	return &SurfaceTemperatureTool{data: data}
}

type SurfaceTemperatureRequest struct {
	Country             string   `json:"country"`
	StartYear           *int     `json:"start_year"`
	EndYear             *int     `json:"end_year"`
	DecadeStart         *int     `json:"decade_start"`
	Interval            *int     `json:"interval"`
	TopN                *int     `json:"top_n"`
	Threshold           *float64 `json:"threshold"`
	CompareStart        *int     `json:"compare_start_year"`
	CompareEnd          *int     `json:"compare_end_year"`
	DifferenceThreshold *float64 `json:"difference_threshold"`
	IncreaseOnly        *bool    `json:"increase_only"`
	Ascending           bool     `json:"ascending"`
	Command             string   `json:"command"`
}

func (t *SurfaceTemperatureTool) Name() string { return "get_surface_temperature_change" }

func (t *SurfaceTemperatureTool) Description() string {
	return "Query annual surface temperature change (degrees Celsius relative to a 1951-1980 baseline) per country " +
		"from 1961 to 2023. Select countries and year ranges, rank the top N countries, screen countries against a " +
		"threshold, or compare the change between two years."
}

func (t *SurfaceTemperatureTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]any{
				"type":        "string",
				"description": "Country or comma-separated list of countries to include. Omit for all countries.",
			},
			"start_year": map[string]any{"type": "integer", "description": "First year of the range."},
			"end_year":   map[string]any{"type": "integer", "description": "Last year of the range."},
			"decade_start": map[string]any{
				"type":        "integer",
				"description": "Start of a decade to query, e.g. 1990 for the 1990s.",
			},
			"interval": map[string]any{
				"type":        "integer",
				"description": "Number of years from start_year to include.",
			},
			"top_n": map[string]any{
				"type":        "integer",
				"description": "Return only the N countries with the largest (or smallest, if ascending) total change.",
			},
			"threshold": map[string]any{
				"type":        "number",
				"description": "Return countries whose mean change meets or exceeds this value.",
			},
			"compare_start_year": map[string]any{"type": "integer", "description": "Base year for a two-year comparison."},
			"compare_end_year":   map[string]any{"type": "integer", "description": "Target year for a two-year comparison."},
			"difference_threshold": map[string]any{
				"type":        "number",
				"description": "Minimum difference between the two compared years.",
			},
			"increase_only": map[string]any{
				"type":        "boolean",
				"description": "When comparing years, require the change to be an increase. Defaults to true.",
			},
			"ascending": map[string]any{"type": "boolean", "description": "Sort ascending instead of descending."},
			"command":   map[string]any{"type": "string", "description": "Free-form hint; ignored."},
		},
	}
}

func (t *SurfaceTemperatureTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req SurfaceTemperatureRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *SurfaceTemperatureTool) Run(req SurfaceTemperatureRequest) *tabular.StatusResult {
	if t.data.Len() == 0 {
		return tabular.Failure("No data available for the specified parameters.")
	}
	ft := t.data.Clone()

	if s := strings.TrimSpace(req.Country); s != "" {
		want := map[string]bool{}
		for _, c := range strings.Split(s, ",") {
			want[strings.ToLower(strings.TrimSpace(c))] = true
		}
		ft = ft.Where(func(r tabular.Row) bool {
			name, _ := r.Get("Country").(string)
			return want[strings.ToLower(name)]
		})
		if ft.Len() == 0 {
			return tabular.Failure("No data available for the specified country(s).")
		}
	}

	years := tabular.ResolveYears(tabular.YearColumns(ft), intOrZero(req.StartYear), intOrZero(req.EndYear), intOrZero(req.DecadeStart), intOrZero(req.Interval))
	if len(years) == 0 {
		return tabular.Failure("No valid years specified or years not found in the dataset.")
	}
	yearCols := make([]string, len(years))
	for i, y := range years {
		yearCols[i] = strconv.Itoa(y)
	}

	switch {
	case req.CompareStart != nil && req.CompareEnd != nil && req.DifferenceThreshold != nil:
		return compareYears(ft, *req.CompareStart, *req.CompareEnd, *req.DifferenceThreshold, req.IncreaseOnly == nil || *req.IncreaseOnly)
	case req.Threshold != nil:
		return screenThreshold(ft, yearCols, *req.Threshold)
	case req.TopN != nil:
		return rankTopN(ft, yearCols, *req.TopN, req.Ascending)
	}

	selected, err := ft.Select(append([]string{"Country"}, yearCols...)...)
	if err != nil {
		return tabular.Failure("Specified years are not in the dataset.")
	}
	selected = selected.DropNull(yearCols...)
	if selected.Len() == 0 {
		return tabular.Failure("No data available for the specified parameters.")
	}
	return tabular.Success(selected)
}

func compareYears(ft *tabular.Table, start, end int, threshold float64, increaseOnly bool) *tabular.StatusResult {
	startCol, endCol := strconv.Itoa(start), strconv.Itoa(end)
	if !ft.HasColumn(startCol) || !ft.HasColumn(endCol) {
		return tabular.Failure("Specified years are not in the dataset.")
	}
	var rows []map[string]any
	for i := 0; i < ft.Len(); i++ {
		a, aok := tabular.AsFloat(ft.Cell(i, startCol))
		b, bok := tabular.AsFloat(ft.Cell(i, endCol))
		if !aok || !bok {
			continue
		}
		diff := b - a
		if increaseOnly {
			if diff <= threshold {
				continue
			}
		} else if math.Abs(diff) <= threshold {
			continue
		}
		rows = append(rows, map[string]any{
			"Country":    ft.Cell(i, "Country"),
			"Difference": diff,
		})
	}
	if len(rows) == 0 {
		return tabular.Failure("No countries found with temperature change difference exceeding the specified threshold.")
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i]["Difference"].(float64) > rows[j]["Difference"].(float64)
	})
	return tabular.SuccessRows(rows)
}

func screenThreshold(ft *tabular.Table, yearCols []string, threshold float64) *tabular.StatusResult {
	var rows []map[string]any
	for i := 0; i < ft.Len(); i++ {
		mean, ok := rowMetric(ft, i, yearCols, false)
		if !ok || mean < threshold {
			continue
		}
		rows = append(rows, map[string]any{
			"Country": ft.Cell(i, "Country"),
			"Metric":  mean,
		})
	}
	if len(rows) == 0 {
		return tabular.Failure("No countries found exceeding the specified threshold.")
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i]["Metric"].(float64) > rows[j]["Metric"].(float64)
	})
	return tabular.SuccessRows(rows)
}

func rankTopN(ft *tabular.Table, yearCols []string, n int, ascending bool) *tabular.StatusResult {
	var rows []map[string]any
	for i := 0; i < ft.Len(); i++ {
		total, ok := rowMetric(ft, i, yearCols, true)
		if !ok {
			continue
		}
		rows = append(rows, map[string]any{
			"Country": ft.Cell(i, "Country"),
			"Metric":  total,
		})
	}
	if len(rows) == 0 {
		return tabular.Failure("No data available after sorting.")
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i]["Metric"].(float64), rows[j]["Metric"].(float64)
		if ascending {
			return a < b
		}
		return a > b
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return tabular.SuccessRows(rows)
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// rowMetric computes the sum (or mean) of the numeric cells in the given
// year columns for one row. Rows with no numeric cells at all report !ok.
func rowMetric(ft *tabular.Table, row int, yearCols []string, sum bool) (float64, bool) {
	var total float64
	var count int
	for _, col := range yearCols {
		if !ft.HasColumn(col) {
			continue
		}
		if v, ok := tabular.AsFloat(ft.Cell(row, col)); ok {
			total += v
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	if sum {
		return total, true
	}
	return total / float64(count), true
}

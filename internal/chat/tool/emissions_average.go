package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// EmissionsAverageTool answers get_average_emission_data: the average of
// one emission type for one country across all years, or a first/last/
// recent-N-years trend.
type EmissionsAverageTool struct {
	data *tabular.Table
}

func NewEmissionsAverageTool(data *tabular.Table) *EmissionsAverageTool {
	return &EmissionsAverageTool{data: data}
}

type EmissionsAverageRequest struct {
	Country      string `json:"country"`
	EmissionType string `json:"emission_type"`
	TrendType    string `json:"trend_type"`
	NumYears     int    `json:"num_years"`
}

// ErrorResult is the error shape of the single-purpose average/trend
// tools: one human-readable reason.
type ErrorResult struct {
	Error string `json:"error"`
}

// AverageResult reports a single rounded average.
type AverageResult struct {
	Country         string  `json:"country"`
	EmissionType    string  `json:"emission_type"`
	AverageEmission float64 `json:"average_emission"`
}

// TrendResult reports the per-year values of a first/last/recent window.
type TrendResult struct {
	Country      string           `json:"country"`
	EmissionType string           `json:"emission_type"`
	TrendType    string           `json:"trend_type"`
	NumYears     int              `json:"num_years"`
	Data         []map[string]any `json:"data"`
}

const invalidTrendMessage = "Invalid trend type. Please choose 'average', 'last x years', 'first x years', or 'trend for x years'."

func (t *EmissionsAverageTool) Name() string { return "get_average_emission_data" }

func (t *EmissionsAverageTool) Description() string {
	return "Get the average emission value or trend for a country across all years for a specified emission type."
}

func (t *EmissionsAverageTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]string{
				"type":        "string",
				"description": "The name of the country or area.",
			},
			"emission_type": map[string]string{
				"type":        "string",
				"description": "The type of emission, e.g. 'sfc_emissions', 'n2o_emissions', 'methane_emissions', 'green_house_emissions'.",
			},
			"trend_type": map[string]string{
				"type":        "string",
				"description": "Whether to return 'average', 'last x years', 'first x years', or 'trend for x years' data.",
			},
			"num_years": map[string]string{
				"type":        "integer",
				"description": "The number of years for which the trend is requested.",
			},
		},
		"required": []string{"country", "emission_type"},
	}
}

func (t *EmissionsAverageTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req EmissionsAverageRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *EmissionsAverageTool) Run(req EmissionsAverageRequest) any {
	trend := req.TrendType
	if trend == "" {
		trend = "average"
	}
	numYears := req.NumYears
	if numYears <= 0 {
		numYears = 5
	}

	ft := t.data.Clone().Where(func(r tabular.Row) bool {
		return r.Get(countryColumn) == req.Country
	})
	if ft.Len() == 0 {
		return ErrorResult{Error: fmt.Sprintf("No data available for the specified country: %s.", req.Country)}
	}
	if !ft.HasColumn(req.EmissionType) {
		return ErrorResult{Error: fmt.Sprintf("Emission type %q does not exist.", req.EmissionType)}
	}

	switch lower := strings.ToLower(trend); {
	case lower == "average":
		avg, err := tabular.Reduce(ft.Floats(req.EmissionType), tabular.Mean)
		if err != nil {
			return ErrorResult{Error: fmt.Sprintf("No data available for the specified country: %s.", req.Country)}
		}
		return AverageResult{
			Country:         req.Country,
			EmissionType:    req.EmissionType,
			AverageEmission: round2(avg),
		}
	case strings.Contains(lower, "last"):
		return t.trendWindow(ft, req, "last", numYears, false)
	case strings.Contains(lower, "first"):
		return t.trendWindow(ft, req, "first", numYears, true)
	case strings.Contains(lower, "trend for"):
		return t.trendWindow(ft, req, "recent", numYears, false)
	default:
		return ErrorResult{Error: invalidTrendMessage}
	}
}

func (t *EmissionsAverageTool) trendWindow(ft *tabular.Table, req EmissionsAverageRequest, label string, n int, ascending bool) any {
	window := tabular.Head(tabular.SortByNumeric(ft, []string{"Year"}, ascending), n)
	selected, err := window.Select("Year", req.EmissionType)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("Emission type %q does not exist.", req.EmissionType)}
	}
	return TrendResult{
		Country:      req.Country,
		EmissionType: req.EmissionType,
		TrendType:    label,
		NumYears:     n,
		Data:         selected.Records(),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

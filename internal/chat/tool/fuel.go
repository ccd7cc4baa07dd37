package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// FuelAverageTool answers get_average_fuel_emission_data over the fuel
// emissions table: one row per (country, year), one column per fuel type.
// Country names in the dataset are upper-cased; matching follows suit.
type FuelAverageTool struct {
	data *tabular.Table
}

func NewFuelAverageTool(data *tabular.Table) *FuelAverageTool {
	return &FuelAverageTool{data: data}
}

type FuelAverageRequest struct {
	Country   string `json:"country"`
	FuelType  string `json:"fuel_type"`
	TrendType string `json:"trend_type"`
	NumYears  int    `json:"num_years"`
	Year      int    `json:"year"`
}

// FuelAverageResult reports a single rounded fuel emission average.
type FuelAverageResult struct {
	Country         string  `json:"country"`
	FuelType        string  `json:"fuel_type"`
	AverageEmission float64 `json:"average_emission"`
}

type FuelTrendResult struct {
	Country   string           `json:"country"`
	FuelType  string           `json:"fuel_type"`
	TrendType string           `json:"trend_type"`
	NumYears  int              `json:"num_years"`
	Data      []map[string]any `json:"data"`
}

func (t *FuelAverageTool) Name() string { return "get_average_fuel_emission_data" }

func (t *FuelAverageTool) Description() string {
	return "Get the average emission value or trend for a fuel type across all years or a specified range of years. " +
		"Fuel types include 'Solid Fuel', 'Liquid Fuel', 'Gas Fuel', 'Cement' and 'Gas Flaring'."
}

func (t *FuelAverageTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]string{
				"type":        "string",
				"description": "The name of the country.",
			},
			"fuel_type": map[string]string{
				"type":        "string",
				"description": "The type of fuel, e.g. 'Solid Fuel', 'Liquid Fuel', 'Gas Fuel', 'Cement', 'Gas Flaring'.",
			},
			"trend_type": map[string]string{
				"type":        "string",
				"description": "Whether to return 'average', 'last x years', 'first x years', or 'trend for x years' data.",
			},
			"num_years": map[string]string{
				"type":        "integer",
				"description": "The number of years for which the trend is requested.",
			},
			"year": map[string]string{
				"type":        "integer",
				"description": "A specific year to restrict the data to.",
			},
		},
		"required": []string{"country", "fuel_type"},
	}
}

func (t *FuelAverageTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req FuelAverageRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *FuelAverageTool) Run(req FuelAverageRequest) any {
	trend := req.TrendType
	if trend == "" {
		trend = "average"
	}
	numYears := req.NumYears
	if numYears <= 0 {
		numYears = 5
	}
	country := strings.ToUpper(req.Country)

	ft := t.data.Clone().Where(func(r tabular.Row) bool {
		s, ok := r.Get("Country").(string)
		return ok && strings.ToUpper(s) == country
	})
	if req.Year > 0 {
		ft = ft.Where(func(r tabular.Row) bool {
			y, ok := r.Float("Year")
			return ok && int(y) == req.Year
		})
	}
	if ft.Len() == 0 {
		scope := "all years"
		if req.Year > 0 {
			scope = fmt.Sprint(req.Year)
		}
		return ErrorResult{Error: fmt.Sprintf("No data available for the specified country: %s in %s.", country, scope)}
	}
	if !ft.HasColumn(req.FuelType) {
		return ErrorResult{Error: fmt.Sprintf("Fuel type %q does not exist in the dataset.", req.FuelType)}
	}

	switch lower := strings.ToLower(trend); {
	case lower == "average":
		avg, err := tabular.Reduce(ft.Floats(req.FuelType), tabular.Mean)
		if err != nil {
			return ErrorResult{Error: fmt.Sprintf("No data available for the specified country: %s in all years.", country)}
		}
		return FuelAverageResult{Country: country, FuelType: req.FuelType, AverageEmission: round2(avg)}
	case strings.Contains(lower, "last"):
		return t.trendWindow(ft, country, req.FuelType, "last", numYears, false)
	case strings.Contains(lower, "first"):
		return t.trendWindow(ft, country, req.FuelType, "first", numYears, true)
	case strings.Contains(lower, "trend for"):
		return t.trendWindow(ft, country, req.FuelType, "recent", numYears, false)
	default:
		return ErrorResult{Error: invalidTrendMessage}
	}
}

func (t *FuelAverageTool) trendWindow(ft *tabular.Table, country, fuelType, label string, n int, ascending bool) any {
	window := tabular.Head(tabular.SortByNumeric(ft, []string{"Year"}, ascending), n)
	selected, err := window.Select("Year", fuelType)
	if err != nil {
		return ErrorResult{Error: fmt.Sprintf("Fuel type %q does not exist in the dataset.", fuelType)}
	}
	return FuelTrendResult{Country: country, FuelType: fuelType, TrendType: label, NumYears: n, Data: selected.Records()}
}

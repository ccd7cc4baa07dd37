package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// GlobalCarbonTool answers get_global_carbon_emissions over the long
// global carbon table. Text filters are case-insensitive substring matches
// so "states" finds "United States"; each filter stage reports its own
// empty result.
type GlobalCarbonTool struct {
	data *tabular.Table
}

func NewGlobalCarbonTool(data *tabular.Table) *GlobalCarbonTool {
	return &GlobalCarbonTool{data: data}
}

type GlobalCarbonRequest struct {
	Country      string `json:"country"`
	Sector       string `json:"sector"`
	Year         *int   `json:"year"`
	EmissionType string `json:"emission_type"`
}

func (t *GlobalCarbonTool) Name() string { return "get_global_carbon_emissions" }

func (t *GlobalCarbonTool) Description() string {
	return "Query global carbon emissions figures by country, sector, year and emission type. " +
		"Text filters match substrings, so partial names work."
}

func (t *GlobalCarbonTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]any{
				"type":        "string",
				"description": "Country to match, full or partial name.",
			},
			"sector": map[string]any{
				"type":        "string",
				"description": "Sector to match, full or partial name.",
			},
			"year": map[string]any{
				"type":        "integer",
				"description": "Year to filter by.",
			},
			"emission_type": map[string]any{
				"type":        "string",
				"description": "Emission type to match, full or partial name.",
			},
		},
	}
}

func (t *GlobalCarbonTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req GlobalCarbonRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *GlobalCarbonTool) Run(req GlobalCarbonRequest) *tabular.StatusResult {
	ft := t.data.Clone()

	if req.Country != "" {
		ft = tabular.FilterContains(ft, "Country", req.Country)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No emission data found for the specified country: %s.", req.Country))
		}
	}
	if req.Sector != "" {
		ft = tabular.FilterContains(ft, "Sector", req.Sector)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No emission data found for the specified sector: %s.", req.Sector))
		}
	}
	if req.Year != nil {
		year := *req.Year
		ft = ft.Where(func(r tabular.Row) bool {
			y, ok := tabular.AsFloat(r.Get("Year"))
			return ok && int(y) == year
		})
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No emission data found for the specified year: %d.", year))
		}
	}
	if req.EmissionType != "" {
		ft = tabular.FilterContains(ft, "Emission Type", req.EmissionType)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No emission data found for the specified emission type: %s.", req.EmissionType))
		}
	}

	selected, err := ft.Select("Country", "Sector", "Year", "Emission Type", "Emissions")
	if err != nil || selected.Len() == 0 {
		return tabular.Failure("No results found based on the provided filters.")
	}
	return tabular.Success(selected)
}

package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// DeforestationTool answers get_deforestation_data over the deforestation
// rates table, with the same contains-style text matching as the global
// carbon tool.
type DeforestationTool struct {
	data *tabular.Table
}

func NewDeforestationTool(data *tabular.Table) *DeforestationTool {
	return &DeforestationTool{data: data}
}

type DeforestationRequest struct {
	Country    string `json:"country"`
	ForestType string `json:"forest_type"`
	StartYear  *int   `json:"start_year"`
	EndYear    *int   `json:"end_year"`
}

func (t *DeforestationTool) Name() string { return "get_deforestation_data" }

func (t *DeforestationTool) Description() string {
	return "Query annual deforestation rates by country, forest type and year range. Text filters match substrings."
}

func (t *DeforestationTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]any{
				"type":        "string",
				"description": "Country to match, full or partial name.",
			},
			"forest_type": map[string]any{
				"type":        "string",
				"description": "Forest type to match, e.g. 'Tropical' or 'Boreal'.",
			},
			"start_year": map[string]any{
				"type":        "integer",
				"description": "First year of the range.",
			},
			"end_year": map[string]any{
				"type":        "integer",
				"description": "Last year of the range.",
			},
		},
	}
}

func (t *DeforestationTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req DeforestationRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *DeforestationTool) Run(req DeforestationRequest) *tabular.StatusResult {
	ft := t.data.Clone()

	if req.Country != "" {
		ft = tabular.FilterContains(ft, "Country", req.Country)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No deforestation data found for the specified country: %s.", req.Country))
		}
	}
	if req.ForestType != "" {
		ft = tabular.FilterContains(ft, "Forest Type", req.ForestType)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No data available for the specified forest type: %s.", req.ForestType))
		}
	}
	if req.StartYear != nil || req.EndYear != nil {
		ft = ft.Where(func(r tabular.Row) bool {
			y, ok := tabular.AsFloat(r.Get("Year"))
			if !ok {
				return false
			}
			if req.StartYear != nil && int(y) < *req.StartYear {
				return false
			}
			if req.EndYear != nil && int(y) > *req.EndYear {
				return false
			}
			return true
		})
		if ft.Len() == 0 {
			return tabular.Failure("No data available for the specified year range.")
		}
	}

	selected, err := ft.Select("Country", "Forest Type", "Year", "Deforestation Rate")
	if err != nil || selected.Len() == 0 {
		return tabular.Failure("No results found based on the provided filters.")
	}
	return tabular.Success(selected)
}

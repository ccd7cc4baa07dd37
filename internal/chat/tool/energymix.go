package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// EnergyMixTool answers get_energy_mix_data over the per-country energy
// source percentages table. Text filters match substrings; the year range
// only applies when both ends are given.
type EnergyMixTool struct {
	data *tabular.Table
}

func NewEnergyMixTool(data *tabular.Table) *EnergyMixTool {
	return &EnergyMixTool{data: data}
}

type EnergyMixRequest struct {
	Country      string `json:"country"`
	EnergySource string `json:"energy_source"`
	StartYear    *int   `json:"start_year"`
	EndYear      *int   `json:"end_year"`
}

func (t *EnergyMixTool) Name() string { return "get_energy_mix_data" }

func (t *EnergyMixTool) Description() string {
	return "Query the share of coal, renewable, nuclear, natural gas, hydro, solar and wind in a country's energy " +
		"mix by year range. Text filters match substrings."
}

func (t *EnergyMixTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]any{
				"type":        "string",
				"description": "Country to match, full or partial name.",
			},
			"energy_source": map[string]any{
				"type":        "string",
				"description": "Energy source to match: Coal, Renewable, Nuclear, Natural Gas, Hydro, Solar or Wind.",
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

func (t *EnergyMixTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req EnergyMixRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *EnergyMixTool) Run(req EnergyMixRequest) *tabular.StatusResult {
	ft := t.data.Clone()

	if req.Country != "" {
		ft = tabular.FilterContains(ft, "Country", req.Country)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No energy mix data found for the specified country: %s.", req.Country))
		}
	}
	if req.EnergySource != "" {
		ft = tabular.FilterContains(ft, "Energy Source", req.EnergySource)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No data available for the specified energy source: %s.", req.EnergySource))
		}
	}
	if req.StartYear != nil && req.EndYear != nil {
		ft = ft.Where(func(r tabular.Row) bool {
			y, ok := tabular.AsFloat(r.Get("Year"))
			return ok && int(y) >= *req.StartYear && int(y) <= *req.EndYear
		})
		if ft.Len() == 0 {
			return tabular.Failure("No data available for the specified year range.")
		}
	}

	selected, err := ft.Select("Country", "Year", "Energy Source", "Percentage")
	if err != nil || selected.Len() == 0 {
		return tabular.Failure("No results found based on the provided filters.")
	}
	return tabular.Success(selected)
}

package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// EmissionMonitorTool answers get_emission_monitoring_data over the
// monitoring table. Same contains-style matching as the global carbon
// tool, but the year filter is a range and only applies when both ends
// are given.
type EmissionMonitorTool struct {
	data *tabular.Table
}

func NewEmissionMonitorTool(data *tabular.Table) *EmissionMonitorTool {
	return &EmissionMonitorTool{data: data}
}

type EmissionMonitorRequest struct {
	Country      string `json:"country"`
	Sector       string `json:"sector"`
	EmissionType string `json:"emission_type"`
	StartYear    *int   `json:"start_year"`
	EndYear      *int   `json:"end_year"`
}

func (t *EmissionMonitorTool) Name() string { return "get_emission_monitoring_data" }

func (t *EmissionMonitorTool) Description() string {
	return "Monitor greenhouse gas emissions by country, sector (Industry, Transport, Residential, Agriculture, " +
		"Energy), emission type (CO2, Methane, N2O, HFCs, PFCs, SF6) and year range. Text filters match substrings."
}

func (t *EmissionMonitorTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]any{
				"type":        "string",
				"description": "Country to match, full or partial name.",
			},
			"sector": map[string]any{
				"type":        "string",
				"description": "Sector to match: Industry, Transport, Residential, Agriculture or Energy.",
			},
			"emission_type": map[string]any{
				"type":        "string",
				"description": "Emission type to match: CO2, Methane, N2O, HFCs, PFCs or SF6.",
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

func (t *EmissionMonitorTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req EmissionMonitorRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *EmissionMonitorTool) Run(req EmissionMonitorRequest) *tabular.StatusResult {
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
	if req.EmissionType != "" {
		ft = tabular.FilterContains(ft, "Emission Type", req.EmissionType)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No data found for the specified emission type: %s.", req.EmissionType))
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

	selected, err := ft.Select("Country", "Sector", "Year", "Emission Type", "Emissions")
	if err != nil || selected.Len() == 0 {
		return tabular.Failure("No results found based on the provided filters.")
	}
	return tabular.Success(selected)
}

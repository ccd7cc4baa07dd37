package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// SectorEmissionsTool answers get_sector_emission_data over the sector
// emissions table (Country, Sector, Year, Description, Emission Value).
//
// Averaging is implicit: a concrete country with year, sector and
// description all absent or "all" returns per-sector averages across
// years instead of raw rows. That trigger condition is deliberate and
// must not be generalized.
type SectorEmissionsTool struct {
	data *tabular.Table
}

func NewSectorEmissionsTool(data *tabular.Table) *SectorEmissionsTool {
	return &SectorEmissionsTool{data: data}
}

type SectorEmissionsRequest struct {
	Country     tabular.FilterValue `json:"Country"`
	Sector      tabular.FilterValue `json:"Sector"`
	Year        tabular.FilterValue `json:"Year"`
	Description tabular.FilterValue `json:"Description"`
}

func (t *SectorEmissionsTool) Name() string { return "get_sector_emission_data" }

func (t *SectorEmissionsTool) Description() string {
	return "Get sector emission values for a given sector and country. " +
		"Sectors can be Buildings, Industry, Electricity, Transport, Transport Road. " +
		"When no year, sector or description is specified for a country, per-sector averages across all years are returned."
}

func (t *SectorEmissionsTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"Country": map[string]string{
				"type":        "string",
				"description": "The name of the country, a list of countries, or 'all'.",
			},
			"Sector": map[string]string{
				"type":        "string",
				"description": "The sector or a list of sectors, or 'all'. Sectors can be Buildings, Industry, Electricity, Transport, Transport Road.",
			},
			"Year": map[string]string{
				"type":        "string",
				"description": "A year or a list of years.",
			},
			"Description": map[string]string{
				"type":        "string",
				"description": "A specific series, e.g. 'Buildings energy intensity (commercial)', 'EV market share', 'Share of coal in electricity generation'.",
			},
		},
		"required": []string{"Country"},
	}
}

func (t *SectorEmissionsTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req SectorEmissionsRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *SectorEmissionsTool) Run(req SectorEmissionsRequest) *tabular.Result {
	var msgs tabular.Messages
	ft := t.data.Clone()

	for _, f := range []struct {
		col    string
		value  tabular.FilterValue
		plural string
	}{
		{"Country", req.Country, "countries"},
		{"Sector", req.Sector, "sectors"},
		{"Year", req.Year, "years"},
		{"Description", req.Description, "descriptions"},
	} {
		var missing []string
		ft, missing = tabular.Filter(ft, f.col, f.value)
		if len(missing) > 0 {
			msgs.Addf("Data for the following %s isn't available: %s", f.plural, strings.Join(missing, ", "))
		}
	}

	// Implicit average across years when only the country (and optionally
	// a description) narrows the query.
	if req.Country.IsConcrete() && req.Year.IsWildcard() && req.Sector.IsWildcard() {
		keys := []string{"Country", "Sector"}
		if req.Description.IsConcrete() {
			keys = append(keys, "Description")
		}
		avg, err := tabular.GroupBy(ft, keys, []string{"Emission Value"}, tabular.Mean)
		if err != nil {
			return tabular.NewResult(tabular.New(), msgs)
		}
		avg.Rename("Emission Value", "Average Emission Value")
		return tabular.NewResult(avg, msgs)
	}

	return tabular.NewResult(ft, msgs)
}

package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// EnergyEmissionsTool answers get_energy_emission_data over the long
// energy balance table (Country, Year, Series, Value).
//
// Averaging is implicit: a concrete country filter with both year and
// series absent or "all" returns per-series averages across years.
type EnergyEmissionsTool struct {
	data *tabular.Table
}

func NewEnergyEmissionsTool(data *tabular.Table) *EnergyEmissionsTool {
	return &EnergyEmissionsTool{data: data}
}

type EnergyEmissionsRequest struct {
	Country tabular.FilterValue `json:"Country"`
	Year    tabular.FilterValue `json:"Year"`
	Series  tabular.FilterValue `json:"Series"`
}

func (t *EnergyEmissionsTool) Name() string { return "get_energy_emission_data" }

func (t *EnergyEmissionsTool) Description() string {
	return "Get energy emission values for a given country for a specific year or for all years. " +
		"Series include 'Primary energy production (petajoules)', 'Net imports [Imports - Exports - Bunkers] (petajoules)', " +
		"'Total supply (petajoules)', 'Supply per capita (gigajoules)' and 'Changes in stocks (petajoules)'. " +
		"Country-wide totals use the country 'Total, all countries or areas'."
}

func (t *EnergyEmissionsTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"Country": map[string]string{
				"type":        "string",
				"description": "The name of the country, a list of countries, or 'all'.",
			},
			"Year": map[string]string{
				"type":        "string",
				"description": "A year or a list of years.",
			},
			"Series": map[string]string{
				"type":        "string",
				"description": "The energy series to select, or 'all'.",
			},
		},
		"required": []string{"Country"},
	}
}

func (t *EnergyEmissionsTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req EnergyEmissionsRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *EnergyEmissionsTool) Run(req EnergyEmissionsRequest) *tabular.Result {
	var msgs tabular.Messages
	ft := t.data.Clone()

	for _, f := range []struct {
		col    string
		value  tabular.FilterValue
		plural string
	}{
		{"Country", req.Country, "countries"},
		{"Year", req.Year, "years"},
		{"Series", req.Series, "series"},
	} {
		var missing []string
		ft, missing = tabular.Filter(ft, f.col, f.value)
		if len(missing) > 0 {
			msgs.Addf("Data for the following %s isn't available: %s", f.plural, strings.Join(missing, ", "))
		}
	}

	if ft.Len() == 0 {
		msgs.Add("No data available for the specified filters.")
		return tabular.NewResult(tabular.New(), msgs)
	}

	// The Value column mixes numbers and footnote strings; keep only rows
	// that coerce, as numbers.
	ft = ft.Where(func(r tabular.Row) bool {
		_, ok := r.Float("Value")
		return ok
	}).MapColumn("Value", func(v any) any {
		f, _ := tabular.AsFloat(v)
		return f
	})

	if req.Country.IsConcrete() && req.Year.IsWildcard() && req.Series.IsWildcard() {
		avg, err := tabular.GroupBy(ft, []string{"Country", "Series"}, []string{"Value"}, tabular.Mean)
		if err != nil {
			return tabular.NewResult(tabular.New(), msgs)
		}
		avg.Rename("Value", "Average Value")
		return tabular.NewResult(avg, msgs)
	}

	selected, err := ft.Select("Country", "Year", "Series", "Value")
	if err != nil {
		return tabular.NewResult(tabular.New(), msgs)
	}
	return tabular.NewResult(selected, msgs)
}

package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

const countryColumn = "Country or Area"

// suggestedEmissionTypes is offered back to the model when it asks for an
// emission column that does not exist, so it can retry with a valid one.
var suggestedEmissionTypes = []string{"sfc_emissions", "n2o_emissions", "methane_emissions", "green_house_emissions"}

// EmissionsTool answers get_emission_data over the greenhouse emissions
// table: one row per (country, year), one column per emission type.
type EmissionsTool struct {
	data *tabular.Table
}

func NewEmissionsTool(data *tabular.Table) *EmissionsTool {
	return &EmissionsTool{data: data}
}

// EmissionsRequest carries the three-valued filters for the tool. Each
// field may be absent, "all", a scalar or a list.
type EmissionsRequest struct {
	Country      tabular.FilterValue `json:"country"`
	Year         tabular.FilterValue `json:"year"`
	EmissionType tabular.FilterValue `json:"emission_type"`
}

func (t *EmissionsTool) Name() string { return "get_emission_data" }

func (t *EmissionsTool) Description() string {
	return "Get emission values for a given country, year, and emission type. " +
		"Accepts lists for every parameter, or 'all' to include everything available. " +
		"If a requested emission type does not exist, the response suggests valid emission types to retry with."
}

func (t *EmissionsTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"country": map[string]string{
				"type":        "string",
				"description": "The name of the country, a comma-separated list of countries, or 'all'.",
			},
			"year": map[string]string{
				"type":        "string",
				"description": "The year or a list of years of the emission data, or 'all'.",
			},
			"emission_type": map[string]string{
				"type":        "string",
				"description": "The emission type or a list of emission types, or 'all'. E.g. 'sfc_emissions', 'n2o_emissions', 'green_house_emissions'.",
			},
		},
		"required": []string{"country"},
	}
}

func (t *EmissionsTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req EmissionsRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

// Run executes the filter pipeline and assembles a dialect-A result.
func (t *EmissionsTool) Run(req EmissionsRequest) *tabular.Result {
	var msgs tabular.Messages
	ft := t.data.Clone()

	ft, missing := tabular.Filter(ft, countryColumn, req.Country)
	if len(missing) > 0 {
		msgs.Addf("Data for the following countries isn't available: %s", strings.Join(missing, ", "))
	}

	ft, missing = tabular.Filter(ft, "Year", req.Year)
	if len(missing) > 0 {
		msgs.Addf("Data for the following years isn't available: %s", strings.Join(missing, ", "))
	}

	if req.EmissionType.IsConcrete() {
		var unknown, known []string
		for _, et := range req.EmissionType.Strings() {
			if ft.HasColumn(et) {
				known = append(known, et)
			} else {
				unknown = append(unknown, et)
			}
		}
		if len(unknown) > 0 {
			msgs.Addf("Emission type(s) %q do not exist. You might want to request any of the following: %s.",
				strings.Join(unknown, ", "), strings.Join(suggestedEmissionTypes, ", "))
			known = presentColumns(ft, suggestedEmissionTypes)
		}
		selected, err := ft.Select(append([]string{countryColumn, "Year"}, known...)...)
		if err != nil {
			return tabular.NewResult(tabular.New(), msgs)
		}
		ft = selected
	}

	return tabular.NewResult(ft, msgs)
}

func presentColumns(t *tabular.Table, cols []string) []string {
	var out []string
	for _, c := range cols {
		if t.HasColumn(c) {
			out = append(out, c)
		}
	}
	return out
}

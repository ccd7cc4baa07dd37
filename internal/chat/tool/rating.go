package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// CountryRatingTool answers get_country_rating over the climate action
// ratings table: one row per country, one column per rating component.
type CountryRatingTool struct {
	data *tabular.Table
}

func NewCountryRatingTool(data *tabular.Table) *CountryRatingTool {
	return &CountryRatingTool{data: data}
}

type CountryRatingRequest struct {
	Country   tabular.FilterValue `json:"Country"`
	Component tabular.FilterValue `json:"Component"`
}

func (t *CountryRatingTool) Name() string { return "get_country_rating" }

func (t *CountryRatingTool) Description() string {
	return "Get climate action ratings for a given country. Components are Overall rating, " +
		"Policies and action, Domestic or supported target, Fair share target, Climate finance and Net zero target."
}

func (t *CountryRatingTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"Country": map[string]string{
				"type":        "string",
				"description": "The name of the country, a list of countries, or 'all'.",
			},
			"Component": map[string]string{
				"type": "string",
				"description": "The rating component: 'Overall rating', 'Policies and action', " +
					"'Domestic or supported target', 'Fair share target', 'Climate finance' or 'Net zero target'. " +
					"A comma-separated list selects several components.",
			},
		},
		"required": []string{"Country"},
	}
}

func (t *CountryRatingTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req CountryRatingRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *CountryRatingTool) Run(req CountryRatingRequest) *tabular.Result {
	var msgs tabular.Messages
	ft := t.data.Clone()

	ft, missing := tabular.Filter(ft, "Country", req.Country)
	if len(missing) > 0 {
		msgs.Addf("Data for the following countries isn't available: %s", strings.Join(missing, ", "))
	}

	if req.Component.IsConcrete() {
		selected := []string{"Country"}
		var unknown []string
		for _, c := range req.Component.Strings() {
			c = strings.TrimSpace(c)
			if ft.HasColumn(c) && c != "Country" {
				selected = append(selected, c)
			} else if c != "Country" {
				unknown = append(unknown, c)
			}
		}
		if len(unknown) > 0 {
			msgs.Addf("Data for the following components isn't available: %s", strings.Join(unknown, ", "))
		}
		projected, err := ft.Select(selected...)
		if err != nil {
			return tabular.NewResult(tabular.New(), msgs)
		}
		ft = projected
	}

	return tabular.NewResult(ft.Dedup(), msgs)
}

package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// percentileColumns maps the percentile labels the model may request to the
// dataset columns that carry them.
var percentileColumns = map[string]string{
	"0.05": "p0.05",
	"0.50": "p0.50",
	"0.95": "p0.95",
}

// CILTemperatureTool answers get_cil_gobal_tas over the Climate Impact Lab
// projected temperature tables. A flag selects between the annual, summer
// (jja), winter (djf), days-under-32F (u32) and days-over-95F (o95) tables;
// anything else falls back to annual.
type CILTemperatureTool struct {
	annual *tabular.Table
	summer *tabular.Table
	winter *tabular.Table
	under  *tabular.Table
	over   *tabular.Table
}

func NewCILTemperatureTool(annual, summer, winter, under, over *tabular.Table) *CILTemperatureTool {
	return &CILTemperatureTool{annual: annual, summer: summer, winter: winter, under: under, over: over}
}

type CILTemperatureRequest struct {
	Countries   tabular.FilterValue `json:"countries"`
	YearsRange  tabular.FilterValue `json:"years_range"`
	SSPRange    tabular.FilterValue `json:"ssp_range"`
	Percentiles tabular.FilterValue `json:"percentiles"`
	GroupBy     tabular.FilterValue `json:"group_by"`
	Aggregate   tabular.FilterValue `json:"aggregate"`
	Sort        string              `json:"sort"`
	N           int                 `json:"n"`
	Flag        string              `json:"flag"`
}

func (t *CILTemperatureTool) Name() string { return "get_cil_gobal_tas" }

func (t *CILTemperatureTool) Description() string {
	return "Query Climate Impact Lab projected temperature data per country, SSP emissions scenario and 20-year " +
		"period, with 5th, 50th and 95th percentile outcomes. Use flag 'jja' for summer averages, 'djf' for winter " +
		"averages, 'u32' for days under 32F, 'o95' for days over 95F, or leave it out for annual averages. Supports " +
		"grouping, aggregation (mean, median, sum, var, sem, min, max), sorting and limiting."
}

func (t *CILTemperatureTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"countries": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "Countries to include. Omit or pass 'all' for every country.",
			},
			"years_range": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "20-year periods to include, e.g. '2020-2039'.",
			},
			"ssp_range": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "SSP emissions scenarios to include, e.g. 'SSP2-4.5'.",
			},
			"percentiles": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "Percentiles to include: '0.05', '0.50' and/or '0.95'. Omit for all three.",
			},
			"group_by": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "Columns to group by before aggregating.",
			},
			"aggregate": map[string]any{
				"type":        "string",
				"description": "Aggregation method: mean, median, sum, var, sem, min or max.",
			},
			"sort": map[string]any{
				"type":        "string",
				"description": "'ascending' or 'descending' (default) by percentile value.",
			},
			"n": map[string]any{
				"type":        "integer",
				"description": "Limit the result to the first n rows after sorting.",
			},
			"flag": map[string]any{
				"type":        "string",
				"description": "Table selector: 'jja', 'djf', 'u32', 'o95' or empty for annual.",
			},
		},
	}
}

func (t *CILTemperatureTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req CILTemperatureRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *CILTemperatureTool) table(flag string) *tabular.Table {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "jja":
		return t.summer
	case "djf":
		return t.winter
	case "u32":
		return t.under
	case "o95":
		return t.over
	default:
		return t.annual
	}
}

func (t *CILTemperatureTool) Run(req CILTemperatureRequest) *tabular.Result {
	var msgs tabular.Messages
	ft := t.table(req.Flag).Clone()

	ft, missing := tabular.Filter(ft, "country", req.Countries)
	if len(missing) > 0 {
		msgs.Addf("Data for the following countries isn't available: %s", strings.Join(missing, ", "))
	}
	ft, missing = tabular.Filter(ft, "year_range", req.YearsRange)
	if len(missing) > 0 {
		msgs.Addf("Data for the following year ranges isn't available: %s", strings.Join(missing, ", "))
	}
	ft, missing = tabular.Filter(ft, "ssp_range", req.SSPRange)
	if len(missing) > 0 {
		msgs.Addf("Data for the following SSP ranges isn't available: %s", strings.Join(missing, ", "))
	}

	valueCols := []string{"p0.05", "p0.50", "p0.95"}
	if req.Percentiles.IsConcrete() {
		var valid, invalid []string
		for _, p := range req.Percentiles.Strings() {
			if col, ok := percentileColumns[p]; ok {
				valid = append(valid, col)
			} else {
				invalid = append(invalid, p)
			}
		}
		if len(invalid) > 0 {
			msgs.Addf("Invalid percentile value(s): %s", strings.Join(invalid, ", "))
		}
		valueCols = valid
	}
	if len(valueCols) == 0 {
		return tabular.NewResult(tabular.New(), msgs)
	}

	selected, err := ft.Select(append([]string{"country", "ssp_range", "year_range"}, valueCols...)...)
	if err != nil {
		return tabular.NewResult(tabular.New(), msgs)
	}
	ft = selected

	var aggregate string
	if names := req.Aggregate.Strings(); len(names) > 0 {
		aggregate = names[0]
	}
	method, err := tabular.ParseMethod(aggregate)
	if err != nil {
		msgs.Addf("Invalid aggregation method: %s", aggregate)
		method = tabular.Mean
	}
	switch {
	case req.GroupBy.IsConcrete():
		grouped, err := tabular.GroupBy(ft, req.GroupBy.Strings(), valueCols, method)
		if err != nil {
			msgs.Addf("Cannot group by the requested columns: %v", err)
		} else {
			ft = grouped
		}
	case aggregate != "":
		if agg, err := tabular.Aggregate(ft, valueCols, method); err == nil {
			ft = agg
		}
	}

	ft = tabular.SortByNumeric(ft, valueCols, req.Sort != "" && req.Sort != "descending")
	if req.N != 0 {
		ft = tabular.Head(ft, req.N)
	}
	return tabular.NewResult(ft, msgs)
}

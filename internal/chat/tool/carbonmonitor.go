package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// carbonDateLayout is the day-first layout the carbon monitor dataset
// publishes its dates in.
const carbonDateLayout = "02/01/2006"

// CarbonMonitorTool answers get_carbon_emission_data over the daily CO2
// table (country, sector, date, MtCO2 per day). Results are always a per
// (country, sector) summary: a sum over the selected dates or years, a
// mean over the whole series otherwise.
type CarbonMonitorTool struct {
	data *tabular.Table
}

func NewCarbonMonitorTool(data *tabular.Table) *CarbonMonitorTool {
	return &CarbonMonitorTool{data: data}
}

type CarbonMonitorRequest struct {
	Countries tabular.FilterValue `json:"countries"`
	Sectors   tabular.FilterValue `json:"sectors"`
	Years     tabular.FilterValue `json:"years"`
	Dates     tabular.FilterValue `json:"dates"`
}

func (t *CarbonMonitorTool) Name() string { return "get_carbon_emission_data" }

func (t *CarbonMonitorTool) Description() string {
	return "Query daily CO2 emissions data by countries, sectors, years and/or dates (DD/MM/YYYY). " +
		"Covers January through July of 2023 and 2024 for Brazil, China, European Union, France, Germany, India, " +
		"Italy, Japan, Russia, Spain, United Kingdom, United States, Rest of the World and WORLD, across the sectors " +
		"Domestic Aviation, Ground Transport, Industry, Residential, Power and International Aviation."
}

func (t *CarbonMonitorTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"countries": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "The countries to fetch CO2 emissions for. Omit to aggregate over all countries.",
			},
			"sectors": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "The sectors to fetch CO2 emissions for. Omit to aggregate over all sectors.",
			},
			"years": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "integer"},
				"description": "Years to filter by, e.g. 2023.",
			},
			"dates": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "Specific dates to filter by, in DD/MM/YYYY format.",
			},
		},
	}
}

func (t *CarbonMonitorTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req CarbonMonitorRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *CarbonMonitorTool) Run(req CarbonMonitorRequest) *tabular.Result {
	var msgs tabular.Messages
	ft := t.data.Clone()

	ft, missing := tabular.Filter(ft, "country", req.Countries)
	if len(missing) > 0 {
		msgs.Addf("Data for the following countries isn't available: %s", strings.Join(missing, ", "))
	}

	// Sector availability is judged within the already country-filtered
	// rows; the message phrasing reflects that.
	ft, missing = tabular.Filter(ft, "sector", req.Sectors)
	if len(missing) > 0 {
		msgs.Addf("Data for the following sectors in these countries isn't available: %s", strings.Join(missing, ", "))
	}

	method := tabular.Mean
	switch {
	case req.Dates.IsConcrete():
		ft, _ = tabular.Filter(ft, "date", req.Dates)
		method = tabular.Sum
	case req.Years.IsConcrete():
		want := map[int]bool{}
		for _, y := range req.Years.Values() {
			if f, ok := tabular.AsFloat(y); ok {
				want[int(f)] = true
			}
		}
		ft = ft.Where(func(r tabular.Row) bool {
			s, ok := r.Get("date").(string)
			if !ok {
				return false
			}
			d, err := time.Parse(carbonDateLayout, s)
			return err == nil && want[d.Year()]
		})
		method = tabular.Sum
	}

	summary, err := tabular.GroupBy(ft, []string{"country", "sector"}, []string{"MtCO2 per day"}, method)
	if err != nil {
		return tabular.NewResult(tabular.New(), msgs)
	}
	summary.Rename("country", "Country").Rename("sector", "Sector").Rename("MtCO2 per day", "Emissions")
	return tabular.NewResult(summary, msgs)
}

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

// defaultUKAttributes is the column set returned when a query names none.
var defaultUKAttributes = []string{"tempmax", "tempmin", "humidity", "precip", "windspeed", "conditions"}

// UKWeatherTool answers get_weather_data over the United Kingdom daily
// weather table. Unlike the per-state tool, out-of-range dates are not an
// error here; the range filter simply clamps to the data that exists.
type UKWeatherTool struct {
	data *tabular.Table
}

func NewUKWeatherTool(data *tabular.Table) *UKWeatherTool {
	return &UKWeatherTool{data: data}
}

type UKWeatherRequest struct {
	Country    string   `json:"Country"`
	StartDate  string   `json:"StartDate"`
	EndDate    string   `json:"EndDate"`
	Attributes []string `json:"Attributes"`
}

func (t *UKWeatherTool) Name() string { return "get_weather_data" }

func (t *UKWeatherTool) Description() string {
	return "Query daily United Kingdom weather observations from January 2023 onward: temperatures, humidity, " +
		"precipitation, wind, conditions and more. Dates use YYYY-MM-DD."
}

func (t *UKWeatherTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"Country": map[string]any{
				"type":        "string",
				"description": "Location name to match; 'all' or omitted returns every location.",
			},
			"StartDate": map[string]any{
				"type":        "string",
				"description": "First date of the range, YYYY-MM-DD.",
			},
			"EndDate": map[string]any{
				"type":        "string",
				"description": "Last date of the range, YYYY-MM-DD.",
			},
			"Attributes": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "Weather attributes to return, e.g. tempmax, tempmin, humidity, precip, windspeed, conditions.",
			},
		},
	}
}

func (t *UKWeatherTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req UKWeatherRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *UKWeatherTool) Run(req UKWeatherRequest) *tabular.Result {
	var msgs tabular.Messages
	ft := t.data.Clone()

	if loc := strings.TrimSpace(req.Country); loc != "" && !strings.EqualFold(loc, "all") {
		ft = ft.Where(func(r tabular.Row) bool {
			name, _ := r.Get("name").(string)
			return strings.EqualFold(name, loc)
		})
	}

	if start, err := time.Parse("2006-01-02", req.StartDate); err == nil {
		ft = ft.Where(func(r tabular.Row) bool {
			ts, ok := r.Time("datetime")
			return ok && !ts.Before(start)
		})
	}
	if end, err := time.Parse("2006-01-02", req.EndDate); err == nil {
		ft = ft.Where(func(r tabular.Row) bool {
			ts, ok := r.Time("datetime")
			return ok && !ts.After(end)
		})
	}

	if ft.Len() == 0 {
		msgs.Add("No data available for the specified filters.")
		return tabular.NewResult(tabular.New(), msgs)
	}

	attrs := defaultUKAttributes
	if len(req.Attributes) > 0 {
		var invalid []string
		attrs = nil
		for _, a := range req.Attributes {
			a = strings.TrimSpace(a)
			if ft.HasColumn(a) {
				attrs = append(attrs, a)
			} else {
				invalid = append(invalid, a)
			}
		}
		if len(invalid) > 0 {
			msgs.Addf("Invalid attributes requested: %s", strings.Join(invalid, ", "))
			return tabular.NewResult(tabular.New(), msgs)
		}
	}

	selected, err := ft.Select(append([]string{"datetime", "name"}, attrs...)...)
	if err != nil {
		return tabular.NewResult(tabular.New(), msgs)
	}
	return tabular.NewResult(selected, msgs)
}

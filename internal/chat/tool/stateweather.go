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

// defaultWeatherAttributes is what a query gets when it doesn't name any.
var defaultWeatherAttributes = []string{"tempmax", "tempmin", "temp", "humidity", "precip"}

// StateWeatherTool answers get_us_state_weather_data over the per-state
// historical weather tables. States are matched case-insensitively; each
// table covers a fixed date range and rejects requests outside it.
type StateWeatherTool struct {
	states map[string]*tabular.Table
}

// NewStateWeatherTool takes the per-state tables keyed by state name.
func NewStateWeatherTool(states map[string]*tabular.Table) *StateWeatherTool {
	t := &StateWeatherTool{states: map[string]*tabular.Table{}}
	for name, table := range states {
		t.states[strings.ToLower(name)] = table
	}
	return t
}

type StateWeatherRequest struct {
	State      string   `json:"State"`
	StartDate  string   `json:"StartDate"`
	EndDate    string   `json:"EndDate"`
	Attributes []string `json:"Attributes"`
}

func (t *StateWeatherTool) Name() string { return "get_us_state_weather_data" }

func (t *StateWeatherTool) Description() string {
	return "Query historical daily weather observations for a U.S. state: temperature, humidity, precipitation, " +
		"wind, cloud cover, conditions and more, over a date range. Dates use YYYY-MM-DD."
}

func (t *StateWeatherTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"State": map[string]any{
				"type":        "string",
				"description": "The U.S. state to fetch weather for, e.g. 'California'.",
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
				"description": "Weather attributes to return, e.g. tempmax, tempmin, temp, humidity, precip, windspeed, conditions.",
			},
		},
		"required": []string{"State", "StartDate", "EndDate"},
	}
}

func (t *StateWeatherTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req StateWeatherRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *StateWeatherTool) Run(req StateWeatherRequest) *tabular.StatusResult {
	table, ok := t.states[strings.ToLower(strings.TrimSpace(req.State))]
	if !ok {
		return tabular.Failure(fmt.Sprintf("No data available for the specified state: %s.", req.State))
	}
	if !table.HasColumn("datetime") {
		return tabular.Failure(fmt.Sprintf("No date information available in the dataset for %s.", req.State))
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return tabular.Failure("Invalid date format. Use 'YYYY-MM-DD'.")
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return tabular.Failure("Invalid date format. Use 'YYYY-MM-DD'.")
	}

	first, last, ok := dateBounds(table)
	if !ok {
		return tabular.Failure(fmt.Sprintf("No date information available in the dataset for %s.", req.State))
	}
	if start.Before(first) || end.After(last) {
		return tabular.Failure(fmt.Sprintf("Data for %s is only available from %s to %s.",
			req.State, first.Format("2006-01-02"), last.Format("2006-01-02")))
	}

	attrs := req.Attributes
	if len(attrs) == 0 {
		attrs = defaultWeatherAttributes
	}
	var unknown []string
	var present []string
	for _, a := range attrs {
		a = strings.TrimSpace(a)
		if table.HasColumn(a) {
			present = append(present, a)
		} else {
			unknown = append(unknown, a)
		}
	}
	if len(unknown) > 0 {
		return tabular.Failure(fmt.Sprintf("The following attributes are not available in the dataset for %s: %s.",
			req.State, strings.Join(unknown, ", ")))
	}

	ft := table.Where(func(r tabular.Row) bool {
		ts, ok := r.Time("datetime")
		return ok && !ts.Before(start) && !ts.After(end)
	})
	selected, err := ft.Select(append([]string{"datetime"}, present...)...)
	if err != nil {
		return tabular.Failure(fmt.Sprintf("No data available for the specified state: %s.", req.State))
	}
	selected = selected.DropNull(present...)
	if selected.Len() == 0 {
		return tabular.Failure("No data available for the specified date range and attributes.")
	}
	return tabular.Success(selected)
}

// dateBounds scans the datetime column for the earliest and latest dates.
func dateBounds(t *tabular.Table) (time.Time, time.Time, bool) {
	var first, last time.Time
	var seen bool
	for i := 0; i < t.Len(); i++ {
		ts, ok := t.Cell(i, "datetime").(time.Time)
		if !ok {
			continue
		}
		if !seen || ts.Before(first) {
			first = ts
		}
		if !seen || ts.After(last) {
			last = ts
		}
		seen = true
	}
	return first, last, seen
}

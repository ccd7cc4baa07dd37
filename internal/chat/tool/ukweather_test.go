package tool

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/google/go-cmp/cmp"
)

func ukWeatherFixture() *tabular.Table {
	day := func(d int) time.Time {
		return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC)
	}
	return tabular.New("datetime", "name", "tempmax", "tempmin", "humidity", "precip", "windspeed", "conditions").
		Append(day(1), "United Kingdom", 8.0, 2.0, 85.0, 0.4, 20.0, "Overcast").
		Append(day(2), "United Kingdom", 9.0, 3.0, 80.0, 0.0, 15.0, "Clear").
		Append(day(3), "United Kingdom", 7.0, 1.0, 90.0, 2.1, 30.0, "Rain")
}

func TestUKWeatherTool_Run(t *testing.T) {
	tool := NewUKWeatherTool(ukWeatherFixture())

	t.Run("date range clamps instead of erroring", func(t *testing.T) {
		got := tool.Run(UKWeatherRequest{StartDate: "2022-12-01", EndDate: "2023-01-02"})
		if len(got.Data) != 2 {
			t.Fatalf("len(Data) = %d, want 2", len(got.Data))
		}
		if len(got.Messages) != 0 {
			t.Errorf("unexpected messages: %v", got.Messages)
		}
	})

	t.Run("default attribute set", func(t *testing.T) {
		got := tool.Run(UKWeatherRequest{StartDate: "2023-01-01", EndDate: "2023-01-01"})
		row := got.Data[0]
		for _, col := range []string{"datetime", "name", "tempmax", "tempmin", "humidity", "precip", "windspeed", "conditions"} {
			if _, present := row[col]; !present {
				t.Errorf("default result is missing %q", col)
			}
		}
	})

	t.Run("location all matches everything", func(t *testing.T) {
		got := tool.Run(UKWeatherRequest{Country: "All"})
		if len(got.Data) != 3 {
			t.Errorf("len(Data) = %d, want 3", len(got.Data))
		}
	})

	t.Run("unmatched location yields the empty message", func(t *testing.T) {
		got := tool.Run(UKWeatherRequest{Country: "Spain"})
		if len(got.Data) != 0 {
			t.Errorf("len(Data) = %d, want 0", len(got.Data))
		}
		want := []string{"No data available for the specified filters."}
		if !cmp.Equal(got.Messages, want) {
			t.Errorf("Messages = %v, want %v", got.Messages, want)
		}
	})

	t.Run("invalid attributes empty the result", func(t *testing.T) {
		got := tool.Run(UKWeatherRequest{Attributes: []string{"tempmax", "snow"}})
		want := []string{"Invalid attributes requested: snow"}
		if !cmp.Equal(got.Messages, want) {
			t.Errorf("Messages = %v, want %v", got.Messages, want)
		}
		if len(got.Data) != 0 {
			t.Errorf("len(Data) = %d, want 0", len(got.Data))
		}
	})

	t.Run("arguments decode from the published key names", func(t *testing.T) {
		out, err := tool.Execute(context.Background(),
			`{"Country":"United Kingdom","StartDate":"2023-01-01","EndDate":"2023-01-01","Attributes":["precip"]}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var res struct {
			Data []map[string]any `json:"data"`
		}
		if err := json.Unmarshal([]byte(out), &res); err != nil {
			t.Fatalf("result is not valid JSON: %v", err)
		}
		if len(res.Data) != 1 || res.Data[0]["precip"] != 0.4 {
			t.Errorf("result = %s, want one row with precip 0.4", out)
		}
	})

	t.Run("valid attributes project with datetime and name first", func(t *testing.T) {
		got := tool.Run(UKWeatherRequest{
			StartDate:  "2023-01-03",
			EndDate:    "2023-01-03",
			Attributes: []string{"precip"},
		})
		want := []map[string]any{{"datetime": "2023-01-03T00:00:00", "name": "United Kingdom", "precip": 2.1}}
		if diff := cmp.Diff(want, got.Data); diff != "" {
			t.Errorf("Data mismatch (-want +got):\n%s", diff)
		}
	})
}

package tool

import (
	"math"
	"testing"

	"github.com/atlasgrove/climascope/internal/tabular"
)

func averageFixture() *tabular.Table {
	// Australia's published sfc series; its mean rounds to 118.78.
	values := []float64{112.02, 114.58, 116.46, 118.27, 119.94, 120.63, 121.32, 121.24, 121.13, 120.79, 120.25}
	tab := tabular.New("Country or Area", "Year", "sfc_emissions")
	for i, v := range values {
		tab.Append("Australia", int64(2010+i), v)
	}
	tab.Append("Spain", int64(2020), 58.0)
	return tab
}

func TestEmissionsAverageTool_Run(t *testing.T) {
	tool := NewEmissionsAverageTool(averageFixture())

	t.Run("average across all years", func(t *testing.T) {
		got, ok := tool.Run(EmissionsAverageRequest{
			Country:      "Australia",
			EmissionType: "sfc_emissions",
		}).(AverageResult)
		if !ok {
			t.Fatal("expected AverageResult")
		}
		if math.Abs(got.AverageEmission-118.78) > 0.01 {
			t.Errorf("AverageEmission = %v, want 118.78", got.AverageEmission)
		}
		if got.Country != "Australia" || got.EmissionType != "sfc_emissions" {
			t.Errorf("echo fields wrong: %+v", got)
		}
	})

	t.Run("last years window is descending by year", func(t *testing.T) {
		got, ok := tool.Run(EmissionsAverageRequest{
			Country:      "Australia",
			EmissionType: "sfc_emissions",
			TrendType:    "last 3 years",
			NumYears:     3,
		}).(TrendResult)
		if !ok {
			t.Fatal("expected TrendResult")
		}
		if got.TrendType != "last" || got.NumYears != 3 {
			t.Errorf("trend echo wrong: %+v", got)
		}
		if len(got.Data) != 3 {
			t.Fatalf("len(Data) = %d, want 3", len(got.Data))
		}
		if got.Data[0]["Year"] != int64(2020) {
			t.Errorf("first row year = %v, want 2020", got.Data[0]["Year"])
		}
	})

	t.Run("first years window is ascending by year", func(t *testing.T) {
		got := tool.Run(EmissionsAverageRequest{
			Country:      "Australia",
			EmissionType: "sfc_emissions",
			TrendType:    "first 2 years",
			NumYears:     2,
		}).(TrendResult)
		if got.Data[0]["Year"] != int64(2010) {
			t.Errorf("first row year = %v, want 2010", got.Data[0]["Year"])
		}
	})

	t.Run("num_years defaults to five", func(t *testing.T) {
		got := tool.Run(EmissionsAverageRequest{
			Country:      "Australia",
			EmissionType: "sfc_emissions",
			TrendType:    "trend for recent years",
		}).(TrendResult)
		if got.NumYears != 5 || len(got.Data) != 5 {
			t.Errorf("NumYears = %d len(Data) = %d, want 5 and 5", got.NumYears, len(got.Data))
		}
		if got.TrendType != "recent" {
			t.Errorf("TrendType = %q, want recent", got.TrendType)
		}
	})

	t.Run("unknown country", func(t *testing.T) {
		got, ok := tool.Run(EmissionsAverageRequest{Country: "Atlantis", EmissionType: "sfc_emissions"}).(ErrorResult)
		if !ok {
			t.Fatal("expected ErrorResult")
		}
		if got.Error != "No data available for the specified country: Atlantis." {
			t.Errorf("Error = %q", got.Error)
		}
	})

	t.Run("unknown emission type", func(t *testing.T) {
		got := tool.Run(EmissionsAverageRequest{Country: "Australia", EmissionType: "co_emissions"}).(ErrorResult)
		if got.Error != `Emission type "co_emissions" does not exist.` {
			t.Errorf("Error = %q", got.Error)
		}
	})

	t.Run("invalid trend type", func(t *testing.T) {
		got := tool.Run(EmissionsAverageRequest{
			Country:      "Australia",
			EmissionType: "sfc_emissions",
			TrendType:    "sideways",
		}).(ErrorResult)
		if got.Error != invalidTrendMessage {
			t.Errorf("Error = %q, want the invalid trend message", got.Error)
		}
	})
}

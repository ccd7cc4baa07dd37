package tool

import (
	"testing"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sectorFixture() *tabular.Table {
	return tabular.New("Country", "Sector", "Year", "Description", "Emission Value").
		Append("Spain", "Power", int64(2019), "Coal share", 10.0).
		Append("Spain", "Power", int64(2020), "Coal share", 20.0).
		Append("Spain", "Industry", int64(2019), "Steel output", 6.0).
		Append("France", "Power", int64(2019), "Coal share", 4.0)
}

func TestSectorEmissionsTool_Run(t *testing.T) {
	tool := NewSectorEmissionsTool(sectorFixture())

	t.Run("country alone triggers per-sector averages", func(t *testing.T) {
		got := tool.Run(SectorEmissionsRequest{Country: tabular.Values("Spain")})
		want := []map[string]any{
			{"Country": "Spain", "Sector": "Industry", "Average Emission Value": 6.0},
			{"Country": "Spain", "Sector": "Power", "Average Emission Value": 15.0},
		}
		if diff := cmp.Diff(want, got.Data, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("Data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("a concrete year disables averaging", func(t *testing.T) {
		got := tool.Run(SectorEmissionsRequest{
			Country: tabular.Values("Spain"),
			Year:    tabular.Values(int64(2020)),
		})
		if len(got.Data) != 1 {
			t.Fatalf("len(Data) = %d, want 1 raw row", len(got.Data))
		}
		if _, averaged := got.Data[0]["Average Emission Value"]; averaged {
			t.Error("year-filtered query must not average")
		}
	})

	t.Run("a concrete sector disables averaging", func(t *testing.T) {
		got := tool.Run(SectorEmissionsRequest{
			Country: tabular.Values("Spain"),
			Sector:  tabular.Values("Power"),
		})
		if len(got.Data) != 2 {
			t.Fatalf("len(Data) = %d, want 2 raw rows", len(got.Data))
		}
	})

	t.Run("concrete description joins the grouping keys", func(t *testing.T) {
		got := tool.Run(SectorEmissionsRequest{
			Country:     tabular.Values("Spain"),
			Description: tabular.Values("Coal share"),
		})
		if len(got.Data) != 1 {
			t.Fatalf("len(Data) = %d, want 1 averaged row", len(got.Data))
		}
		if got.Data[0]["Description"] != "Coal share" {
			t.Errorf("Description = %v, want Coal share", got.Data[0]["Description"])
		}
		if got.Data[0]["Average Emission Value"] != 15.0 {
			t.Errorf("Average Emission Value = %v, want 15", got.Data[0]["Average Emission Value"])
		}
	})

	t.Run("missing sector is reported", func(t *testing.T) {
		got := tool.Run(SectorEmissionsRequest{
			Country: tabular.Values("Spain"),
			Sector:  tabular.Values("Power", "Agriculture"),
		})
		wantMsg := []string{"Data for the following sectors isn't available: Agriculture"}
		if !cmp.Equal(got.Messages, wantMsg) {
			t.Errorf("Messages = %v, want %v", got.Messages, wantMsg)
		}
	})
}

package tool

import (
	"testing"
	"time"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func ninjaPVFixture() *tabular.Table {
	h := func(day, hour int) time.Time {
		return time.Date(2019, 6, day, hour, 0, 0, 0, time.UTC)
	}
	return tabular.New("time", "GB", "FR").
		Append(h(1, 0), 0.0, 0.1).
		Append(h(1, 12), 0.6, 0.8).
		Append(h(2, 12), 0.4, 0.6)
}

func ninjaWindFixture() *tabular.Table {
	return tabular.New("time", "GB").
		Append(time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), 0.35)
}

func newNinjaFixtureTool() *RenewablesTool {
	return NewRenewablesTool(ninjaPVFixture(), ninjaWindFixture(), tabular.New("time"), tabular.New("time"))
}

func TestRenewablesTool_Run(t *testing.T) {
	tool := newNinjaFixtureTool()

	t.Run("invalid level yields null data", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{Level: "nuclear"})
		if got.Data != nil {
			t.Errorf("Data = %v, want null", got.Data)
		}
		want := []string{"Value error: Invalid level specified."}
		if !cmp.Equal(got.Messages, want) {
			t.Errorf("Messages = %v, want %v", got.Messages, want)
		}
	})

	t.Run("ISO codes melt to country names", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{Level: "pv", Countries: tabular.Values("United Kingdom")})
		if len(got.Data) != 3 {
			t.Fatalf("len(Data) = %d, want 3", len(got.Data))
		}
		for _, row := range got.Data {
			if row["country"] != "United Kingdom" {
				t.Fatalf("country = %v, want United Kingdom", row["country"])
			}
		}
	})

	t.Run("wind uses the current fleet by default", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{Level: "wind"})
		if len(got.Data) != 1 {
			t.Fatalf("len(Data) = %d, want 1", len(got.Data))
		}
		if got.Data[0]["capacity_factor"] != 0.35 {
			t.Errorf("capacity_factor = %v, want 0.35", got.Data[0]["capacity_factor"])
		}
	})

	t.Run("longterm flag selects the empty fixture table", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{Level: "wind", Flag: "longterm"})
		if len(got.Data) != 0 {
			t.Errorf("len(Data) = %d, want 0", len(got.Data))
		}
	})

	t.Run("date filter reports missing dates", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{
			Level: "pv",
			Dates: tabular.Values("2019-06-01", "2019-07-15"),
		})
		if len(got.Data) != 4 {
			t.Errorf("len(Data) = %d, want the 4 June 1st rows", len(got.Data))
		}
		want := []string{"Data for the following dates isn't available: 2019-07-15"}
		if !cmp.Equal(got.Messages, want) {
			t.Errorf("Messages = %v, want %v", got.Messages, want)
		}
	})

	t.Run("hour filter narrows to matching hours", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{
			Level: "pv",
			Hours: tabular.Values(int64(12)),
		})
		if len(got.Data) != 4 {
			t.Errorf("len(Data) = %d, want 4 noon rows", len(got.Data))
		}
	})

	t.Run("out-of-domain months are reported", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{
			Level:  "pv",
			Months: tabular.Values(int64(6), int64(13)),
		})
		want := []string{"Incorrect months: 13"}
		if !cmp.Equal(got.Messages, want) {
			t.Errorf("Messages = %v, want %v", got.Messages, want)
		}
		if len(got.Data) != 6 {
			t.Errorf("len(Data) = %d, want all June rows", len(got.Data))
		}
	})

	t.Run("daily merge averages per country and day", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{
			Level:     "pv",
			Countries: tabular.Values("France"),
			DataMerge: "daily",
		})
		want := []map[string]any{
			{"time": "2019-06-02", "country": "France", "capacity_factor": 0.6},
			{"time": "2019-06-01", "country": "France", "capacity_factor": 0.45},
		}
		if diff := cmp.Diff(want, got.Data, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("daily merge mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("group by country averages the series", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{
			Level:     "pv",
			GroupBy:   "country",
			Aggregate: "mean",
		})
		if len(got.Data) != 2 {
			t.Fatalf("len(Data) = %d, want 2 countries", len(got.Data))
		}
		if got.Data[0]["country"] != "France" {
			t.Errorf("first group = %v, want France (highest mean)", got.Data[0]["country"])
		}
	})

	t.Run("aggregate alone collapses to one row", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{Level: "pv", Aggregate: "max"})
		if len(got.Data) != 1 {
			t.Fatalf("len(Data) = %d, want 1", len(got.Data))
		}
		if got.Data[0]["capacity_factor"] != 0.8 {
			t.Errorf("max = %v, want 0.8", got.Data[0]["capacity_factor"])
		}
	})

	t.Run("rows come back descending by capacity factor by default", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{Level: "pv"})
		if len(got.Data) != 6 {
			t.Fatalf("len(Data) = %d, want 6", len(got.Data))
		}
		if got.Data[0]["capacity_factor"] != 0.8 {
			t.Errorf("first row = %v, want the 0.8 peak", got.Data[0])
		}
		if got.Data[5]["capacity_factor"] != 0.0 {
			t.Errorf("last row = %v, want the 0.0 trough", got.Data[5])
		}
	})

	t.Run("sort and n pick the top rows", func(t *testing.T) {
		got := tool.Run(RenewablesRequest{Level: "pv", Sort: "descending", N: 2})
		if len(got.Data) != 2 {
			t.Fatalf("len(Data) = %d, want 2", len(got.Data))
		}
		if got.Data[0]["capacity_factor"] != 0.8 || got.Data[1]["capacity_factor"] != 0.6 {
			t.Errorf("top rows = %v, want 0.8 then 0.6", got.Data)
		}
	})
}

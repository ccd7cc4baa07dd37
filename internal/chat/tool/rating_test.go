package tool

import (
	"testing"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/google/go-cmp/cmp"
)

func ratingFixture() *tabular.Table {
	return tabular.New("Country", "Overall rating", "Policies and action", "Net zero target").
		Append("Spain", "Insufficient", "Insufficient", "Average").
		Append("Spain", "Insufficient", "Insufficient", "Average").
		Append("Morocco", "Almost sufficient", "Compatible", "Poor")
}

func TestCountryRatingTool_Run(t *testing.T) {
	tool := NewCountryRatingTool(ratingFixture())

	t.Run("duplicate rows collapse", func(t *testing.T) {
		got := tool.Run(CountryRatingRequest{Country: tabular.Values("Spain")})
		if len(got.Data) != 1 {
			t.Fatalf("len(Data) = %d, want 1 deduplicated row", len(got.Data))
		}
	})

	t.Run("component selection keeps the country column", func(t *testing.T) {
		got := tool.Run(CountryRatingRequest{
			Country:   tabular.Values("Morocco"),
			Component: tabular.Values("Overall rating"),
		})
		want := []map[string]any{{"Country": "Morocco", "Overall rating": "Almost sufficient"}}
		if diff := cmp.Diff(want, got.Data); diff != "" {
			t.Errorf("Data mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("unknown component is reported", func(t *testing.T) {
		got := tool.Run(CountryRatingRequest{
			Country:   tabular.Values("Morocco"),
			Component: tabular.Values("Overall rating", "Vibes"),
		})
		wantMsg := []string{"Data for the following components isn't available: Vibes"}
		if !cmp.Equal(got.Messages, wantMsg) {
			t.Errorf("Messages = %v, want %v", got.Messages, wantMsg)
		}
		if len(got.Data) != 1 {
			t.Errorf("known components should still come back, got %v", got.Data)
		}
	})

	t.Run("unknown country is reported", func(t *testing.T) {
		got := tool.Run(CountryRatingRequest{Country: tabular.Values("Atlantis")})
		wantMsg := []string{"Data for the following countries isn't available: Atlantis"}
		if !cmp.Equal(got.Messages, wantMsg) {
			t.Errorf("Messages = %v, want %v", got.Messages, wantMsg)
		}
		if len(got.Data) != 0 {
			t.Errorf("len(Data) = %d, want 0", len(got.Data))
		}
	})
}

package tabular

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestResolveYears(t *testing.T) {
	available := []int{2000, 2001, 2002, 2003, 2004, 2005, 2006, 2007, 2008, 2009, 2010}

	t.Run("no parameters means every year", func(t *testing.T) {
		got := ResolveYears(available, 0, 0, 0, 0)
		if !cmp.Equal(got, available) {
			t.Errorf("got %v, want all years", got)
		}
	})

	t.Run("start and end bound the range", func(t *testing.T) {
		got := ResolveYears(available, 2002, 2004, 0, 0)
		if !cmp.Equal(got, []int{2002, 2003, 2004}) {
			t.Errorf("got %v, want [2002 2003 2004]", got)
		}
	})

	t.Run("start alone is a single year", func(t *testing.T) {
		got := ResolveYears(available, 2005, 0, 0, 0)
		if !cmp.Equal(got, []int{2005}) {
			t.Errorf("got %v, want [2005]", got)
		}
	})

	t.Run("decade covers ten years", func(t *testing.T) {
		got := ResolveYears(available, 0, 0, 2000, 0)
		if !cmp.Equal(got, []int{2000, 2001, 2002, 2003, 2004, 2005, 2006, 2007, 2008, 2009}) {
			t.Errorf("got %v, want the 2000s", got)
		}
	})

	t.Run("interval steps through the range", func(t *testing.T) {
		got := ResolveYears(available, 2000, 2008, 0, 4)
		if !cmp.Equal(got, []int{2000, 2004, 2008}) {
			t.Errorf("got %v, want [2000 2004 2008]", got)
		}
	})

	t.Run("interval wins over the plain range", func(t *testing.T) {
		withRange := ResolveYears(available, 2000, 2004, 0, 2)
		if !cmp.Equal(withRange, []int{2000, 2002, 2004}) {
			t.Errorf("got %v, want [2000 2002 2004]", withRange)
		}
	})

	t.Run("years outside the dataset drop out", func(t *testing.T) {
		got := ResolveYears(available, 2009, 2015, 0, 0)
		if !cmp.Equal(got, []int{2009, 2010}) {
			t.Errorf("got %v, want [2009 2010]", got)
		}
	})

	t.Run("fully out of range is empty", func(t *testing.T) {
		if got := ResolveYears(available, 2050, 0, 0, 0); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}

func TestYearColumns(t *testing.T) {
	tab := New("Country", "1961", "1962", "Unit")
	got := YearColumns(tab)
	if !cmp.Equal(got, []int{1961, 1962}) {
		t.Errorf("YearColumns() = %v, want [1961 1962]", got)
	}
}

func TestResample(t *testing.T) {
	day1 := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	tab := New("time", "country", "capacity_factor").
		Append(day1, "Spain", 0.2).
		Append(day1.Add(time.Hour), "Spain", 0.4).
		Append(day1.AddDate(0, 1, 0), "Spain", 0.6)

	t.Run("daily buckets by date", func(t *testing.T) {
		got, err := Resample(tab, "time", Daily, []string{"country"}, "capacity_factor")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []map[string]any{
			{"time": "2019-01-01", "country": "Spain", "capacity_factor": 0.3},
			{"time": "2019-02-01", "country": "Spain", "capacity_factor": 0.6},
		}
		if diff := cmp.Diff(want, got.Records(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
			t.Errorf("Resample(Daily) mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("yearly buckets by year number", func(t *testing.T) {
		got, err := Resample(tab, "time", Yearly, []string{"country"}, "capacity_factor")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Len() != 1 {
			t.Fatalf("Len() = %d, want 1", got.Len())
		}
		if v, _ := AsFloat(got.Cell(0, "capacity_factor")); !almostEqual(v, 0.4) {
			t.Errorf("yearly mean = %v, want 0.4", v)
		}
	})

	t.Run("unknown level is an error", func(t *testing.T) {
		if _, err := Resample(tab, "time", ResampleLevel("weekly"), []string{"country"}, "capacity_factor"); err == nil {
			t.Fatal("expected error for unknown level, got nil")
		}
	})
}

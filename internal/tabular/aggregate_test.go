package tabular

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReduce(t *testing.T) {
	vals := []float64{1, 2, 3, 4}

	cases := []struct {
		method Method
		want   float64
	}{
		{Mean, 2.5},
		{Median, 2.5},
		{Sum, 10},
		{Min, 1},
		{Max, 4},
		{Var, 5.0 / 3.0},                        // sample variance, ddof=1
		{Sem, math.Sqrt(5.0/3.0) / 2},           // sample sd / sqrt(n)
		{First, 1},
		{Last, 4},
	}
	for _, c := range cases {
		got, err := Reduce(vals, c.method)
		if err != nil {
			t.Fatalf("Reduce(%s): unexpected error: %v", c.method, err)
		}
		if !almostEqual(got, c.want) {
			t.Errorf("Reduce(%s) = %v, want %v", c.method, got, c.want)
		}
	}

	t.Run("empty series is an error", func(t *testing.T) {
		if _, err := Reduce(nil, Mean); err == nil {
			t.Fatal("expected error for empty series, got nil")
		}
	})
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod(""); err != nil || m != Mean {
		t.Errorf("ParseMethod(\"\") = (%v, %v), want (mean, nil)", m, err)
	}
	if _, err := ParseMethod("mode"); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestGroupBy(t *testing.T) {
	tab := New("Country", "Sector", "Value").
		Append("Spain", "Power", 10.0).
		Append("Spain", "Power", 20.0).
		Append("Spain", "Industry", 5.0).
		Append("France", "Power", 8.0)

	t.Run("reduces per group and orders by key", func(t *testing.T) {
		got, err := GroupBy(tab, []string{"Country", "Sector"}, []string{"Value"}, Mean)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []map[string]any{
			{"Country": "France", "Sector": "Power", "Value": 8.0},
			{"Country": "Spain", "Sector": "Industry", "Value": 5.0},
			{"Country": "Spain", "Sector": "Power", "Value": 15.0},
		}
		if diff := cmp.Diff(want, got.Records()); diff != "" {
			t.Errorf("GroupBy() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("sum method", func(t *testing.T) {
		got, err := GroupBy(tab, []string{"Country"}, []string{"Value"}, Sum)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Len() != 2 {
			t.Fatalf("Len() = %d, want 2", got.Len())
		}
		// France sorts first.
		if v := got.Cell(1, "Value"); v != 35.0 {
			t.Errorf("Spain sum = %v, want 35", v)
		}
	})

	t.Run("missing key column is an error", func(t *testing.T) {
		if _, err := GroupBy(tab, []string{"Region"}, []string{"Value"}, Mean); err == nil {
			t.Fatal("expected error for unknown key column, got nil")
		}
	})
}

func TestAggregate(t *testing.T) {
	tab := New("p0.05", "p0.50").
		Append(1.0, 10.0).
		Append(3.0, 30.0)

	got, err := Aggregate(tab, []string{"p0.05", "p0.50"}, Mean)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []map[string]any{{"p0.05": 2.0, "p0.50": 20.0}}
	if diff := cmp.Diff(want, got.Records()); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

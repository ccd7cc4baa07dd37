package tabular

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func decodeFilter(t *testing.T, raw string) FilterValue {
	t.Helper()
	var v FilterValue
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("unmarshal %s: %v", raw, err)
	}
	return v
}

func TestFilterValue_Unmarshal(t *testing.T) {
	t.Run("null is omitted", func(t *testing.T) {
		if v := decodeFilter(t, `null`); !v.IsOmitted() {
			t.Error("null should decode as omitted")
		}
	})

	t.Run("all is the wildcard regardless of case", func(t *testing.T) {
		for _, raw := range []string{`"all"`, `"All"`, `"ALL"`} {
			if v := decodeFilter(t, raw); !v.IsAll() {
				t.Errorf("%s should decode as the wildcard", raw)
			}
		}
	})

	t.Run("comma-separated string splits", func(t *testing.T) {
		v := decodeFilter(t, `"Spain, France"`)
		want := []string{"Spain", "France"}
		if !cmp.Equal(v.Strings(), want) {
			t.Errorf("Strings() = %v, want %v", v.Strings(), want)
		}
	})

	t.Run("scalar and list are concrete", func(t *testing.T) {
		if v := decodeFilter(t, `"Spain"`); !v.IsConcrete() {
			t.Error("scalar should be concrete")
		}
		if v := decodeFilter(t, `["Spain","France"]`); !v.IsConcrete() {
			t.Error("list should be concrete")
		}
	})

	t.Run("empty list is omitted", func(t *testing.T) {
		if v := decodeFilter(t, `[]`); !v.IsOmitted() {
			t.Error("empty list should be omitted")
		}
	})

	t.Run("number is concrete", func(t *testing.T) {
		if v := decodeFilter(t, `2020`); !v.IsConcrete() {
			t.Error("number should be concrete")
		}
	})
}

func TestFilter(t *testing.T) {
	tab := New("Country", "Year").
		Append("Spain", int64(2020)).
		Append("Spain", int64(2021)).
		Append("France", int64(2020))

	t.Run("wildcard passes everything through", func(t *testing.T) {
		got, missing := Filter(tab, "Country", All)
		if got.Len() != 3 || missing != nil {
			t.Errorf("wildcard filter changed the table: len=%d missing=%v", got.Len(), missing)
		}
	})

	t.Run("concrete values narrow and report missing", func(t *testing.T) {
		got, missing := Filter(tab, "Country", Values("Spain", "Atlantis"))
		if got.Len() != 2 {
			t.Errorf("Len() = %d, want 2", got.Len())
		}
		if !cmp.Equal(missing, []string{"Atlantis"}) {
			t.Errorf("missing = %v, want [Atlantis]", missing)
		}
	})

	t.Run("numeric values match regardless of width", func(t *testing.T) {
		got, missing := Filter(tab, "Year", Values(float64(2020)))
		if got.Len() != 2 || len(missing) != 0 {
			t.Errorf("float 2020 should match int64 2020 rows: len=%d missing=%v", got.Len(), missing)
		}
	})

	t.Run("missing is judged against the current table", func(t *testing.T) {
		narrowed, _ := Filter(tab, "Country", Values("France"))
		_, missing := Filter(narrowed, "Year", Values(int64(2021)))
		if !cmp.Equal(missing, []string{"2021"}) {
			t.Errorf("missing = %v, want [2021]: 2021 has no France rows", missing)
		}
	})
}

func TestFilterContains(t *testing.T) {
	tab := New("Country").
		Append("United States").
		Append("United Kingdom").
		Append("France")

	got := FilterContains(tab, "Country", "united")
	if got.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.Len())
	}
}

func TestFilterDomain(t *testing.T) {
	tab := New("Month").
		Append(int64(1)).
		Append(int64(6)).
		Append(int64(12))
	byMonth := func(r Row) (int, bool) {
		f, ok := r.Float("Month")
		return int(f), ok
	}

	t.Run("in-domain values filter", func(t *testing.T) {
		got, incorrect := FilterDomain(tab, Values(int64(6)), 1, 12, byMonth)
		if got.Len() != 1 || len(incorrect) != 0 {
			t.Errorf("len=%d incorrect=%v, want 1 row and no incorrect values", got.Len(), incorrect)
		}
	})

	t.Run("out-of-domain values are reported", func(t *testing.T) {
		got, incorrect := FilterDomain(tab, Values(int64(6), int64(13)), 1, 12, byMonth)
		if got.Len() != 1 {
			t.Errorf("Len() = %d, want 1", got.Len())
		}
		if !cmp.Equal(incorrect, []string{"13"}) {
			t.Errorf("incorrect = %v, want [13]", incorrect)
		}
	})

	t.Run("wildcard passes through", func(t *testing.T) {
		got, incorrect := FilterDomain(tab, FilterValue{}, 1, 12, byMonth)
		if got.Len() != 3 || incorrect != nil {
			t.Errorf("wildcard changed the table: len=%d incorrect=%v", got.Len(), incorrect)
		}
	})
}

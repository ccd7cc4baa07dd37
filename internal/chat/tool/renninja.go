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

// isoCountryNames maps the ISO 3166-1 alpha-2 codes used as column headers
// in the Renewables.ninja exports to display names. Codes without an entry
// pass through unchanged.
var isoCountryNames = map[string]string{
	"AT": "Austria",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"CH": "Switzerland",
	"CY": "Cyprus",
	"CZ": "Czechia",
	"DE": "Germany",
	"DK": "Denmark",
	"EE": "Estonia",
	"ES": "Spain",
	"FI": "Finland",
	"FR": "France",
	"GB": "United Kingdom",
	"GR": "Greece",
	"HR": "Croatia",
	"HU": "Hungary",
	"IE": "Ireland",
	"IT": "Italy",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"LV": "Latvia",
	"MK": "North Macedonia",
	"MT": "Malta",
	"NL": "Netherlands",
	"NO": "Norway",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"RS": "Serbia",
	"SE": "Sweden",
	"SI": "Slovenia",
	"SK": "Slovakia",
	"UA": "Ukraine",
}

// RenewablesTool answers get_ren_ninja over the Renewables.ninja hourly
// capacity factor exports. The wide per-country exports are melted into
// (time, country, capacity_factor) rows on load so every downstream stage
// works on one long table.
type RenewablesTool struct {
	pv           *tabular.Table
	wind         *tabular.Table
	windLongterm *tabular.Table
	windNearterm *tabular.Table
}

// NewRenewablesTool melts the four wide exports up front; the melted
// tables are shared by every call.
func NewRenewablesTool(pv, wind, windLongterm, windNearterm *tabular.Table) *RenewablesTool {
	return &RenewablesTool{
		pv:           meltCapacityFactors(pv),
		wind:         meltCapacityFactors(wind),
		windLongterm: meltCapacityFactors(windLongterm),
		windNearterm: meltCapacityFactors(windNearterm),
	}
}

func meltCapacityFactors(wide *tabular.Table) *tabular.Table {
	long := tabular.New("time", "country", "capacity_factor")
	if wide == nil {
		return long
	}
	for i := 0; i < wide.Len(); i++ {
		ts := wide.Cell(i, "time")
		for _, col := range wide.Columns() {
			if col == "time" {
				continue
			}
			name := col
			if full, ok := isoCountryNames[col]; ok {
				name = full
			}
			long.Append(ts, name, wide.Cell(i, col))
		}
	}
	return long
}

type RenewablesRequest struct {
	Level     string              `json:"level"`
	Flag      string              `json:"flag"`
	Countries tabular.FilterValue `json:"countries"`
	Dates     tabular.FilterValue `json:"dates"`
	Months    tabular.FilterValue `json:"months"`
	Years     tabular.FilterValue `json:"years"`
	Hours     tabular.FilterValue `json:"hours"`
	DataMerge string              `json:"data_merge"`
	GroupBy   string              `json:"group_by"`
	Aggregate string              `json:"aggregate"`
	Sort      string              `json:"sort"`
	N         int                 `json:"n"`
}

func (t *RenewablesTool) Name() string { return "get_ren_ninja" }

func (t *RenewablesTool) Description() string {
	return "Query hourly solar PV and wind capacity factors for European countries from Renewables.ninja " +
		"simulations (1980-2019). Level is 'pv' or 'wind'; for wind, flag selects the 'longterm', 'nearterm' or " +
		"'current' fleet model. Filter by countries, dates (YYYY-MM-DD), months, years and hours; optionally " +
		"resample to daily, monthly or yearly means, group by country or time, aggregate, sort and limit."
}

func (t *RenewablesTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"level": map[string]any{
				"type":        "string",
				"description": "Energy source: 'pv' or 'wind'. Required.",
			},
			"flag": map[string]any{
				"type":        "string",
				"description": "Wind fleet model: 'longterm', 'nearterm' or 'current'. Ignored for pv.",
			},
			"countries": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "Countries to include. Omit for all.",
			},
			"dates": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "string"},
				"description": "Dates to include, in YYYY-MM-DD format.",
			},
			"months": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "integer"},
				"description": "Months to include, 1 through 12.",
			},
			"years": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "integer"},
				"description": "Years to include.",
			},
			"hours": map[string]any{
				"type":        "array",
				"items":       map[string]string{"type": "integer"},
				"description": "Hours of day to include, 0 through 23.",
			},
			"data_merge": map[string]any{
				"type":        "string",
				"description": "Resample to 'daily', 'monthly' or 'yearly' mean capacity factors.",
			},
			"group_by": map[string]any{
				"type":        "string",
				"description": "Group the result by 'country' or 'time'.",
			},
			"aggregate": map[string]any{
				"type":        "string",
				"description": "Aggregation method: mean, median, sum, var, sem, min or max.",
			},
			"sort": map[string]any{
				"type":        "string",
				"description": "'ascending' or 'descending' by capacity factor.",
			},
			"n": map[string]any{
				"type":        "integer",
				"description": "Limit the result to the first n rows after sorting.",
			},
		},
		"required": []string{"level"},
	}
}

func (t *RenewablesTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req RenewablesRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *RenewablesTool) table(level, flag string) *tabular.Table {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "pv":
		return t.pv
	case "wind":
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "longterm":
			return t.windLongterm
		case "nearterm":
			return t.windNearterm
		default:
			return t.wind
		}
	default:
		return nil
	}
}

func (t *RenewablesTool) Run(req RenewablesRequest) *tabular.Result {
	src := t.table(req.Level, req.Flag)
	if src == nil {
		return tabular.NullResult([]string{"Value error: Invalid level specified."})
	}

	var msgs tabular.Messages
	ft := src.Clone()

	ft, missing := tabular.Filter(ft, "country", req.Countries)
	if len(missing) > 0 {
		msgs.Addf("Data for the following countries isn't available: %s", strings.Join(missing, ", "))
	}

	if req.Dates.IsConcrete() {
		ft, missing = filterTimestamps(ft, req.Dates.Strings(), func(ts time.Time) string {
			return ts.Format("2006-01-02")
		})
		if len(missing) > 0 {
			msgs.Addf("Data for the following dates isn't available: %s", strings.Join(missing, ", "))
		}
	}

	ft, incorrect := tabular.FilterDomain(ft, req.Months, 1, 12, func(r tabular.Row) (int, bool) {
		ts, ok := r.Time("time")
		return int(ts.Month()), ok
	})
	if len(incorrect) > 0 {
		msgs.Addf("Incorrect months: %s", strings.Join(incorrect, ", "))
	}

	if req.Years.IsConcrete() {
		ft, missing = filterTimestamps(ft, req.Years.Strings(), func(ts time.Time) string {
			return fmt.Sprint(ts.Year())
		})
		if len(missing) > 0 {
			msgs.Addf("Data for the following years isn't available: %s", strings.Join(missing, ", "))
		}
	}

	ft, incorrect = tabular.FilterDomain(ft, req.Hours, 0, 23, func(r tabular.Row) (int, bool) {
		ts, ok := r.Time("time")
		return ts.Hour(), ok
	})
	if len(incorrect) > 0 {
		msgs.Addf("Incorrect hours: %s", strings.Join(incorrect, ", "))
	}

	if req.DataMerge != "" {
		merged, err := tabular.Resample(ft, "time", tabular.ResampleLevel(strings.ToLower(req.DataMerge)), []string{"country"}, "capacity_factor")
		if err != nil {
			msgs.Addf("Invalid data_merge level: %s", req.DataMerge)
		} else {
			ft = merged
		}
	}

	switch {
	case req.GroupBy == "country" || req.GroupBy == "time":
		grouped, err := tabular.GroupBy(ft, []string{req.GroupBy}, []string{"capacity_factor"}, mustMethod(req.Aggregate))
		if err == nil {
			ft = grouped
		}
	case req.GroupBy != "":
		msgs.Addf("Invalid group_by column: %s", req.GroupBy)
	case req.Aggregate != "":
		if agg, err := tabular.Aggregate(ft, []string{"capacity_factor"}, mustMethod(req.Aggregate)); err == nil {
			ft = agg
		}
	}

	ft = tabular.SortByNumeric(ft, []string{"capacity_factor"}, req.Sort == "ascending")
	if req.N > 0 {
		ft = tabular.Head(ft, req.N)
	}
	return tabular.NewResult(ft, msgs)
}

// filterTimestamps keeps only rows whose time column renders (via key) to
// one of the wanted labels, and reports wanted labels with no rows in the
// current table.
func filterTimestamps(t *tabular.Table, wanted []string, key func(ts time.Time) string) (*tabular.Table, []string) {
	present := map[string]bool{}
	for i := 0; i < t.Len(); i++ {
		if ts, ok := t.Cell(i, "time").(time.Time); ok {
			present[key(ts)] = true
		}
	}
	want := map[string]bool{}
	var missing []string
	for _, w := range wanted {
		w = strings.TrimSpace(w)
		want[w] = true
		if !present[w] {
			missing = append(missing, w)
		}
	}
	filtered := t.Where(func(r tabular.Row) bool {
		ts, ok := r.Time("time")
		return ok && want[key(ts)]
	})
	return filtered, missing
}

func mustMethod(s string) tabular.Method {
	m, err := tabular.ParseMethod(s)
	if err != nil {
		return tabular.Mean
	}
	return m
}

// Package store loads the dataset CSV files once at startup and hands the
// resulting immutable tables to the tool façades. Nothing here re-reads a
// file per call; queries clone tables before touching them.
package store

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atlasgrove/climascope/internal/tabular"
)

// Option tweaks CSV parsing for one dataset.
type Option func(*loadConfig)

type loadConfig struct {
	timeLayouts map[string]string
}

// WithTimeColumn parses the named column as time.Time using layout.
func WithTimeColumn(col, layout string) Option {
	return func(c *loadConfig) {
		c.timeLayouts[col] = layout
	}
}

// LoadCSV reads one CSV file into a table. Cells parse to int64 or
// float64 when they look numeric, time.Time for declared time columns,
// and stay strings otherwise. Empty cells become nil.
func LoadCSV(path string, opts ...Option) (*tabular.Table, error) {
	cfg := &loadConfig{timeLayouts: map[string]string{}}
	for _, o := range opts {
		o(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading %s: empty file", path)
	}

	header := records[0]
	t := tabular.New(header...)
	for _, rec := range records[1:] {
		row := make([]any, len(header))
		for i := range header {
			if i >= len(rec) {
				continue
			}
			row[i] = parseCell(header[i], rec[i], cfg)
		}
		t.Append(row...)
	}
	return t, nil
}

func parseCell(col, raw string, cfg *loadConfig) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if layout, ok := cfg.timeLayouts[col]; ok {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
		return s
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Store holds every loaded dataset by name.
type Store struct {
	tables map[string]*tabular.Table
}

// Dataset names the fixed CSV-backed tables the tools query.
const (
	GreenhouseEmissions = "greenhouse_emissions"
	ClimateIndicators   = "climate_indicators"
	SectorEmissions     = "sector_emissions"
	CountryRatings      = "country_ratings"
	EnergyEmissions     = "energy_emissions"
	FuelEmissions       = "fuel_emissions"
	CarbonMonitor       = "carbon_monitor"
	GlobalCarbon        = "global_carbon"
	Deforestation       = "deforestation"
	EnergyMix           = "energy_mix"
	EmissionMonitoring  = "emission_monitoring"
	SurfaceWater        = "surface_water"
	OilInfo             = "oil_info"
	UKWeather           = "uk_weather"

	CILAnnual  = "cil_tas_annual"
	CILSummer  = "cil_tas_jja"
	CILWinter  = "cil_tas_djf"
	CILUnder32 = "cil_tasmin_u32"
	CILOver95  = "cil_tasmax_o95"

	NinjaPV           = "ninja_pv"
	NinjaWind         = "ninja_wind_current"
	NinjaWindLongterm = "ninja_wind_longterm"
	NinjaWindNearterm = "ninja_wind_nearterm"
)

// manifest maps dataset names to their file and parse options.
var manifest = map[string]struct {
	file string
	opts []Option
}{
	GreenhouseEmissions: {file: "GreenHouseEmissions.csv"},
	ClimateIndicators:   {file: "Climate_Indicators.csv"},
	SectorEmissions:     {file: "Sector_Emissions.csv"},
	CountryRatings:      {file: "country_rating_data.csv"},
	EnergyEmissions:     {file: "Energy_Emissions.csv"},
	FuelEmissions:       {file: "fuel_data.csv"},
	CarbonMonitor:       {file: "carbon_monitor_global.csv"},
	GlobalCarbon:        {file: "Global_Carbon_Emissions.csv"},
	Deforestation:       {file: "Deforestation_Data.csv"},
	EnergyMix:           {file: "Energy_Mix_Data.csv"},
	EmissionMonitoring:  {file: "Emission_Monitoring_Data.csv"},
	SurfaceWater:        {file: "Global_Surface_Water.csv"},
	OilInfo:             {file: "oil_info.csv"},
	UKWeather: {
		file: "United Kingdom 2023-01-01 to 2024-11-19.csv",
		opts: []Option{WithTimeColumn("datetime", "2006-01-02")},
	},

	CILAnnual:  {file: "cil_global_tas_annual.csv"},
	CILSummer:  {file: "cil_global_tas_JJA.csv"},
	CILWinter:  {file: "cil_global_tas_DJF.csv"},
	CILUnder32: {file: "cil_global_tasmin_under32F.csv"},
	CILOver95:  {file: "cil_global_tasmax_over95F.csv"},

	NinjaPV:           {file: "ninja_pv_europe_v1.1_merra2.csv", opts: []Option{WithTimeColumn("time", "2006-01-02 15:04:05")}},
	NinjaWind:         {file: "ninja_wind_europe_v1.1_current_national.csv", opts: []Option{WithTimeColumn("time", "2006-01-02 15:04:05")}},
	NinjaWindLongterm: {file: "ninja_wind_europe_v1.1_future_longterm_national.csv", opts: []Option{WithTimeColumn("time", "2006-01-02 15:04:05")}},
	NinjaWindNearterm: {file: "ninja_wind_europe_v1.1_future_nearterm_national.csv", opts: []Option{WithTimeColumn("time", "2006-01-02 15:04:05")}},
}

// Open loads every manifest dataset plus the per-state weather files
// (State_weather_data.csv) found in dir. Missing manifest files fail the
// startup.
func Open(dir string) (*Store, error) {
	s := &Store{tables: map[string]*tabular.Table{}}

	for name, entry := range manifest {
		t, err := LoadCSV(filepath.Join(dir, entry.file), entry.opts...)
		if err != nil {
			return nil, fmt.Errorf("loading dataset %s: %w", name, err)
		}
		s.tables[name] = t
		slog.Info("Loaded dataset", "name", name, "rows", t.Len())
	}

	states, err := filepath.Glob(filepath.Join(dir, "*_weather_data.csv"))
	if err != nil {
		return nil, err
	}
	for _, path := range states {
		state := strings.TrimSuffix(filepath.Base(path), "_weather_data.csv")
		state = strings.ReplaceAll(state, "_", " ")
		t, err := LoadCSV(path, WithTimeColumn("datetime", "2006-01-02"))
		if err != nil {
			return nil, fmt.Errorf("loading state weather %s: %w", state, err)
		}
		s.tables[StateWeather(state)] = t
		slog.Info("Loaded state weather dataset", "state", state, "rows", t.Len())
	}

	return s, nil
}

// StateWeather names the per-state weather table for a U.S. state.
func StateWeather(state string) string {
	return "state_weather/" + state
}

// Table returns a loaded dataset, or nil when absent.
func (s *Store) Table(name string) *tabular.Table {
	return s.tables[name]
}

// States lists the U.S. states with weather tables, sorted.
func (s *Store) States() []string {
	var out []string
	for name := range s.tables {
		if strings.HasPrefix(name, "state_weather/") {
			out = append(out, strings.TrimPrefix(name, "state_weather/"))
		}
	}
	sort.Strings(out)
	return out
}

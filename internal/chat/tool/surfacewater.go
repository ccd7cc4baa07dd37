package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/openai/openai-go/v2"
)

// SurfaceWaterTool answers get_surface_water_data over the wide global
// surface water table (one column per year plus a Seasonality column).
// Besides plain retrieval it reports the change across the selected years
// or the seasonal variation per region.
type SurfaceWaterTool struct {
	data *tabular.Table
}

func NewSurfaceWaterTool(data *tabular.Table) *SurfaceWaterTool {
	return &SurfaceWaterTool{data: data}
}

type SurfaceWaterRequest struct {
	Region       string `json:"region"`
	StartYear    *int   `json:"start_year"`
	EndYear      *int   `json:"end_year"`
	AnalysisType string `json:"analysis_type"`
}

func (t *SurfaceWaterTool) Name() string { return "get_surface_water_data" }

func (t *SurfaceWaterTool) Description() string {
	return "Query global surface water presence by region and year range. Analysis types: 'occurrence' for water " +
		"presence (default), 'change' for the difference over the selected years, 'seasonality' for seasonal variation."
}

func (t *SurfaceWaterTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"region": map[string]any{
				"type":        "string",
				"description": "Region to match, full or partial name. Omit for a global overview.",
			},
			"start_year": map[string]any{
				"type":        "integer",
				"description": "First year of the range.",
			},
			"end_year": map[string]any{
				"type":        "integer",
				"description": "Last year of the range.",
			},
			"analysis_type": map[string]any{
				"type":        "string",
				"description": "'occurrence', 'change' or 'seasonality'.",
			},
		},
	}
}

func (t *SurfaceWaterTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req SurfaceWaterRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *SurfaceWaterTool) Run(req SurfaceWaterRequest) *tabular.StatusResult {
	ft := t.data.Clone()

	if req.Region != "" {
		ft = tabular.FilterContains(ft, "Region", req.Region)
		if ft.Len() == 0 {
			return tabular.Failure(fmt.Sprintf("No data found for the specified region: %s.", req.Region))
		}
	}

	if req.StartYear != nil && req.EndYear != nil {
		var yearCols []string
		for y := *req.StartYear; y <= *req.EndYear; y++ {
			if col := strconv.Itoa(y); ft.HasColumn(col) {
				yearCols = append(yearCols, col)
			}
		}
		if len(yearCols) == 0 {
			return tabular.Failure("No data available for the specified year range.")
		}
		selected, err := ft.Select(append([]string{"Region"}, yearCols...)...)
		if err != nil {
			return tabular.Failure("No data available for the specified year range.")
		}
		ft = selected.DropNull(yearCols...)
	}

	switch req.AnalysisType {
	case "change":
		ft = waterChange(ft)
	case "seasonality":
		if !ft.HasColumn("Seasonality") {
			return tabular.Failure("Seasonality data is not available for the selected region.")
		}
		selected, err := ft.Select("Region", "Seasonality")
		if err != nil {
			return tabular.Failure("Seasonality data is not available for the selected region.")
		}
		ft = selected.DropNull("Seasonality")
	default:
		ft = ft.DropNull(ft.Columns()...)
	}

	if ft.Len() == 0 {
		return tabular.Failure("No data available for the specified region or criteria.")
	}
	return tabular.Success(ft)
}

// waterChange reduces each region row to the net change across its year
// columns, the sum of the consecutive year-to-year differences.
func waterChange(t *tabular.Table) *tabular.Table {
	years := tabular.YearColumns(t)
	out := tabular.New("Region", "Change")
	for i := 0; i < t.Len(); i++ {
		var change float64
		prev, havePrev := 0.0, false
		for _, y := range years {
			v, ok := tabular.AsFloat(t.Cell(i, strconv.Itoa(y)))
			if !ok {
				continue
			}
			if havePrev {
				change += v - prev
			}
			prev, havePrev = v, true
		}
		out.Append(t.Cell(i, "Region"), change)
	}
	return out
}

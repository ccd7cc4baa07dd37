package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/montanaflynn/stats"
	"github.com/openai/openai-go/v2"
)

// OilInfoTool answers get_oil_info over the oil and gas fields table. On
// top of generic column filters it can group and aggregate, report the
// linear trend slope between two columns, or extrapolate that line to a
// future value.
type OilInfoTool struct {
	data *tabular.Table
}

func NewOilInfoTool(data *tabular.Table) *OilInfoTool {
	return &OilInfoTool{data: data}
}

type OilTrendSpec struct {
	XCol string `json:"x_col"`
	YCol string `json:"y_col"`
}

type OilPredictSpec struct {
	XCol    string  `json:"x_col"`
	YCol    string  `json:"y_col"`
	FutureX float64 `json:"future_x"`
}

type OilInfoRequest struct {
	Filters map[string]tabular.FilterValue `json:"filters"`
	GroupBy string                         `json:"group_by"`
	AggCol  string                         `json:"agg_col"`
	AggFunc string                         `json:"agg_func"`
	Trend   *OilTrendSpec                  `json:"trend"`
	Predict *OilPredictSpec                `json:"predict"`
}

// OilInfoResult carries the oil tool's result payload, which may be rows,
// a trend summary or a prediction summary.
type OilInfoResult struct {
	Status string `json:"status"`
	Result any    `json:"result"`
}

type OilInfoError struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func oilFailure(format string, args ...any) *OilInfoError {
	return &OilInfoError{Status: "error", Message: fmt.Sprintf(format, args...)}
}

func (t *OilInfoTool) Name() string { return "get_oil_info" }

func (t *OilInfoTool) Description() string {
	return "Retrieve information about oil and gas fields: locations, production and emission figures. Supports " +
		"column filters, grouping with aggregation, linear trend slopes and linear predictions."
}

func (t *OilInfoTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"filters": map[string]any{
				"type":        "object",
				"description": "Column to value filters, e.g. {\"Location\": \"Onshore\"}. Lists and 'all' are accepted.",
			},
			"group_by": map[string]any{
				"type":        "string",
				"description": "Column to group by, e.g. 'Country'.",
			},
			"agg_col": map[string]any{
				"type":        "string",
				"description": "Column to aggregate, e.g. 'Methane Intensity'.",
			},
			"agg_func": map[string]any{
				"type":        "string",
				"description": "Aggregation method: mean, median, sum, var, sem, min or max.",
			},
			"trend": map[string]any{
				"type":        "object",
				"description": "Trend analysis columns, e.g. {\"x_col\": \"Year\", \"y_col\": \"Emissions\"}.",
			},
			"predict": map[string]any{
				"type":        "object",
				"description": "Prediction request, e.g. {\"x_col\": \"Year\", \"y_col\": \"Emissions\", \"future_x\": 2030}.",
			},
		},
	}
}

func (t *OilInfoTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req OilInfoRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	return respond(t.Run(req))
}

func (t *OilInfoTool) Run(req OilInfoRequest) any {
	ft := t.data.Clone()

	for col, v := range req.Filters {
		if !ft.HasColumn(col) {
			return oilFailure("No such column: %s", col)
		}
		ft, _ = tabular.Filter(ft, col, v)
	}

	switch {
	case req.GroupBy != "" && req.AggCol != "" && req.AggFunc != "":
		method, err := tabular.ParseMethod(req.AggFunc)
		if err != nil {
			return oilFailure("%v", err)
		}
		grouped, err := tabular.GroupBy(ft, []string{req.GroupBy}, []string{req.AggCol}, method)
		if err != nil {
			return oilFailure("%v", err)
		}
		return &OilInfoResult{Status: "success", Result: grouped.Records()}

	case req.Trend != nil:
		slope, _, err := linearFit(ft, req.Trend.XCol, req.Trend.YCol)
		if err != nil {
			return oilFailure("%v", err)
		}
		return &OilInfoResult{Status: "success", Result: map[string]string{
			"trend_slope": fmt.Sprintf("The trend slope between %s and %s is %.2f", req.Trend.XCol, req.Trend.YCol, slope),
		}}

	case req.Predict != nil:
		slope, intercept, err := linearFit(ft, req.Predict.XCol, req.Predict.YCol)
		if err != nil {
			return oilFailure("%v", err)
		}
		predicted := slope*req.Predict.FutureX + intercept
		return &OilInfoResult{Status: "success", Result: map[string]string{
			"prediction": fmt.Sprintf("The predicted value of %s for %s = %v is %.2f",
				req.Predict.YCol, req.Predict.XCol, req.Predict.FutureX, predicted),
		}}
	}

	return &OilInfoResult{Status: "success", Result: ft.Records()}
}

// linearFit computes the least-squares line through the paired numeric
// values of two columns. Rows where either cell is non-numeric are skipped.
func linearFit(t *tabular.Table, xCol, yCol string) (slope, intercept float64, err error) {
	if !t.HasColumn(xCol) || !t.HasColumn(yCol) {
		return 0, 0, fmt.Errorf("no such columns: %s, %s", xCol, yCol)
	}
	var xs, ys []float64
	for i := 0; i < t.Len(); i++ {
		x, xok := tabular.AsFloat(t.Cell(i, xCol))
		y, yok := tabular.AsFloat(t.Cell(i, yCol))
		if xok && yok {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	if len(xs) < 2 {
		return 0, 0, fmt.Errorf("not enough data points to fit %s against %s", yCol, xCol)
	}
	varX, err := stats.PopulationVariance(xs)
	if err != nil {
		return 0, 0, err
	}
	if varX == 0 {
		return 0, 0, fmt.Errorf("column %s has no variation to fit against", xCol)
	}
	cov, err := stats.CovariancePopulation(xs, ys)
	if err != nil {
		return 0, 0, err
	}
	meanX, _ := stats.Mean(xs)
	meanY, _ := stats.Mean(ys)
	slope = cov / varX
	return slope, meanY - slope*meanX, nil
}

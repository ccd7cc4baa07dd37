package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/atlasgrove/climascope/internal/weatherapi"
	"github.com/openai/openai-go/v2"
)

// WeatherClient fetches current conditions for a location.
type WeatherClient interface {
	Current(ctx context.Context, location string) (*weatherapi.Conditions, error)
}

// LiveWeatherTool answers get_current_weather through the weatherapi.com
// client. The only tool backed by a live service rather than a dataset.
type LiveWeatherTool struct {
	client WeatherClient
}

func NewLiveWeatherTool(client WeatherClient) *LiveWeatherTool {
	return &LiveWeatherTool{client: client}
}

type LiveWeatherRequest struct {
	Location string `json:"location"`
}

func (t *LiveWeatherTool) Name() string { return "get_current_weather" }

func (t *LiveWeatherTool) Description() string {
	return "Get the current live weather conditions for a city or location anywhere in the world."
}

func (t *LiveWeatherTool) Parameters() openai.FunctionParameters {
	return openai.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"location": map[string]any{
				"type":        "string",
				"description": "City or location name, e.g. 'London'.",
			},
		},
		"required": []string{"location"},
	}
}

func (t *LiveWeatherTool) Execute(ctx context.Context, arguments string) (string, error) {
	var req LiveWeatherRequest
	if err := json.Unmarshal([]byte(arguments), &req); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	cond, err := t.client.Current(ctx, req.Location)
	if err != nil {
		return respond(map[string]any{
			"status": "error",
			"data":   fmt.Sprintf("Unable to fetch current weather for %s.", req.Location),
		})
	}
	return respond(map[string]any{
		"status": "success",
		"data":   cond.Describe(),
	})
}

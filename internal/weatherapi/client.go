// Package weatherapi is a small client for the weatherapi.com current
// conditions endpoint, used by the live weather tool.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

type Client struct {
	apiKey     string
	httpClient *http.Client
}

type Conditions struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		IsDay     int     `json:"is_day"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
		WindKph    float64 `json:"wind_kph"`
		WindDir    string  `json:"wind_dir"`
		Humidity   int     `json:"humidity"`
		Cloud      int     `json:"cloud"`
		FeelsLikeC float64 `json:"feelslike_c"`
		PrecipMm   float64 `json:"precip_mm"`
		UV         float64 `json:"uv"`
	} `json:"current"`
}

func New(apiKey string) *Client {
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Current fetches the current conditions for a location, retrying
// transient failures with exponential backoff.
func (c *Client) Current(ctx context.Context, location string) (*Conditions, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("weather API key not configured")
	}

	var lastErr error
	maxRetries := 3
	baseDelay := 200 * time.Millisecond

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 200ms, 400ms, 800ms
			delay := baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		cond, err := c.fetch(ctx, location)
		if err == nil {
			return cond, nil
		}
		lastErr = err
	}

	return nil, lastErr
}

func (c *Client) fetch(ctx context.Context, location string) (*Conditions, error) {
	endpoint := fmt.Sprintf(
		"http://api.weatherapi.com/v1/current.json?key=%s&q=%s&aqi=no",
		url.QueryEscape(c.apiKey),
		url.QueryEscape(location),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, string(body))
	}

	var cond Conditions
	if err := json.NewDecoder(resp.Body).Decode(&cond); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &cond, nil
}

// Describe renders conditions as the multi-line summary the chat model
// passes on to the user.
func (c *Conditions) Describe() string {
	timeOfDay := "during the day"
	if c.Current.IsDay == 0 {
		timeOfDay = "at night"
	}

	result := fmt.Sprintf(
		"Current weather in %s, %s (%s):\n"+
			"Temperature: %.1f°C (feels like %.1f°C)\n"+
			"Conditions: %s\n"+
			"Wind: %.1f km/h from %s\n"+
			"Humidity: %d%%\n"+
			"Cloud coverage: %d%%",
		c.Location.Name,
		c.Location.Country,
		timeOfDay,
		c.Current.TempC,
		c.Current.FeelsLikeC,
		c.Current.Condition.Text,
		c.Current.WindKph,
		c.Current.WindDir,
		c.Current.Humidity,
		c.Current.Cloud,
	)

	if c.Current.PrecipMm > 0 {
		result += fmt.Sprintf("\nPrecipitation: %.1f mm", c.Current.PrecipMm)
	}
	if c.Current.UV > 6 {
		result += fmt.Sprintf("\nHigh UV index: %.0f (use sun protection)", c.Current.UV)
	}
	return result
}

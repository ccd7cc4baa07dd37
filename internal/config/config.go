// Package config reads service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr            string        `env:"ADDR" env-default:":8080"`
	DataDir         string        `env:"DATA_DIR" env-default:"data"`
	OpenAIModel     string        `env:"OPENAI_MODEL" env-default:"gpt-4.1"`
	WeatherAPIKey   string        `env:"WEATHER_API_KEY"`
	MetricsInterval time.Duration `env:"METRICS_INTERVAL" env-default:"10s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	return &cfg, nil
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/atlasgrove/climascope/internal/chat"
	"github.com/atlasgrove/climascope/internal/chat/assistant"
	"github.com/atlasgrove/climascope/internal/chat/tool"
	"github.com/atlasgrove/climascope/internal/config"
	"github.com/atlasgrove/climascope/internal/httpx"
	"github.com/atlasgrove/climascope/internal/store"
	"github.com/atlasgrove/climascope/internal/tabular"
	"github.com/atlasgrove/climascope/internal/telemetry"
	"github.com/atlasgrove/climascope/internal/weatherapi"
	"github.com/gorilla/mux"
	"github.com/openai/openai-go/v2/shared"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize OpenTelemetry metrics
	shutdownMetrics, err := telemetry.InitMetrics(ctx, cfg.MetricsInterval)
	if err != nil {
		slog.Error("Failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMetrics(ctx); err != nil {
			slog.Error("Failed to shutdown metrics", "error", err)
		}
	}()

	// Load every dataset up front; a broken dataset fails the startup.
	datasets, err := store.Open(cfg.DataDir)
	if err != nil {
		slog.Error("Failed to load datasets", "error", err)
		os.Exit(1)
	}

	registry := tool.NewRegistry(
		tool.NewEmissionsTool(datasets.Table(store.GreenhouseEmissions)),
		tool.NewEmissionsAverageTool(datasets.Table(store.GreenhouseEmissions)),
		tool.NewSurfaceTemperatureTool(datasets.Table(store.ClimateIndicators)),
		tool.NewSectorEmissionsTool(datasets.Table(store.SectorEmissions)),
		tool.NewCountryRatingTool(datasets.Table(store.CountryRatings)),
		tool.NewEnergyEmissionsTool(datasets.Table(store.EnergyEmissions)),
		tool.NewFuelAverageTool(datasets.Table(store.FuelEmissions)),
		tool.NewCarbonMonitorTool(datasets.Table(store.CarbonMonitor)),
		tool.NewCILTemperatureTool(
			datasets.Table(store.CILAnnual),
			datasets.Table(store.CILSummer),
			datasets.Table(store.CILWinter),
			datasets.Table(store.CILUnder32),
			datasets.Table(store.CILOver95),
		),
		tool.NewRenewablesTool(
			datasets.Table(store.NinjaPV),
			datasets.Table(store.NinjaWind),
			datasets.Table(store.NinjaWindLongterm),
			datasets.Table(store.NinjaWindNearterm),
		),
		tool.NewStateWeatherTool(stateWeatherTables(datasets)),
		tool.NewUKWeatherTool(datasets.Table(store.UKWeather)),
		tool.NewGlobalCarbonTool(datasets.Table(store.GlobalCarbon)),
		tool.NewDeforestationTool(datasets.Table(store.Deforestation)),
		tool.NewEnergyMixTool(datasets.Table(store.EnergyMix)),
		tool.NewEmissionMonitorTool(datasets.Table(store.EmissionMonitoring)),
		tool.NewSurfaceWaterTool(datasets.Table(store.SurfaceWater)),
		tool.NewOilInfoTool(datasets.Table(store.OilInfo)),
		tool.NewLiveWeatherTool(weatherapi.New(cfg.WeatherAPIKey)),
	)

	assist := assistant.New(registry, shared.ChatModel(cfg.OpenAIModel))
	server := chat.NewServer(assist)

	// Create metrics middleware
	metricsMiddleware, err := httpx.NewMetricsMiddleware()
	if err != nil {
		slog.Error("Failed to create metrics middleware", "error", err)
		os.Exit(1)
	}

	// Configure handler
	handler := mux.NewRouter()
	handler.Use(
		metricsMiddleware.Handler(), // Add metrics FIRST
		httpx.Logger(),
		httpx.Recovery(),
	)

	handler.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "ClimaScope is up. POST your question to /ask.")
	})

	handler.HandleFunc("/ask", server.Ask).Methods(http.MethodPost)

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	// Channel to listen for shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		slog.Info("Starting the server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-stop
	slog.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}

	slog.Info("Server stopped")
}

func stateWeatherTables(datasets *store.Store) map[string]*tabular.Table {
	out := map[string]*tabular.Table{}
	for _, state := range datasets.States() {
		out[state] = datasets.Table(store.StateWeather(state))
	}
	return out
}

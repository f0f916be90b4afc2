package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/wolfman30/inis-relay/internal/api/router"
	appconfig "github.com/wolfman30/inis-relay/internal/config"
	"github.com/wolfman30/inis-relay/internal/leads"
	"github.com/wolfman30/inis-relay/internal/observability/metrics"
	"github.com/wolfman30/inis-relay/internal/relay"
	"github.com/wolfman30/inis-relay/internal/voice"
	"github.com/wolfman30/inis-relay/pkg/logging"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load configuration
	cfg := appconfig.Load()

	// Initialize logger
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting INIS API",
		"env", cfg.Env,
		"port", cfg.Port,
		"allowed_origin", cfg.AllowedOrigin,
		"sheets_configured", cfg.HasSheets(),
		"vapi_configured", cfg.HasVapi(),
	)
	if !cfg.HasSheets() {
		logger.Warn("SHEETS_WEBAPP_URL not set; /api/lead will return 500")
	}
	if !cfg.HasVapi() {
		logger.Warn("Vapi config incomplete; /api/call-me will return 500")
	}

	srv := newServer(cfg, logger)

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.RelayMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return metrics.Handler(registry), metrics.NewRelayMetrics(registry)
}

func newServer(cfg *appconfig.Config, logger *logging.Logger) *http.Server {
	metricsHandler, relayMetrics := setupMetrics()

	client := relay.New(relay.Config{
		Timeout: cfg.HTTPClientTimeout,
		Metrics: relayMetrics,
		Logger:  logger,
	})

	// Initialize handlers
	leadsHandler := leads.NewHandler(cfg, client, relayMetrics, logger)
	voiceHandler := voice.NewHandler(cfg, client, relayMetrics, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:        logger,
		LeadsHandler:  leadsHandler,
		VoiceHandler:  voiceHandler,
		AllowedOrigin: cfg.AllowedOrigin,
	}
	if cfg.MetricsEnabled {
		routerCfg.MetricsHandler = metricsHandler
	}

	// WriteTimeout stays zero so a slow upstream is never cut off mid-relay.
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

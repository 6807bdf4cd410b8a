package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/waypoint/internal/api"
	"github.com/UnknownOlympus/waypoint/internal/config"
	"github.com/UnknownOlympus/waypoint/internal/logging"
	"github.com/UnknownOlympus/waypoint/internal/mapview"
	"github.com/UnknownOlympus/waypoint/internal/metrics"
	"github.com/UnknownOlympus/waypoint/internal/prefs"
	"github.com/UnknownOlympus/waypoint/internal/remote"
	"github.com/UnknownOlympus/waypoint/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment, shipping to Graylog when enabled.
	var extra []slog.Handler
	if cfg.Graylog.Enabled {
		writer, err := logging.NewGraylogWriter(cfg.Graylog.Address)
		if err != nil {
			log.Fatalf("Failed to connect to Graylog: %v", err)
		}
		defer writer.Close()
		extra = append(extra, logging.NewGraylogHandler(writer, "waypoint", levelFor(cfg.Env)))
	}
	logger := setupLogger(cfg.Env, extra...)

	// Create a separate registry for metrics.
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Create the remote store using the factory based on configuration.
	store, closeStore, err := remote.NewStore(ctx, remote.StoreConfig{
		Type:        remote.StoreType(cfg.Remote.Type),
		URLTemplate: cfg.Remote.URLTemplate,
		Timeout:     cfg.Remote.Timeout,
		RateLimit:   cfg.Remote.RateLimit,
		Postgres: remote.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			DBName:   cfg.Postgres.Name,
		},
		Logger: logger,
	})
	if err != nil {
		log.Fatalf("Failed to create remote store: %v", err)
	}
	defer closeStore()
	store = remote.Instrument(store, appMetrics, cfg.Remote.Type)

	logger.InfoContext(ctx, "Remote store initialized", "type", cfg.Remote.Type)

	prefStore, err := prefs.OpenSQLite(cfg.PrefsPath)
	if err != nil {
		log.Fatalf("Failed to open local preferences: %v", err)
	}
	defer prefStore.Close()

	mapView := mapview.New(logger, mapview.Options{
		Center:  cfg.Map.Center,
		Zoom:    cfg.Map.DefaultZoom,
		MinZoom: cfg.Map.MinZoom,
		MaxZoom: cfg.Map.MaxZoom,
	})

	ctrl, err := session.NewController(logger, store, prefStore, appMetrics, mapView, session.Options{
		ConfirmDelete: cfg.ConfirmDelete,
		FocusZoom:     cfg.Map.FocusZoom,
	})
	if err != nil {
		log.Fatalf("Failed to create session controller: %v", err)
	}

	go ctrl.Run(ctx)

	// Reload the markers of the remembered access code, if any.
	if res, errRestore := ctrl.Submit(ctx, session.Restore{}); errRestore != nil {
		logger.ErrorContext(ctx, "Failed to restore session", "error", errRestore)
	} else if res.Alert != nil {
		logger.WarnContext(ctx, "Session restored with an alert", "kind", res.Alert.Kind, "message", res.Alert.Message)
	}

	// Start the monitoring server in a goroutine to allow main to listen for signals.
	go startMonitoringServer(ctx, logger, reg, store, cfg.MonitoringPort)

	apiServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      api.NewRouter(ctrl, logger),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	go func() {
		logger.InfoContext(ctx, "Starting API server", "port", cfg.HTTPPort)
		if errServe := apiServer.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
			logger.ErrorContext(ctx, "API server failed", "error", errServe)
			stop()
		}
	}()

	logger.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Wait for the context to be canceled (e.g., by Ctrl+C).
	<-ctx.Done()

	logger.Info("Shutdown signal received. Stopping application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", "error", err)
	}

	logger.Info("Application stopped gracefully.")
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	store remote.Store,
	port int,
) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(writer http.ResponseWriter, req *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		status, body := http.StatusOK, "OK"
		if err := remote.Ping(req.Context(), store); err != nil {
			status, body = http.StatusServiceUnavailable, "remote store ping failed"
		}
		writer.WriteHeader(status)
		_, err := writer.Write([]byte(body))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", status)
	})
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  readTimeout,
		WriteTimeout: readTimeout * 2,
	}
	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// levelFor returns the minimum log level of an environment.
func levelFor(env string) slog.Level {
	switch env {
	case envLocal:
		return slog.LevelDebug
	case envDev:
		return slog.LevelInfo
	case envProd:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
// Extra handlers receive the same records as stdout.
func setupLogger(env string, extra ...slog.Handler) *slog.Logger {
	dropTime := func(_ []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	}

	var handler slog.Handler
	switch env {
	case envLocal:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     levelFor(env),
			AddSource: true,
		})
	case envDev:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: levelFor(env),
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       levelFor(env),
			ReplaceAttr: dropTime,
		})
	}

	if len(extra) > 0 {
		handler = logging.NewMultiHandler(append([]slog.Handler{handler}, extra...)...)
	}
	log := slog.New(handler)

	if env != envLocal && env != envDev && env != envProd {
		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}

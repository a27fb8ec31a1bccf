package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/PratikDhanave/braze-track-service/internal/config"
	"github.com/PratikDhanave/braze-track-service/internal/delivery"
	"github.com/PratikDhanave/braze-track-service/internal/httpserver"
	"github.com/PratikDhanave/braze-track-service/internal/logsink"
	"github.com/PratikDhanave/braze-track-service/internal/metrics"
	"github.com/PratikDhanave/braze-track-service/internal/store"
	"github.com/PratikDhanave/braze-track-service/internal/tag"
)

// main boots the service: env → config → warehouse → runner → HTTP server.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}

	if err := setupLogging(cfg.LogLevel); err != nil {
		slog.Warn("invalid LOG_LEVEL, using info", "level", cfg.LogLevel)
	}

	metrics.Register()

	opts := []tag.Option{tag.WithConsole(logsink.NewConsole(os.Stdout))}

	wh, err := store.Open(cfg.WarehouseDriver, cfg.WarehouseURL)
	if err != nil {
		slog.Error("connecting to warehouse", "driver", cfg.WarehouseDriver, "err", err)
		os.Exit(1)
	}
	var ready httpserver.Warehouse
	if wh != nil {
		defer wh.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := wh.EnsureSchema(ctx)
		cancel()
		if err != nil {
			slog.Error("applying warehouse schema", "err", err)
			os.Exit(1)
		}

		opts = append(opts, tag.WithWarehouse(logsink.NewWarehouse(wh)))
		ready = wh
	}

	runner := tag.NewRunner(delivery.NewHTTPTransport(cfg.HTTPTimeout), opts...)

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpserver.NewRouter(cfg, runner, ready),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", server.Addr, "tags", len(cfg.Tags), "warehouse", cfg.WarehouseDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	term := make(chan os.Signal, 1)
	signal.Notify(term, os.Interrupt, syscall.SIGTERM)
	<-term
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "err", err)
	}

	// Handlers may outlive a failed Shutdown; Close refuses their new sends
	// and waits for optimistic sends still in flight.
	runner.Close()
	slog.Info("server shutdown complete")
}

func setupLogging(level string) error {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(level))
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(h))
	return err
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/teamroster/internal/config"
	"github.com/JonMunkholm/teamroster/internal/core"
	"github.com/JonMunkholm/teamroster/internal/logging"
	"github.com/JonMunkholm/teamroster/internal/source"
	"github.com/JonMunkholm/teamroster/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Source.Kind,
		"configured", cfg.Configured(),
		"pass_timeout", cfg.Source.PassTimeout,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	ctx := context.Background()
	src, closeSource, err := source.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open roster source", "error", err)
		os.Exit(1)
	}
	defer closeSource()

	service := core.NewService(src, source.AggregatorConfig(cfg))

	// Initial pass so the first page view is served from memory
	res := service.Refresh(ctx)
	slog.Info("initial roster loaded",
		"mode", res.Mode,
		"members", len(res.Members),
		"sources", len(res.Catalog),
	)

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		closeSource()
		os.Exit(1)
	}
	slog.Info("server stopped")
}

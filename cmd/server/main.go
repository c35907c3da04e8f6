package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/dixmont/taxmap/internal/adapter/http"
	"github.com/dixmont/taxmap/internal/adapter/remote"
	"github.com/dixmont/taxmap/internal/config"
	"github.com/dixmont/taxmap/internal/observability"
	"github.com/dixmont/taxmap/internal/parcels"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("could not create data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	fetcher := remote.NewClient(cfg.RemoteKMZURL, cfg.FetchTimeout, logger)
	resolver := parcels.NewResolver(fetcher, cfg.DataDir, cfg.MinArchiveBytes, clockwork.NewRealClock(), logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, resolver, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the dataset so the first request does not pay for the remote fetch.
	go func() {
		fc := resolver.Resolve(ctx)
		info := resolver.Info()
		logger.Info("initial parcel load complete",
			"count", len(fc.Features), "source", info.Source)
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

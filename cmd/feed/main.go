package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/ticker-data/internal/config"
	"github.com/rickgao/ticker-data/internal/database"
	"github.com/rickgao/ticker-data/internal/hub"
	"github.com/rickgao/ticker-data/internal/server"
	"github.com/rickgao/ticker-data/internal/venue"
	"github.com/rickgao/ticker-data/internal/version"
	"github.com/rickgao/ticker-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/feed.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting feed",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"alpaca", cfg.Venues.Alpaca.Enabled,
		"kraken", cfg.Venues.Kraken.Enabled,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Postgres.Host,
		"port", cfg.Database.Postgres.Port,
		"database", cfg.Database.Postgres.Name,
	)

	pool, err := database.Connect(ctx, cfg.Database.Postgres)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	store := database.NewStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	logger.Info("database connected")

	// Create the fan-out hub
	h := hub.New(cfg.Hub.BufferSize, logger)

	// Start the persistence sink
	quoteWriter := writer.NewQuoteWriter(h, store, logger)
	if err := quoteWriter.Start(ctx); err != nil {
		logger.Error("failed to start quote writer", "error", err)
		os.Exit(1)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		quoteWriter.Stop(stopCtx)
	}()

	// Run one supervisor per enabled venue
	supCfg := venue.SupervisorConfig{RetryDelay: cfg.Connections.RetryDelay}
	g, gctx := errgroup.WithContext(ctx)

	for _, adapter := range enabledAdapters(cfg) {
		sup := venue.NewSupervisor(supCfg, adapter, h, logger)
		g.Go(func() error {
			sup.Run(gctx)
			return nil
		})
	}

	// Start the front door
	srv := server.New(h, store, quoteWriter, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	g.Go(func() error {
		logger.Info("serving", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	logger.Info("feed running",
		"instance_id", cfg.Instance.ID,
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port),
	)

	if err := g.Wait(); err != nil {
		logger.Error("feed exited with error", "error", err)
		os.Exit(1)
	}

	logger.Info("feed stopped")
}

// enabledAdapters builds an adapter per enabled venue from config.
func enabledAdapters(cfg *config.FeedConfig) []venue.Adapter {
	var adapters []venue.Adapter

	if cfg.Venues.Alpaca.Enabled {
		adapters = append(adapters, venue.NewAlpaca(venue.AlpacaConfig{
			URL:              cfg.Venues.Alpaca.URL,
			Key:              cfg.Venues.Alpaca.Key,
			Secret:           cfg.Venues.Alpaca.Secret,
			Symbols:          cfg.Venues.Alpaca.Symbols,
			HandshakeTimeout: cfg.Connections.HandshakeTimeout,
			WriteTimeout:     cfg.Connections.WriteTimeout,
		}))
	}

	if cfg.Venues.Kraken.Enabled {
		adapters = append(adapters, venue.NewKraken(venue.KrakenConfig{
			URL:              cfg.Venues.Kraken.URL,
			Symbols:          cfg.Venues.Kraken.Symbols,
			HandshakeTimeout: cfg.Connections.HandshakeTimeout,
			WriteTimeout:     cfg.Connections.WriteTimeout,
		}))
	}

	return adapters
}

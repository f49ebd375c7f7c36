// streamtest connects to one venue and prints normalized events to stdout.
// No database required. Usage:
//
//	go run ./cmd/streamtest --config configs/feed.local.yaml --venue kraken
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rickgao/ticker-data/internal/config"
	"github.com/rickgao/ticker-data/internal/hub"
	"github.com/rickgao/ticker-data/internal/venue"
)

func main() {
	configPath := flag.String("config", "configs/feed.local.yaml", "path to config file")
	venueName := flag.String("venue", "kraken", "venue to stream (alpaca or kraken)")
	flag.Parse()

	// Setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	// Load config
	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var adapter venue.Adapter
	switch *venueName {
	case "alpaca":
		adapter = venue.NewAlpaca(venue.AlpacaConfig{
			URL:              cfg.Venues.Alpaca.URL,
			Key:              cfg.Venues.Alpaca.Key,
			Secret:           cfg.Venues.Alpaca.Secret,
			Symbols:          cfg.Venues.Alpaca.Symbols,
			HandshakeTimeout: cfg.Connections.HandshakeTimeout,
			WriteTimeout:     cfg.Connections.WriteTimeout,
		})
	case "kraken":
		adapter = venue.NewKraken(venue.KrakenConfig{
			URL:              cfg.Venues.Kraken.URL,
			Symbols:          cfg.Venues.Kraken.Symbols,
			HandshakeTimeout: cfg.Connections.HandshakeTimeout,
			WriteTimeout:     cfg.Connections.WriteTimeout,
		})
	default:
		logger.Error("unknown venue", "venue", *venueName)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	h := hub.New(cfg.Hub.BufferSize, logger)
	sub := h.Subscribe()
	defer sub.Close()

	sup := venue.NewSupervisor(venue.SupervisorConfig{
		RetryDelay: cfg.Connections.RetryDelay,
	}, adapter, h, logger)
	go sup.Run(ctx)

	go func() {
		<-ctx.Done()
		sub.Close()
	}()

	for {
		ev, ok := sub.Receive()
		if !ok {
			return
		}
		data, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		fmt.Println(string(data))
	}
}

// marketd hosts a single currency-exchange market: it loads config,
// constructs the market via one of its three constructors, optionally
// exposes the §4.8 HTTP/WS transport, and runs the periodic snapshot
// scheduler as a backstop alongside the engine's per-event persist, until
// SIGINT/SIGTERM triggers a graceful shutdown through the destructor.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lucagiacometti19/market-fsk/internal/api"
	"github.com/lucagiacometti19/market-fsk/internal/config"
	"github.com/lucagiacometti19/market-fsk/internal/engine"
	"github.com/lucagiacometti19/market-fsk/internal/pricing"
	"github.com/lucagiacometti19/market-fsk/internal/snapshot"
	"github.com/lucagiacometti19/market-fsk/internal/store"
)

func main() {
	cfgPath := "configs/config.yaml"
	if p := os.Getenv("MARKET_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err, "path", cfgPath)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.Logging.Level)}
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)

	st, err := store.Open(cfg.Store.SnapshotDir, cfg.Store.LogFile)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	var eventLog engine.EventLogger
	if cfg.Store.LogFile != "" {
		eventLog = store.NewEventLog(cfg.Store.LogFile, cfg.Market.Name, logger)
	}

	seed := cfg.Market.RNGSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	constants := pricing.Constants{
		Greed:     cfg.Tariff.Greed,
		TimeDecay: cfg.Tariff.TimeDecay,
		Discount:  cfg.Tariff.Discount,
		TTL:       cfg.Tariff.TTLTicks,
	}

	opts2 := engine.Options{
		Name:        cfg.Market.Name,
		Constants:   constants,
		Rng:         rng,
		Logger:      logger,
		EventLogger: eventLog,
		Persister:   st,
	}

	var m *engine.Market
	switch cfg.Market.Seed {
	case "fixed":
		q := cfg.Market.InitQuantities
		m = engine.NewWithQuantities(opts2, q.Default, q.A, q.B, q.C)
	case "snapshot":
		m = engine.NewFromSnapshot(opts2, cfg.Market.SnapshotLoadPath, cfg.Market.StartingCapital)
	default:
		m = engine.NewRandom(opts2, cfg.Market.StartingCapital)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg.API.Addr, m, cfg.API.AllowedOrigins, logger)
		go func() {
			if err := apiServer.Start(); err != nil {
				logger.Error("api server failed", "error", err)
			}
		}()
		logger.Info("api server started", "addr", fmt.Sprintf("http://%s", cfg.API.Addr))
	}

	for _, webhook := range cfg.Peers.WebhookURLs {
		peer := api.NewRemoteSubscriber(webhook, cfg.Peers.NotifyRatePerSec, cfg.Peers.NotifyBurst, cfg.Peers.NotifyTimeout, logger)
		m.AddSubscriber(peer)
		logger.Info("registered peer webhook subscriber", "url", webhook)
	}

	scheduler := snapshot.New(cfg.Store.SnapshotInterval, func() error {
		return st.SaveSnapshot(m.Name(), m.Snapshot(), m.Now(), true)
	}, logger)
	go scheduler.Run(ctx)

	logger.Info("market started",
		"name", m.Name(),
		"seed", cfg.Market.Seed,
		"tick", m.Now(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	cancel()

	if apiServer != nil {
		if err := apiServer.Stop(); err != nil {
			logger.Error("failed to stop api server", "error", err)
		}
	}

	if err := m.Close(); err != nil {
		logger.Error("failed to close market cleanly", "error", err)
		os.Exit(1)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

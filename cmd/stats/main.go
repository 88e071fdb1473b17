package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/earngage/backend/internal/api"
	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/db"
	"github.com/earngage/backend/internal/services"
	"go.uber.org/zap"
)

// stats refreshes creators' Telegram channel metrics on a ticker.
func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := db.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	defer closeStore()

	rdb := db.OptionalRedis(ctx, cfg.RedisURL, log)
	if rdb != nil {
		defer rdb.Close()
	}

	a := api.New(api.Deps{Store: store, Config: cfg, Log: log, Redis: rdb})

	log.Info("stats fetcher started", zap.Duration("interval", cfg.StatsRefreshInterval))

	// Initial run
	runStatsRefresh(ctx, a.Metrics, log)

	ticker := time.NewTicker(cfg.StatsRefreshInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			runStatsRefresh(ctx, a.Metrics, log)
		case <-sigCh:
			log.Info("shutting down stats fetcher")
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

func runStatsRefresh(ctx context.Context, metrics *services.MetricsService, log *zap.Logger) {
	start := time.Now()
	n, err := metrics.RefreshCreatorMetrics(ctx)
	if err != nil {
		log.Error("stats refresh failed", zap.Error(err))
		return
	}
	log.Info("stats refreshed", zap.Int("creators", n), zap.Duration("took", time.Since(start)))
}

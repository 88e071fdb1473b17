package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/earngage/backend/internal/api"
	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/db"
	"github.com/earngage/backend/internal/events"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// worker turns application and campaign events into notifications.
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

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	a := api.New(api.Deps{Store: store, Config: cfg, Log: log, Redis: rdb})
	subscriber := events.NewRedisSubscriber(rdb, log)

	handle := func(e events.Event) {
		log.Debug("event received", zap.String("type", e.Type))
		if err := a.Notifications.HandleEvent(ctx, e); err != nil {
			log.Error("failed to handle event", zap.String("type", e.Type), zap.Error(err))
		}
	}
	for _, stream := range []string{events.StreamApplications, events.StreamCampaigns} {
		if err := subscriber.Subscribe(ctx, stream, handle); err != nil {
			log.Fatal("failed to subscribe", zap.String("stream", stream), zap.Error(err))
		}
	}

	// Health endpoint for the orchestrator
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/health", func(c *fiber.Ctx) error {
		if err := rdb.Ping(c.UserContext()).Err(); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "redis down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	go func() {
		if err := app.Listen(fmt.Sprintf(":%s", cfg.WorkerPort)); err != nil {
			log.Error("health server error", zap.Error(err))
		}
	}()

	log.Info("worker started", zap.String("health_port", cfg.WorkerPort))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("shutting down worker")
	case <-ctx.Done():
	}
	cancel()
	_ = app.Shutdown()
}

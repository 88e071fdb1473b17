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
	apphttp "github.com/earngage/backend/internal/http"
	"github.com/earngage/backend/internal/http/handlers"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := db.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err), zap.String("backend", cfg.StoreBackend))
	}
	defer closeStore()

	// Redis is optional: without it the API runs single-node
	rdb := db.OptionalRedis(ctx, cfg.RedisURL, log)
	if rdb != nil {
		defer rdb.Close()
	}

	var (
		publisher  events.Publisher
		subscriber events.Subscriber
	)
	if rdb != nil {
		publisher = events.NewRedisPublisher(rdb, log)
		subscriber = events.NewRedisSubscriber(rdb, log)
	} else {
		bus := events.NewLocalBus()
		publisher, subscriber = bus, bus
	}

	a := api.New(api.Deps{
		Store:     store,
		Config:    cfg,
		Log:       log,
		Redis:     rdb,
		Publisher: publisher,
	})

	// без воркера уведомления создаются здесь же
	if rdb == nil {
		for _, stream := range []string{events.StreamApplications, events.StreamCampaigns} {
			_ = subscriber.Subscribe(ctx, stream, func(e events.Event) {
				if err := a.Notifications.HandleEvent(ctx, e); err != nil {
					log.Warn("notification handling failed", zap.String("type", e.Type), zap.Error(err))
				}
			})
		}
	}

	wsHub := handlers.NewWSHub(a.Auth, subscriber, log)
	if err := wsHub.Start(ctx); err != nil {
		log.Fatal("failed to start ws hub", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		Immutable: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, a, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr), zap.String("backend", cfg.StoreBackend))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

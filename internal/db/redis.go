package db

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func NewRedisClient(ctx context.Context, url string, log *zap.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("redis connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}

// OptionalRedis connects when url is set and returns nil otherwise or on failure.
// Callers fall back to in-process locks, deny lists and event bus.
func OptionalRedis(ctx context.Context, url string, log *zap.Logger) *redis.Client {
	if url == "" {
		log.Warn("REDIS_URL is empty, running single-node")
		return nil
	}
	client, err := NewRedisClient(ctx, url, log)
	if err != nil {
		log.Warn("redis unavailable, running single-node", zap.Error(err))
		return nil
	}
	return client
}

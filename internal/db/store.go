package db

import (
	"context"
	"fmt"

	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/rowstore/memory"
	"github.com/earngage/backend/internal/rowstore/postgres"
	"github.com/earngage/backend/internal/rowstore/rows"
	"github.com/earngage/backend/migrations"
	"go.uber.org/zap"
)

// OpenStore builds the row store selected by STORE_BACKEND. The returned func
// releases whatever the backend holds open.
func OpenStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (rowstore.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return memory.New(), func() {}, nil

	case config.BackendPostgres:
		pool, err := NewPostgresPool(ctx, cfg.PostgresDSN, cfg.PostgresMaxConns, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := RunMigrations(ctx, pool, migrations.FS, log); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		return postgres.New(pool, log), pool.Close, nil

	default:
		client := rows.NewClient(rows.Options{
			BaseURL:   cfg.RowsAPIURL,
			APIKey:    cfg.RowsAPIKey,
			Token:     cfg.RowsAPIToken,
			Timeout:   cfg.RowsTimeout,
			RateLimit: cfg.RowsRateLimitRPS,
		}, log)
		log.Info("using rows backend", zap.String("url", cfg.RowsAPIURL))
		return client, func() {}, nil
	}
}

package db

import (
	"context"
	"testing"

	"github.com/earngage/backend/internal/config"
	"github.com/earngage/backend/internal/rowstore/memory"
	"github.com/earngage/backend/internal/rowstore/rows"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStoreMemory(t *testing.T) {
	store, closeFn, err := OpenStore(context.Background(), &config.Config{StoreBackend: config.BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	_, ok := store.(*memory.Store)
	assert.True(t, ok, "got %T", store)
}

func TestOpenStoreRows(t *testing.T) {
	cfg := &config.Config{StoreBackend: config.BackendRows, RowsAPIURL: "http://rows.local/v1"}
	store, closeFn, err := OpenStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	_, ok := store.(*rows.Client)
	assert.True(t, ok, "got %T", store)
}

func TestOptionalRedisEmptyURL(t *testing.T) {
	assert.Nil(t, OptionalRedis(context.Background(), "", zap.NewNop()))
}

func TestOptionalRedisBadURL(t *testing.T) {
	assert.Nil(t, OptionalRedis(context.Background(), "not-a-url://", zap.NewNop()))
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/repositories"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/socialstats"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type StatsFetcher interface {
	Fetch(ctx context.Context, handle string) (*socialstats.ChannelStats, error)
}

// MetricsService refreshes creators' audience metrics from their public Telegram channels.
type MetricsService struct {
	creatorRepo *repositories.CreatorProfileRepo
	fetcher     StatsFetcher
	rdb         *redis.Client // nil disables the per-handle rate key
	interval    time.Duration
	pause       time.Duration
	log         *zap.Logger
}

func NewMetricsService(
	creatorRepo *repositories.CreatorProfileRepo,
	fetcher StatsFetcher,
	rdb *redis.Client,
	interval time.Duration,
	log *zap.Logger,
) *MetricsService {
	return &MetricsService{
		creatorRepo: creatorRepo,
		fetcher:     fetcher,
		rdb:         rdb,
		interval:    interval,
		pause:       2 * time.Second,
		log:         log,
	}
}

// RefreshCreatorMetrics walks every creator with a Telegram handle and returns how many were updated.
// A failure for one creator is logged and does not stop the run.
func (s *MetricsService) RefreshCreatorMetrics(ctx context.Context) (int, error) {
	profiles, err := s.creatorRepo.Query(ctx, nil, rowstore.All())
	if err != nil {
		return 0, fmt.Errorf("list creators: %w", err)
	}

	refreshed := 0
	for _, p := range profiles {
		handle := p.TelegramHandle()
		if handle == "" {
			continue
		}
		if !s.due(ctx, handle) {
			continue
		}

		if _, err := s.refresh(ctx, p, handle); err != nil {
			s.log.Warn("creator metrics refresh failed", zap.String("user_id", p.UserID), zap.String("handle", handle), zap.Error(err))
			continue
		}
		refreshed++

		select {
		case <-ctx.Done():
			return refreshed, ctx.Err()
		case <-time.After(s.pause):
		}
	}
	s.log.Info("creator metrics refreshed", zap.Int("profiles", len(profiles)), zap.Int("refreshed", refreshed))
	return refreshed, nil
}

// RefreshCreator refreshes one creator immediately, ignoring the rate key.
func (s *MetricsService) RefreshCreator(ctx context.Context, userID string) (*models.CreatorProfile, error) {
	p, err := s.creatorRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("Creator profile not found")
	}
	handle := p.TelegramHandle()
	if handle == "" {
		return nil, apperr.Validation("socialMedia.telegram is not set")
	}
	return s.refresh(ctx, *p, handle)
}

func (s *MetricsService) refresh(ctx context.Context, p models.CreatorProfile, handle string) (*models.CreatorProfile, error) {
	stats, err := s.fetcher.Fetch(ctx, handle)
	if err != nil {
		return nil, err
	}

	metrics := make(map[string]any, len(p.Metrics)+1)
	for k, v := range p.Metrics {
		metrics[k] = v
	}
	metrics["telegram"] = stats.Metrics()

	now := clock()
	patch := rowstore.Row{
		"metrics":          metrics,
		"metricsUpdatedAt": now,
		"updatedAt":        now,
	}
	if stats.Subscribers != nil {
		patch["followerCount"] = *stats.Subscribers
	}
	if stats.EngagementRate != nil {
		patch["engagementRate"] = *stats.EngagementRate
	}
	return s.creatorRepo.Update(ctx, p.ID, patch)
}

// due claims the handle's rate key. Without Redis every handle is due.
func (s *MetricsService) due(ctx context.Context, handle string) bool {
	if s.rdb == nil {
		return true
	}
	ok, err := s.rdb.SetNX(ctx, "rl:stats:"+handle, "1", s.interval).Result()
	if err != nil {
		s.log.Warn("stats rate key failed", zap.String("handle", handle), zap.Error(err))
		return true
	}
	return ok
}

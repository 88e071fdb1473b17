package repositories

import (
	"context"

	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
)

// AnalyticsRepo is the append-only event log.
type AnalyticsRepo struct {
	t table[models.AnalyticsEvent]
}

func NewAnalyticsRepo(store rowstore.Store) *AnalyticsRepo {
	return &AnalyticsRepo{t: table[models.AnalyticsEvent]{store: store, name: TableAnalytics}}
}

func (r *AnalyticsRepo) Log(ctx context.Context, e *models.AnalyticsEvent) error {
	return r.t.create(ctx, e)
}

// List returns every matching event in chronological order.
func (r *AnalyticsRepo) List(ctx context.Context, f rowstore.Filter) ([]models.AnalyticsEvent, error) {
	return r.t.query(ctx, f, rowstore.QueryOptions{OrderBy: "timestamp", OrderDirection: "asc"})
}

func (r *AnalyticsRepo) ListByCampaigns(ctx context.Context, eventType string, campaignIDs []string) ([]models.AnalyticsEvent, error) {
	ids := uniq(campaignIDs)
	if len(ids) == 0 {
		return []models.AnalyticsEvent{}, nil
	}
	return r.List(ctx, rowstore.Filter{"eventType": eventType, "campaignId_in": ids})
}

func (r *AnalyticsRepo) Count(ctx context.Context, f rowstore.Filter) (int, error) {
	return r.t.count(ctx, f)
}

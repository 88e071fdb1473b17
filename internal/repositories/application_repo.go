package repositories

import (
	"context"

	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
)

type ApplicationRepo struct {
	t table[models.Application]
}

func NewApplicationRepo(store rowstore.Store) *ApplicationRepo {
	return &ApplicationRepo{t: table[models.Application]{store: store, name: TableApplications}}
}

func (r *ApplicationRepo) Create(ctx context.Context, a *models.Application) error {
	return r.t.create(ctx, a)
}

func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	return r.t.get(ctx, id)
}

// FindByCreatorAndCampaign returns nil, nil when the creator has not applied.
func (r *ApplicationRepo) FindByCreatorAndCampaign(ctx context.Context, creatorUserID, campaignID string) (*models.Application, error) {
	return r.t.first(ctx, rowstore.Filter{"creatorUserId": creatorUserID, "campaignId": campaignID})
}

func (r *ApplicationRepo) Update(ctx context.Context, id string, patch rowstore.Row) (*models.Application, error) {
	return r.t.update(ctx, id, patch)
}

func (r *ApplicationRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

// List returns every matching application, newest first.
func (r *ApplicationRepo) List(ctx context.Context, f rowstore.Filter) ([]models.Application, error) {
	return r.t.query(ctx, f, rowstore.QueryOptions{OrderBy: "createdAt", OrderDirection: "desc"})
}

func (r *ApplicationRepo) ListByCampaigns(ctx context.Context, campaignIDs []string) ([]models.Application, error) {
	return r.t.in(ctx, "campaignId", campaignIDs)
}

func (r *ApplicationRepo) Count(ctx context.Context, f rowstore.Filter) (int, error) {
	return r.t.count(ctx, f)
}

package repositories

import (
	"context"

	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
)

type CampaignRepo struct {
	t table[models.Campaign]
}

func NewCampaignRepo(store rowstore.Store) *CampaignRepo {
	return &CampaignRepo{t: table[models.Campaign]{store: store, name: TableCampaigns}}
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.t.create(ctx, c)
}

func (r *CampaignRepo) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	return r.t.get(ctx, id)
}

func (r *CampaignRepo) GetByIDs(ctx context.Context, ids []string) (map[string]models.Campaign, error) {
	campaigns, err := r.t.in(ctx, "id", ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.Campaign, len(campaigns))
	for _, c := range campaigns {
		out[c.ID] = c
	}
	return out, nil
}

func (r *CampaignRepo) Update(ctx context.Context, id string, patch rowstore.Row) (*models.Campaign, error) {
	return r.t.update(ctx, id, patch)
}

func (r *CampaignRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

type CampaignFilter struct {
	Filter   rowstore.Filter
	Page     int
	PageSize int // <= 0 returns everything
}

// List returns campaigns newest first.
func (r *CampaignRepo) List(ctx context.Context, f CampaignFilter) ([]models.Campaign, error) {
	return r.t.query(ctx, f.Filter, rowstore.QueryOptions{
		Page:           f.Page,
		PageSize:       f.PageSize,
		OrderBy:        "createdAt",
		OrderDirection: "desc",
	})
}

func (r *CampaignRepo) Count(ctx context.Context, f rowstore.Filter) (int, error) {
	return r.t.count(ctx, f)
}

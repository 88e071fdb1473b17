package repositories

import (
	"context"

	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
)

type CreatorProfileRepo struct {
	t table[models.CreatorProfile]
}

func NewCreatorProfileRepo(store rowstore.Store) *CreatorProfileRepo {
	return &CreatorProfileRepo{t: table[models.CreatorProfile]{store: store, name: TableCreatorProfiles}}
}

func (r *CreatorProfileRepo) Create(ctx context.Context, p *models.CreatorProfile) error {
	return r.t.create(ctx, p)
}

func (r *CreatorProfileRepo) GetByID(ctx context.Context, id string) (*models.CreatorProfile, error) {
	return r.t.get(ctx, id)
}

// GetByUserID returns nil, nil when the user has no creator profile.
func (r *CreatorProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.CreatorProfile, error) {
	return r.t.first(ctx, rowstore.Filter{"userId": userID})
}

func (r *CreatorProfileRepo) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.CreatorProfile, error) {
	profiles, err := r.t.in(ctx, "userId", userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.CreatorProfile, len(profiles))
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *CreatorProfileRepo) Update(ctx context.Context, id string, patch rowstore.Row) (*models.CreatorProfile, error) {
	return r.t.update(ctx, id, patch)
}

func (r *CreatorProfileRepo) List(ctx context.Context, f rowstore.Filter) ([]models.CreatorProfile, error) {
	return r.t.query(ctx, f, rowstore.QueryOptions{OrderBy: "createdAt", OrderDirection: "desc"})
}

func (r *CreatorProfileRepo) Query(ctx context.Context, f rowstore.Filter, opts rowstore.QueryOptions) ([]models.CreatorProfile, error) {
	return r.t.query(ctx, f, opts)
}

func (r *CreatorProfileRepo) Count(ctx context.Context, f rowstore.Filter) (int, error) {
	return r.t.count(ctx, f)
}

type BrandProfileRepo struct {
	t table[models.BrandProfile]
}

func NewBrandProfileRepo(store rowstore.Store) *BrandProfileRepo {
	return &BrandProfileRepo{t: table[models.BrandProfile]{store: store, name: TableBrandProfiles}}
}

func (r *BrandProfileRepo) Create(ctx context.Context, p *models.BrandProfile) error {
	return r.t.create(ctx, p)
}

// GetByUserID returns nil, nil when the user has no brand profile.
func (r *BrandProfileRepo) GetByUserID(ctx context.Context, userID string) (*models.BrandProfile, error) {
	return r.t.first(ctx, rowstore.Filter{"userId": userID})
}

func (r *BrandProfileRepo) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]models.BrandProfile, error) {
	profiles, err := r.t.in(ctx, "userId", userIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.BrandProfile, len(profiles))
	for _, p := range profiles {
		out[p.UserID] = p
	}
	return out, nil
}

func (r *BrandProfileRepo) Update(ctx context.Context, id string, patch rowstore.Row) (*models.BrandProfile, error) {
	return r.t.update(ctx, id, patch)
}

func (r *BrandProfileRepo) List(ctx context.Context, f rowstore.Filter) ([]models.BrandProfile, error) {
	return r.t.query(ctx, f, rowstore.QueryOptions{OrderBy: "createdAt", OrderDirection: "desc"})
}

func (r *BrandProfileRepo) Query(ctx context.Context, f rowstore.Filter, opts rowstore.QueryOptions) ([]models.BrandProfile, error) {
	return r.t.query(ctx, f, opts)
}

func (r *BrandProfileRepo) Count(ctx context.Context, f rowstore.Filter) (int, error) {
	return r.t.count(ctx, f)
}

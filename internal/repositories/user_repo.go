package repositories

import (
	"context"
	"strings"

	"github.com/earngage/backend/internal/models"
	"github.com/earngage/backend/internal/rowstore"
)

type UserRepo struct {
	t table[models.User]
}

func NewUserRepo(store rowstore.Store) *UserRepo {
	return &UserRepo{t: table[models.User]{store: store, name: TableUsers}}
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) error {
	return r.t.create(ctx, u)
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.t.get(ctx, id)
}

// GetByEmail returns nil, nil when no user has the address.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.t.first(ctx, rowstore.Filter{"email": strings.ToLower(strings.TrimSpace(email))})
}

// GetByIDs returns the users found, keyed by id. Missing ids are simply absent.
func (r *UserRepo) GetByIDs(ctx context.Context, ids []string) (map[string]models.User, error) {
	users, err := r.t.in(ctx, "id", ids)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.User, len(users))
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, id string, patch rowstore.Row) (*models.User, error) {
	return r.t.update(ctx, id, patch)
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	return r.t.delete(ctx, id)
}

func (r *UserRepo) List(ctx context.Context, f rowstore.Filter) ([]models.User, error) {
	return r.t.query(ctx, f, rowstore.QueryOptions{OrderBy: "createdAt"})
}

func (r *UserRepo) Count(ctx context.Context, f rowstore.Filter) (int, error) {
	return r.t.count(ctx, f)
}

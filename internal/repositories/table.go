package repositories

import (
	"context"

	"github.com/earngage/backend/internal/rowstore"
)

// Table names in the row store
const (
	TableUsers           = "users"
	TableCreatorProfiles = "creator_profiles"
	TableBrandProfiles   = "brand_profiles"
	TableCampaigns       = "campaigns"
	TableApplications    = "applications"
	TableAnalytics       = "analytics"
	TableNotifications   = "notifications"
)

// table is the typed row codec every repo embeds.
type table[T any] struct {
	store rowstore.Store
	name  string
}

func (t table[T]) create(ctx context.Context, v *T) error {
	row, err := rowstore.Encode(v)
	if err != nil {
		return err
	}
	created, err := t.store.Create(ctx, t.name, row)
	if err != nil {
		return err
	}
	if len(created) == 0 {
		return nil
	}
	return rowstore.Decode(created, v)
}

func (t table[T]) get(ctx context.Context, id string) (*T, error) {
	row, err := t.store.GetByID(ctx, t.name, id)
	if err != nil {
		return nil, err
	}
	var v T
	if err := rowstore.Decode(row, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// update applies a partial patch. Some backends answer PATCH with an empty body,
// in which case the row is read back.
func (t table[T]) update(ctx context.Context, id string, patch rowstore.Row) (*T, error) {
	updated, err := t.store.Update(ctx, t.name, id, patch)
	if err != nil {
		return nil, err
	}
	if len(updated) == 0 {
		return t.get(ctx, id)
	}
	var v T
	if err := rowstore.Decode(updated, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (t table[T]) delete(ctx context.Context, id string) error {
	return t.store.Delete(ctx, t.name, id)
}

func (t table[T]) query(ctx context.Context, f rowstore.Filter, opts rowstore.QueryOptions) ([]T, error) {
	rows, err := t.store.Query(ctx, t.name, f, opts)
	if err != nil {
		return nil, err
	}
	return rowstore.DecodeAll[T](rows)
}

func (t table[T]) first(ctx context.Context, f rowstore.Filter) (*T, error) {
	items, err := t.query(ctx, f, rowstore.QueryOptions{Page: 1, PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// in fetches every row whose field is one of values with a single query.
func (t table[T]) in(ctx context.Context, field string, values []string) ([]T, error) {
	values = uniq(values)
	if len(values) == 0 {
		return []T{}, nil
	}
	return t.query(ctx, rowstore.Filter{field + "_in": values}, rowstore.All())
}

func (t table[T]) count(ctx context.Context, f rowstore.Filter) (int, error) {
	return t.store.Count(ctx, t.name, f)
}

func uniq(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Package rowstore is the collection-oriented CRUD layer every repository sits on.
// Backends live in subpackages: rows (the Rows REST API), postgres and memory.
package rowstore

import "context"

// Row is one record of a table. Keys are the stored camelCase field names.
type Row map[string]any

// ID returns the row's "id" field as a string.
func (r Row) ID() string {
	id, _ := r["id"].(string)
	return id
}

// Filter maps field names, optionally suffixed with an operator
// (field_gt, field_gte, field_lt, field_lte, field_contains, field_in), to values.
// Unsuffixed keys are equality constraints. All constraints are ANDed.
type Filter map[string]any

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

type ListOptions struct {
	Page     int
	PageSize int
	Filters  Filter
}

type QueryOptions struct {
	Page     int
	PageSize int // <= 0 returns every matching row
	OrderBy  string
	// "asc" or "desc"; empty means asc
	OrderDirection string
}

// All is shorthand for a query that returns every matching row.
func All() QueryOptions { return QueryOptions{} }

type Store interface {
	GetAll(ctx context.Context, table string, opts ListOptions) ([]Row, error)
	// GetByID returns an apperr NotFound error when no row has the id.
	GetByID(ctx context.Context, table, id string) (Row, error)
	Create(ctx context.Context, table string, data Row) (Row, error)
	// Update merges data into the stored row and returns the result.
	Update(ctx context.Context, table, id string, data Row) (Row, error)
	Delete(ctx context.Context, table, id string) error
	Query(ctx context.Context, table string, filter Filter, opts QueryOptions) ([]Row, error)
	Count(ctx context.Context, table string, filter Filter) (int, error)
}

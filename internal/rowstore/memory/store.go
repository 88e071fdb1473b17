// Package memory is an in-process rowstore.Store used by tests and STORE_BACKEND=memory.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/google/uuid"
)

type table struct {
	rows  map[string]rowstore.Row
	order []string
}

type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
}

func New() *Store {
	return &Store{tables: make(map[string]*table)}
}

func (s *Store) table(name string) *table {
	t, ok := s.tables[name]
	if !ok {
		t = &table{rows: make(map[string]rowstore.Row)}
		s.tables[name] = t
	}
	return t
}

// scan returns decoded copies of every row of name matching f, in insertion order.
func (s *Store) scan(name string, f rowstore.Filter) []rowstore.Row {
	t, ok := s.tables[name]
	if !ok {
		return []rowstore.Row{}
	}
	out := make([]rowstore.Row, 0, len(t.order))
	for _, id := range t.order {
		row := t.rows[id]
		if f.Matches(row) {
			out = append(out, rowstore.RowFromWire(row))
		}
	}
	return out
}

func (s *Store) GetAll(_ context.Context, name string, opts rowstore.ListOptions) ([]rowstore.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	offset, limit := rowstore.Pagination(opts.Page, opts.PageSize)
	return rowstore.Window(s.scan(name, opts.Filters), offset, limit), nil
}

func (s *Store) GetByID(_ context.Context, name, id string) (rowstore.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tables[name]
	if !ok {
		return nil, apperr.NotFound("%s row %s not found", name, id)
	}
	row, ok := t.rows[id]
	if !ok {
		return nil, apperr.NotFound("%s row %s not found", name, id)
	}
	return rowstore.RowFromWire(row), nil
}

func (s *Store) Create(_ context.Context, name string, data rowstore.Row) (rowstore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := rowstore.RowToWire(data)
	if row == nil {
		row = rowstore.Row{}
	}
	id := row.ID()
	if id == "" {
		id = uuid.NewString()
		row["id"] = id
	}

	t := s.table(name)
	if _, exists := t.rows[id]; exists {
		return nil, apperr.Duplicate("%s row %s already exists", name, id)
	}
	t.rows[id] = row
	t.order = append(t.order, id)
	return rowstore.RowFromWire(row), nil
}

func (s *Store) Update(_ context.Context, name, id string, data rowstore.Row) (rowstore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return nil, apperr.NotFound("%s row %s not found", name, id)
	}
	row, ok := t.rows[id]
	if !ok {
		return nil, apperr.NotFound("%s row %s not found", name, id)
	}
	// id может ссылаться на буфер запроса, ключ берём из сохранённой строки
	if stored := row.ID(); stored != "" {
		id = stored
	} else {
		id = strings.Clone(id)
	}

	merged := make(rowstore.Row, len(row)+len(data))
	for k, v := range row {
		merged[k] = v
	}
	for k, v := range rowstore.RowToWire(data) {
		merged[k] = v
	}
	merged["id"] = id
	t.rows[id] = merged
	return rowstore.RowFromWire(merged), nil
}

func (s *Store) Delete(_ context.Context, name, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tables[name]
	if !ok {
		return apperr.NotFound("%s row %s not found", name, id)
	}
	if _, ok := t.rows[id]; !ok {
		return apperr.NotFound("%s row %s not found", name, id)
	}
	delete(t.rows, id)
	for i, rid := range t.order {
		if rid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) Query(_ context.Context, name string, f rowstore.Filter, opts rowstore.QueryOptions) ([]rowstore.Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.scan(name, f)
	rowstore.SortRows(rows, opts.OrderBy, opts.OrderDirection)
	if opts.PageSize <= 0 {
		return rows, nil
	}
	offset, limit := rowstore.Pagination(opts.Page, opts.PageSize)
	return rowstore.Window(rows, offset, limit), nil
}

func (s *Store) Count(_ context.Context, name string, f rowstore.Filter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.scan(name, f)), nil
}

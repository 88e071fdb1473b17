// Package postgres stores rowstore tables as JSONB documents in a single "rows" table.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

var _ rowstore.Store = (*Store)(nil)

func New(pool *pgxpool.Pool, log *zap.Logger) *Store {
	return &Store{pool: pool, log: log}
}

func (s *Store) GetAll(ctx context.Context, table string, opts rowstore.ListOptions) ([]rowstore.Row, error) {
	offset, limit := rowstore.Pagination(opts.Page, opts.PageSize)
	rows, err := s.selectRows(ctx, table, opts.Filters)
	if err != nil {
		return nil, err
	}
	return rowstore.Window(rows, offset, limit), nil
}

func (s *Store) GetByID(ctx context.Context, table, id string) (rowstore.Row, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM rows WHERE tbl = $1 AND id = $2`, table, id).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("%s row %s not found", table, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s row: %w", table, err)
	}
	return decode(data)
}

func (s *Store) Create(ctx context.Context, table string, in rowstore.Row) (rowstore.Row, error) {
	row := rowstore.RowToWire(in)
	if row == nil {
		row = rowstore.Row{}
	}
	if row.ID() == "" {
		row["id"] = uuid.NewString()
	}
	payload, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode %s row: %w", table, err)
	}

	var data []byte
	err = s.pool.QueryRow(ctx, `
		INSERT INTO rows (tbl, id, data)
		VALUES ($1, $2, $3::jsonb)
		RETURNING data
	`, table, row.ID(), string(payload)).Scan(&data)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Duplicate("%s row already exists", table)
		}
		return nil, fmt.Errorf("insert %s row: %w", table, err)
	}
	return decode(data)
}

func (s *Store) Update(ctx context.Context, table, id string, in rowstore.Row) (rowstore.Row, error) {
	patch := rowstore.RowToWire(in)
	if patch == nil {
		patch = rowstore.Row{}
	}
	delete(patch, "id")
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("encode %s row: %w", table, err)
	}

	var data []byte
	err = s.pool.QueryRow(ctx, `
		UPDATE rows SET data = data || $3::jsonb, updated_at = now()
		WHERE tbl = $1 AND id = $2
		RETURNING data
	`, table, id, string(payload)).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("%s row %s not found", table, id)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Duplicate("%s row conflicts with an existing row", table)
		}
		return nil, fmt.Errorf("update %s row: %w", table, err)
	}
	return decode(data)
}

func (s *Store) Delete(ctx context.Context, table, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rows WHERE tbl = $1 AND id = $2`, table, id)
	if err != nil {
		return fmt.Errorf("delete %s row: %w", table, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("%s row %s not found", table, id)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, table string, f rowstore.Filter, opts rowstore.QueryOptions) ([]rowstore.Row, error) {
	rows, err := s.selectRows(ctx, table, f)
	if err != nil {
		return nil, err
	}
	rowstore.SortRows(rows, opts.OrderBy, opts.OrderDirection)
	if opts.PageSize <= 0 {
		return rows, nil
	}
	offset, limit := rowstore.Pagination(opts.Page, opts.PageSize)
	return rowstore.Window(rows, offset, limit), nil
}

func (s *Store) Count(ctx context.Context, table string, f rowstore.Filter) (int, error) {
	where, args, residual := buildWhere(table, f)
	if len(residual) > 0 {
		rows, err := s.selectRows(ctx, table, f)
		if err != nil {
			return 0, err
		}
		return len(rows), nil
	}

	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM rows WHERE `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s rows: %w", table, err)
	}
	return n, nil
}

// selectRows pushes what it can down to SQL and evaluates the rest in memory.
func (s *Store) selectRows(ctx context.Context, table string, f rowstore.Filter) ([]rowstore.Row, error) {
	where, args, residual := buildWhere(table, f)

	pgRows, err := s.pool.Query(ctx, `SELECT data FROM rows WHERE `+where+` ORDER BY seq`, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s rows: %w", table, err)
	}
	defer pgRows.Close()

	out := []rowstore.Row{}
	for pgRows.Next() {
		var data []byte
		if err := pgRows.Scan(&data); err != nil {
			return nil, err
		}
		row, err := decode(data)
		if err != nil {
			return nil, err
		}
		if residual.Matches(row) {
			out = append(out, row)
		}
	}
	if err := pgRows.Err(); err != nil {
		return nil, fmt.Errorf("query %s rows: %w", table, err)
	}
	return out, nil
}

// buildWhere turns scalar equality constraints into one JSONB containment test
// and string _in lists into ANY() checks. Everything else is returned as residual.
func buildWhere(table string, f rowstore.Filter) (string, []any, rowstore.Filter) {
	clauses := []string{"tbl = $1"}
	args := []any{table}
	contains := map[string]any{}
	residual := rowstore.Filter{}

	for key, val := range f {
		field, op := rowstore.ParseKey(key)
		switch {
		case op == rowstore.OpEq && isScalar(val):
			contains[field] = rowstore.ToWire(val)
		case op == rowstore.OpIn:
			list, ok := stringList(val)
			if !ok {
				residual[key] = val
				continue
			}
			args = append(args, field, list)
			clauses = append(clauses, fmt.Sprintf("data->>($%d::text) = ANY($%d::text[])", len(args)-1, len(args)))
		default:
			residual[key] = val
		}
	}

	if len(contains) > 0 {
		payload, _ := json.Marshal(contains)
		args = append(args, string(payload))
		clauses = append(clauses, fmt.Sprintf("data @> $%d::jsonb", len(args)))
	}
	return strings.Join(clauses, " AND "), args, residual
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int32, int64, float32, float64:
		return true
	}
	return false
}

func stringList(v any) ([]string, bool) {
	switch x := v.(type) {
	case []string:
		return x, true
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func decode(data []byte) (rowstore.Row, error) {
	var row rowstore.Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return rowstore.RowFromWire(row), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

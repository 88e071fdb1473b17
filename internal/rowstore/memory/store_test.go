package memory

import (
	"context"
	"testing"
	"time"
	"unsafe"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	created, err := s.Create(ctx, "campaigns", rowstore.Row{
		"id":        "cmp-1",
		"title":     "Launch",
		"createdAt": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.IsType(t, time.Time{}, created["createdAt"])

	_, err = s.Create(ctx, "campaigns", rowstore.Row{"id": "cmp-1"})
	assert.True(t, apperr.IsDuplicate(err))

	updated, err := s.Update(ctx, "campaigns", "cmp-1", rowstore.Row{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, "Launch", updated["title"])
	assert.Equal(t, "active", updated["status"])

	got, err := s.GetByID(ctx, "campaigns", "cmp-1")
	require.NoError(t, err)
	assert.Equal(t, "active", got["status"])

	// returned rows are copies
	got["status"] = "mutated"
	again, _ := s.GetByID(ctx, "campaigns", "cmp-1")
	assert.Equal(t, "active", again["status"])

	require.NoError(t, s.Delete(ctx, "campaigns", "cmp-1"))
	_, err = s.GetByID(ctx, "campaigns", "cmp-1")
	assert.True(t, apperr.IsNotFound(err))
	assert.True(t, apperr.IsNotFound(s.Delete(ctx, "campaigns", "cmp-1")))

	_, err = s.Update(ctx, "campaigns", "missing", rowstore.Row{"x": 1})
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateAssignsID(t *testing.T) {
	s := New()
	row, err := s.Create(context.Background(), "analytics", rowstore.Row{"eventType": "x"})
	require.NoError(t, err)
	assert.NotEmpty(t, row.ID())
}

func TestQueryAndCount(t *testing.T) {
	ctx := context.Background()
	s := New()
	for i, status := range []string{"active", "draft", "active", "active"} {
		_, err := s.Create(ctx, "campaigns", rowstore.Row{
			"id":        string(rune('a' + i)),
			"status":    status,
			"budget":    float64(100 * (i + 1)),
			"createdAt": time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}

	rows, err := s.Query(ctx, "campaigns", rowstore.Filter{"status": "active"}, rowstore.QueryOptions{
		OrderBy: "createdAt", OrderDirection: "desc",
	})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "d", rows[0].ID())
	assert.Equal(t, "a", rows[2].ID())

	page, err := s.Query(ctx, "campaigns", rowstore.Filter{"budget_gte": 200}, rowstore.QueryOptions{
		Page: 2, PageSize: 2, OrderBy: "budget",
	})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "d", page[0].ID())

	n, err := s.Count(ctx, "campaigns", rowstore.Filter{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = s.Count(ctx, "unknown", nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := s.GetAll(ctx, "campaigns", rowstore.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	second, err := s.GetAll(ctx, "campaigns", rowstore.ListOptions{Page: 2, PageSize: 3})
	require.NoError(t, err)
	assert.Len(t, second, 1)
}

func TestUpdateKeepsStoredKey(t *testing.T) {
	ctx := context.Background()
	s := New()

	_, err := s.Create(ctx, "campaigns", rowstore.Row{"id": "cmp-42", "status": "draft"})
	require.NoError(t, err)

	// id backed by a reusable buffer, as fiber hands out path params
	buf := []byte("cmp-42")
	id := unsafe.String(&buf[0], len(buf))
	_, err = s.Update(ctx, "campaigns", id, rowstore.Row{"status": "active"})
	require.NoError(t, err)
	copy(buf, "xxx-99")

	got, err := s.GetByID(ctx, "campaigns", "cmp-42")
	require.NoError(t, err)
	assert.Equal(t, "active", got["status"])
	assert.Equal(t, "cmp-42", got["id"])

	n, err := s.Count(ctx, "campaigns", rowstore.Filter{"id": "cmp-42"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

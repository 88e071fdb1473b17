package postgres

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/earngage/backend/internal/rowstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWhereEqualityOnly(t *testing.T) {
	where, args, residual := buildWhere("campaigns", rowstore.Filter{"status": "active", "brandUserId": "usr-1"})

	assert.Equal(t, "tbl = $1 AND data @> $2::jsonb", where)
	require.Len(t, args, 2)
	assert.Equal(t, "campaigns", args[0])

	var contains map[string]any
	require.NoError(t, json.Unmarshal([]byte(args[1].(string)), &contains))
	assert.Equal(t, map[string]any{"status": "active", "brandUserId": "usr-1"}, contains)
	assert.Empty(t, residual)
}

func TestBuildWhereInAndResidual(t *testing.T) {
	f := rowstore.Filter{
		"id_in":          []string{"a", "b"},
		"budget_gte":     100,
		"title_contains": "shoe",
		"categories":     []string{"x"},
	}
	where, args, residual := buildWhere("campaigns", f)

	assert.True(t, strings.HasPrefix(where, "tbl = $1 AND data->>($2::text) = ANY($3::text[])"), where)
	assert.Equal(t, "id", args[1])
	assert.Equal(t, []string{"a", "b"}, args[2])
	assert.Len(t, residual, 3)
	assert.Contains(t, residual, "budget_gte")
	assert.Contains(t, residual, "title_contains")
	assert.Contains(t, residual, "categories")
}

func TestBuildWhereNonStringInIsResidual(t *testing.T) {
	_, args, residual := buildWhere("t", rowstore.Filter{"n_in": []any{1, 2}})
	assert.Len(t, args, 1)
	assert.Contains(t, residual, "n_in")
}

func TestBuildWhereTimeEquality(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	where, args, residual := buildWhere("t", rowstore.Filter{"createdAt": ts})
	// time values are not scalar JSON; they are matched in memory
	assert.Equal(t, "tbl = $1", where)
	assert.Len(t, args, 1)
	assert.Contains(t, residual, "createdAt")
}

package rows

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorded struct {
	method string
	path   string
	query  map[string]string
	header http.Header
	body   map[string]any
}

func newTestServer(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*Client, *[]recorded) {
	t.Helper()
	var mu sync.Mutex
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, header: r.Header.Clone(), query: map[string]string{}}
		for k := range r.URL.Query() {
			rec.query[k] = r.URL.Query().Get(k)
		}
		data, _ := io.ReadAll(r.Body)
		if len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		r.Body = io.NopCloser(bytes.NewReader(data))
		mu.Lock()
		calls = append(calls, rec)
		mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(Options{BaseURL: srv.URL + "/", APIKey: "key-1", Token: "static"}, zap.NewNop())
	return c, &calls
}

func TestGetAllBuildsPagination(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"cmp-1","createdAt":"2024-01-02T03:04:05.000Z"}]`))
	})

	rows, err := c.GetAll(context.Background(), "campaigns", rowstore.ListOptions{
		Page: 3, PageSize: 20, Filters: rowstore.Filter{"status": "active", "id_in": []string{"a", "b"}},
	})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.IsType(t, time.Time{}, rows[0]["createdAt"])

	call := (*calls)[0]
	assert.Equal(t, http.MethodGet, call.method)
	assert.Equal(t, "/tables/campaigns/rows", call.path)
	assert.Equal(t, "40", call.query["offset"])
	assert.Equal(t, "20", call.query["limit"])
	assert.Equal(t, "active", call.query["status"])
	assert.Equal(t, "a,b", call.query["id_in"])
	assert.Equal(t, "key-1", call.header.Get("X-API-Key"))
	assert.Equal(t, "Bearer static", call.header.Get("Authorization"))
}

func TestSessionTokenOverridesStatic(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"usr-1"}`))
	})

	ctx := session.WithSession(context.Background(), session.NewMemory("user-token"))
	_, err := c.GetByID(ctx, "users", "usr-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", (*calls)[0].header.Get("Authorization"))
}

func TestQuerySendsFilterAndOrder(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"a"},{"id":"b"}]}`))
	})

	rows, err := c.Query(context.Background(), "campaigns",
		rowstore.Filter{"status": "active", "budget_gte": 100},
		rowstore.QueryOptions{Page: 1, PageSize: 10, OrderBy: "createdAt", OrderDirection: "desc"},
	)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	call := (*calls)[0]
	assert.Equal(t, "createdAt", call.query["order_by"])
	assert.Equal(t, "desc", call.query["order_direction"])

	var filter map[string]any
	require.NoError(t, json.Unmarshal([]byte(call.query["filter"]), &filter))
	assert.Equal(t, "active", filter["status"])
	assert.Equal(t, float64(100), filter["budget.gte"])
}

func TestQueryAllWalksPages(t *testing.T) {
	var served int
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		served++
		if served == 1 {
			rows := make([]map[string]any, maxPageSize)
			for i := range rows {
				rows[i] = map[string]any{"id": i}
			}
			_ = json.NewEncoder(w).Encode(rows)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"last"}]`))
	})

	rows, err := c.Query(context.Background(), "analytics", nil, rowstore.All())
	require.NoError(t, err)
	assert.Len(t, rows, maxPageSize+1)
	require.Len(t, *calls, 2)
	assert.Equal(t, "500", (*calls)[1].query["offset"])
	assert.NotContains(t, (*calls)[0].query, "filter")
}

func TestCount(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":7}`))
	})

	n, err := c.Count(context.Background(), "applications", rowstore.Filter{"campaignId": "cmp-1"})
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "true", (*calls)[0].query["count_only"])
}

func TestCountMissingFieldIsZero(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	n, err := c.Count(context.Background(), "applications", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateAndUpdateNormaliseDates(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})

	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	created, err := c.Create(context.Background(), "campaigns", rowstore.Row{"id": "cmp-1", "createdAt": ts})
	require.NoError(t, err)
	got, ok := created["createdAt"].(time.Time)
	require.True(t, ok)
	assert.True(t, got.Equal(ts))

	_, err = c.Update(context.Background(), "campaigns", "cmp-1", rowstore.Row{"updatedAt": ts})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, (*calls)[0].method)
	assert.Equal(t, "2024-05-06T07:08:09.000Z", (*calls)[0].body["createdAt"])
	assert.Equal(t, http.MethodPatch, (*calls)[1].method)
	assert.Equal(t, "/tables/campaigns/rows/cmp-1", (*calls)[1].path)
}

func TestErrorsAreNormalised(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tables/users/rows/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"row not found"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"message":"upstream down","code":"E502"}`))
		}
	})

	_, err := c.GetByID(context.Background(), "users", "missing")
	assert.True(t, apperr.IsNotFound(err))

	_, err = c.Query(context.Background(), "users", nil, rowstore.QueryOptions{PageSize: 5})
	require.Error(t, err)
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindTransport, e.Kind)
	assert.Equal(t, http.StatusBadGateway, e.Status)
	assert.Equal(t, "upstream down", e.Message)
	assert.Equal(t, "E502", e.Details.(map[string]any)["code"])
}

func TestNoResponseIsStatusZero(t *testing.T) {
	c := NewClient(Options{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}, zap.NewNop())
	_, err := c.GetAll(context.Background(), "users", rowstore.ListOptions{})
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindTransport, e.Kind)
	assert.Equal(t, 0, e.Status)
	assert.Equal(t, "No response from server", e.Message)
}

func TestExecuteQueryAndAppend(t *testing.T) {
	c, calls := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/execute-query" {
			_, _ = w.Write([]byte(`[{"n":3}]`))
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	rows, err := c.ExecuteQuery(context.Background(), "select count(*) as n from users where userType = ?", []any{"creator"})
	require.NoError(t, err)
	assert.Equal(t, float64(3), rows[0]["n"])
	assert.Equal(t, []any{"creator"}, (*calls)[0].body["params"])

	err = c.AppendValues(context.Background(), "sheet-1", "tbl-1", "A:H", []any{"usr-1", "a@b.c"})
	require.NoError(t, err)
	assert.Equal(t, "/spreadsheets/sheet-1/tables/tbl-1/values/A:H:append", (*calls)[1].path)
	assert.Equal(t, []any{[]any{"usr-1", "a@b.c"}}, (*calls)[1].body["values"])
}

func TestDeleteNotFound(t *testing.T) {
	c, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	err := c.Delete(context.Background(), "campaigns", "nope")
	assert.True(t, apperr.IsNotFound(err))
}

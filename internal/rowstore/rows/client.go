// Package rows implements rowstore.Store on top of the Rows spreadsheet REST API.
package rows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/earngage/backend/internal/apperr"
	"github.com/earngage/backend/internal/rowstore"
	"github.com/earngage/backend/internal/session"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://api.rows.com/v1"

var _ rowstore.Store = (*Client)(nil)

type Options struct {
	BaseURL string
	APIKey  string
	// Token is used when the request context carries no session token.
	Token   string
	Timeout time.Duration
	// RateLimit is requests per second; <= 0 disables local throttling.
	RateLimit float64
}

// Client talks to the Rows API. It never retries: failures surface to the caller.
type Client struct {
	baseURL    string
	apiKey     string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

func NewClient(opts Options, log *zap.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
		token:   opts.Token,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		log: log,
	}
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

func tablePath(table string) string {
	return "/tables/" + url.PathEscape(table) + "/rows"
}

func rowPath(table, id string) string {
	return tablePath(table) + "/" + url.PathEscape(id)
}

func (c *Client) GetAll(ctx context.Context, table string, opts rowstore.ListOptions) ([]rowstore.Row, error) {
	offset, limit := rowstore.Pagination(opts.Page, opts.PageSize)
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	for k, v := range opts.Filters {
		if v == nil {
			continue
		}
		q.Set(k, queryValue(v))
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, tablePath(table), q, nil, &raw); err != nil {
		return nil, err
	}
	return decodeRows(raw)
}

func (c *Client) GetByID(ctx context.Context, table, id string) (rowstore.Row, error) {
	var row rowstore.Row
	if err := c.do(ctx, http.MethodGet, rowPath(table, id), nil, nil, &row); err != nil {
		return nil, notFoundOn404(err, table, id)
	}
	if row == nil {
		return nil, apperr.NotFound("%s row %s not found", table, id)
	}
	return rowstore.RowFromWire(row), nil
}

func (c *Client) Create(ctx context.Context, table string, data rowstore.Row) (rowstore.Row, error) {
	var row rowstore.Row
	if err := c.do(ctx, http.MethodPost, tablePath(table), nil, rowstore.RowToWire(data), &row); err != nil {
		return nil, err
	}
	return rowstore.RowFromWire(row), nil
}

func (c *Client) Update(ctx context.Context, table, id string, data rowstore.Row) (rowstore.Row, error) {
	var row rowstore.Row
	if err := c.do(ctx, http.MethodPatch, rowPath(table, id), nil, rowstore.RowToWire(data), &row); err != nil {
		return nil, notFoundOn404(err, table, id)
	}
	return rowstore.RowFromWire(row), nil
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	if err := c.do(ctx, http.MethodDelete, rowPath(table, id), nil, nil, nil); err != nil {
		return notFoundOn404(err, table, id)
	}
	return nil
}

// Query sends filters as a JSON "filter" parameter. A zero PageSize walks every page.
func (c *Client) Query(ctx context.Context, table string, f rowstore.Filter, opts rowstore.QueryOptions) ([]rowstore.Row, error) {
	if opts.PageSize > 0 {
		return c.queryPage(ctx, table, f, opts)
	}

	var all []rowstore.Row
	page := rowstore.QueryOptions{
		Page:           1,
		PageSize:       maxPageSize,
		OrderBy:        opts.OrderBy,
		OrderDirection: opts.OrderDirection,
	}
	for {
		rows, err := c.queryPage(ctx, table, f, page)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) < page.PageSize {
			break
		}
		page.Page++
	}
	if all == nil {
		all = []rowstore.Row{}
	}
	return all, nil
}

const maxPageSize = 500

func (c *Client) queryPage(ctx context.Context, table string, f rowstore.Filter, opts rowstore.QueryOptions) ([]rowstore.Row, error) {
	offset, limit := rowstore.Pagination(opts.Page, opts.PageSize)
	q := url.Values{}
	q.Set("offset", strconv.Itoa(offset))
	q.Set("limit", strconv.Itoa(limit))
	if err := setFilter(q, f); err != nil {
		return nil, err
	}
	if opts.OrderBy != "" {
		q.Set("order_by", opts.OrderBy)
		if opts.OrderDirection != "" {
			q.Set("order_direction", opts.OrderDirection)
		}
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, tablePath(table), q, nil, &raw); err != nil {
		return nil, err
	}
	return decodeRows(raw)
}

func (c *Client) Count(ctx context.Context, table string, f rowstore.Filter) (int, error) {
	q := url.Values{}
	q.Set("count_only", "true")
	if err := setFilter(q, f); err != nil {
		return 0, err
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := c.do(ctx, http.MethodGet, tablePath(table), q, nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// ExecuteQuery runs a server-side query and returns its result rows.
func (c *Client) ExecuteQuery(ctx context.Context, query string, params []any) ([]rowstore.Row, error) {
	body := map[string]any{"query": query, "params": rowstore.ToWire(params)}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/execute-query", nil, body, &raw); err != nil {
		return nil, err
	}
	return decodeRows(raw)
}

// AppendValues appends one row of cell values to a spreadsheet table range (e.g. "A:H").
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, tableID, cellRange string, values []any) error {
	path := fmt.Sprintf("/spreadsheets/%s/tables/%s/values/%s:append",
		url.PathEscape(spreadsheetID), url.PathEscape(tableID), url.PathEscape(cellRange))
	body := map[string]any{"values": []any{rowstore.ToWire(values)}}
	return c.do(ctx, http.MethodPost, path, nil, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperr.Transport(0, "rate limiter: "+err.Error(), nil, err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return apperr.Transport(0, "Request error", nil, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	token := session.TokenFromContext(ctx)
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("rows request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return apperr.Transport(0, "No response from server", nil, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Transport(resp.StatusCode, "read response: "+err.Error(), nil, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperr.Transport(resp.StatusCode, "invalid response body", string(respBody), err)
	}
	return nil
}

// responseError builds the {message, status, details} transport error for a non-2xx reply.
func responseError(status int, body []byte) error {
	var details any
	if err := json.Unmarshal(body, &details); err != nil {
		if len(body) > 0 {
			details = string(body)
		}
	}
	msg := "Server error"
	if m, ok := details.(map[string]any); ok {
		if s, ok := m["message"].(string); ok && s != "" {
			msg = s
		} else if s, ok := m["error"].(string); ok && s != "" {
			msg = s
		}
	}
	return apperr.Transport(status, msg, details, fmt.Errorf("rows api returned %d", status))
}

func notFoundOn404(err error, table, id string) error {
	var e *apperr.Error
	if errors.As(err, &e) && e.Kind == apperr.KindTransport && e.Status == http.StatusNotFound {
		return apperr.NotFound("%s row %s not found", table, id)
	}
	return err
}

func setFilter(q url.Values, f rowstore.Filter) error {
	if len(f) == 0 {
		return nil
	}
	data, err := json.Marshal(f.Wire())
	if err != nil {
		return fmt.Errorf("encode filter: %w", err)
	}
	q.Set("filter", string(data))
	return nil
}

// queryValue renders a filter value as a single query parameter: lists join with commas.
func queryValue(v any) string {
	switch x := rowstore.ToWire(v).(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, ",")
	case []any:
		parts := make([]string, len(x))
		for i, p := range x {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	case map[string]any, rowstore.Row:
		data, _ := json.Marshal(x)
		return string(data)
	default:
		return fmt.Sprint(x)
	}
}

// decodeRows accepts a bare array or an object wrapping it under "data" or "rows".
func decodeRows(raw json.RawMessage) ([]rowstore.Row, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []rowstore.Row{}, nil
	}

	var rows []rowstore.Row
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, apperr.Transport(http.StatusOK, "invalid response body", string(raw), err)
		}
	} else {
		var wrapped struct {
			Data []rowstore.Row `json:"data"`
			Rows []rowstore.Row `json:"rows"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, apperr.Transport(http.StatusOK, "invalid response body", string(raw), err)
		}
		rows = wrapped.Data
		if rows == nil {
			rows = wrapped.Rows
		}
	}

	out := make([]rowstore.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, rowstore.RowFromWire(r))
	}
	return out, nil
}

// Package supabase is a thin client for the hosted backend: PostgREST for
// table access, GoTrue for authentication and RPC for the admin predicate.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Client talks to a Supabase project.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	logger     zerolog.Logger
	retry      RetryConfig

	auth *AuthClient
}

// Config holds client configuration.
type Config struct {
	// URL is the project base URL, e.g. https://xyz.supabase.co.
	URL string
	// AnonKey is the project's public API key.
	AnonKey string
	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client
	// Retry overrides DefaultRetryConfig.
	Retry *RetryConfig
	// Keystore persists the session across runs. Optional.
	Keystore TokenStore
	// Logger defaults to a disabled logger.
	Logger *zerolog.Logger
}

// New creates a Supabase client.
func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("supabase: URL is required")
	}
	if cfg.AnonKey == "" {
		return nil, fmt.Errorf("supabase: AnonKey is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	retry := DefaultRetryConfig()
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		anonKey:    cfg.AnonKey,
		httpClient: httpClient,
		logger:     logger,
		retry:      retry,
	}
	c.auth = newAuthClient(c, cfg.Keystore)
	return c, nil
}

// Auth returns the authentication client. It also acts as the session
// provider the stores subscribe to.
func (c *Client) Auth() *AuthClient {
	return c.auth
}

// From starts a query against a table.
func (c *Client) From(table string) *Query {
	return &Query{client: c, table: table}
}

// Query accumulates PostgREST query parameters for a single table call.
type Query struct {
	client  *Client
	table   string
	columns string
	filters url.Values
	orders  []string
	limit   int
	single  bool
}

// Select restricts the returned columns. PostgREST also uses this syntax to
// embed related rows, e.g. "*,product:products(*)".
func (q *Query) Select(columns string) *Query {
	q.columns = columns
	return q
}

// Eq filters on column equality.
func (q *Query) Eq(column string, value any) *Query {
	if q.filters == nil {
		q.filters = url.Values{}
	}
	q.filters.Add(column, fmt.Sprintf("eq.%v", value))
	return q
}

// Order appends an order clause.
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

// Limit caps the number of returned rows.
func (q *Query) Limit(n int) *Query {
	q.limit = n
	return q
}

// Single requests exactly one row; the call fails if zero or several match.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) url(withColumns bool) string {
	u := q.client.baseURL + "/rest/v1/" + q.table
	params := url.Values{}
	if withColumns && q.columns != "" {
		params.Set("select", q.columns)
	}
	for column, values := range q.filters {
		for _, v := range values {
			params.Add(column, v)
		}
	}
	if len(q.orders) > 0 {
		params.Set("order", strings.Join(q.orders, ","))
	}
	if q.limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", q.limit))
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// Get executes a select and decodes the rows into dest. Reads are
// idempotent, so they go through the retry helper.
func (q *Query) Get(ctx context.Context, dest any) error {
	return withRetry(ctx, q.client.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.url(true), nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		if q.single {
			req.Header.Set("Accept", "application/vnd.pgrst.object+json")
		}
		return q.client.do(req, dest)
	})
}

// Insert executes an insert-returning-row and decodes the representation
// into dest.
func (q *Query) Insert(ctx context.Context, record, dest any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.url(true), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	return q.client.do(req, dest)
}

// Update executes an update-returning-row against the filtered rows.
func (q *Query) Update(ctx context.Context, record, dest any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, q.url(true), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	return q.client.do(req, dest)
}

// Delete removes the filtered rows.
func (q *Query) Delete(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, q.url(false), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return q.client.do(req, nil)
}

// RPC calls a stored procedure and decodes the result into dest.
func (c *Client) RPC(ctx context.Context, fn string, params, dest any) error {
	var body io.Reader
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("marshal params: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/rpc/"+fn, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, dest)
}

// do sends the request with auth headers and decodes the JSON response into
// dest when dest is non-nil.
func (c *Client) do(req *http.Request, dest any) error {
	req.Header.Set("apikey", c.anonKey)
	if req.Header.Get("Authorization") == "" {
		token := c.anonKey
		if s := c.auth.Session(); s != nil {
			token = s.AccessToken
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := parseAPIError(resp.StatusCode, data)
		c.logger.Error().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Msg("backend request failed")
		return apiErr
	}

	if dest == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

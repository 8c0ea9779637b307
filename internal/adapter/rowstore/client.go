package rowstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrRowNotFound indicates the row store has no row with the given id.
var ErrRowNotFound = errors.New("row not found")

// TooManyRequestsError represents a rate limiting signal from the row store.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes paginated CRUD operations over named row-store tables.
type Client interface {
	ListRows(ctx context.Context, table string, queries []Query) (*RowList, error)
	GetRow(ctx context.Context, table, id string) (json.RawMessage, error)
	CreateRow(ctx context.Context, table, id string, data any) (json.RawMessage, error)
	UpdateRow(ctx context.Context, table, id string, data any) (json.RawMessage, error)
	DeleteRow(ctx context.Context, table, id string) error
}

// RowList is one page of rows plus the store's total match count.
type RowList struct {
	Total int               `json:"total"`
	Rows  []json.RawMessage `json:"rows"`
}

// sessionCache holds the short-lived service JWT issued by the row store.
// A mutex guards the cached pair and a singleflight group collapses
// concurrent refreshes into one network call.
type sessionCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	group     singleflight.Group
}

// HTTPClient implements Client against the row store's REST API.
type HTTPClient struct {
	baseURL    *url.URL
	project    string
	key        string
	database   string
	httpClient *http.Client
	logger     *slog.Logger
	session    sessionCache
}

// refresh slightly ahead of expiry so in-flight requests never carry a
// token that lapses mid-call.
const tokenSlack = 30 * time.Second

// NewHTTPClient creates a row-store client with default timeout.
func NewHTTPClient(baseURL, project, key, database string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse row store url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("row store url must be absolute")
	}
	if project == "" || key == "" {
		return nil, fmt.Errorf("row store project and key must be provided")
	}
	return &HTTPClient{
		baseURL:  parsed,
		project:  project,
		key:      key,
		database: database,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// ListRows fetches one page of rows matching the query expressions.
func (c *HTTPClient) ListRows(ctx context.Context, table string, queries []Query) (*RowList, error) {
	endpoint := c.tableURL(table, "")
	if len(queries) > 0 {
		params := url.Values{}
		for _, q := range queries {
			params.Add("queries[]", string(q))
		}
		endpoint.RawQuery = params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var list RowList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode row list: %w", err)
	}
	return &list, nil
}

// GetRow fetches a single row by id.
func (c *HTTPClient) GetRow(ctx context.Context, table, id string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, c.tableURL(table, id), nil)
}

// CreateRow inserts a row. An empty id asks the store to generate one.
func (c *HTTPClient) CreateRow(ctx context.Context, table, id string, data any) (json.RawMessage, error) {
	if id == "" {
		id = "unique()"
	}
	payload := map[string]any{"rowId": id, "data": data}
	return c.do(ctx, http.MethodPost, c.tableURL(table, ""), payload)
}

// UpdateRow patches the given fields of an existing row.
func (c *HTTPClient) UpdateRow(ctx context.Context, table, id string, data any) (json.RawMessage, error) {
	payload := map[string]any{"data": data}
	return c.do(ctx, http.MethodPatch, c.tableURL(table, id), payload)
}

// DeleteRow removes a row by id.
func (c *HTTPClient) DeleteRow(ctx context.Context, table, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.tableURL(table, id), nil)
	return err
}

func (c *HTTPClient) tableURL(table, id string) *url.URL {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/databases/", c.database, "/tables/", table, "/rows")
	if id != "" {
		endpoint.Path = path.Join(endpoint.Path, id)
	}
	return &endpoint
}

func (c *HTTPClient) do(ctx context.Context, method string, endpoint *url.URL, payload any) (json.RawMessage, error) {
	token, err := c.sessionToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("row store session: %w", err)
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Project", c.project)
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrRowNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		c.logger.Error("row store request failed",
			slog.String("method", method),
			slog.String("path", endpoint.Path),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(body)),
		)
		return nil, fmt.Errorf("row store error: %s", resp.Status)
	}
}

// sessionToken returns the cached service JWT, refreshing it when absent
// or close to expiry. Concurrent callers share a single refresh.
func (c *HTTPClient) sessionToken(ctx context.Context) (string, error) {
	c.session.mu.Lock()
	if c.session.token != "" && time.Until(c.session.expiresAt) > tokenSlack {
		token := c.session.token
		c.session.mu.Unlock()
		return token, nil
	}
	c.session.mu.Unlock()

	v, err, _ := c.session.group.Do("jwt", func() (any, error) {
		token, expiresAt, err := c.issueToken(ctx)
		if err != nil {
			return nil, err
		}
		c.session.mu.Lock()
		c.session.token = token
		c.session.expiresAt = expiresAt
		c.session.mu.Unlock()
		return token, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *HTTPClient) issueToken(ctx context.Context) (string, time.Time, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/v1/auth/jwt")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), nil)
	if err != nil {
		return "", time.Time{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Project", c.project)
	req.Header.Set("X-Key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, err
	}
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		c.logger.Error("row store token request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return "", time.Time{}, fmt.Errorf("row store token error: %s", resp.Status)
	}

	var data struct {
		JWT       string `json:"jwt"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	if err := json.Unmarshal(body, &data); err != nil {
		return "", time.Time{}, fmt.Errorf("decode token response: %w", err)
	}
	if data.JWT == "" {
		return "", time.Time{}, fmt.Errorf("row store returned empty token")
	}
	ttl := time.Duration(data.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return data.JWT, time.Now().Add(ttl), nil
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// Package api provides a typed client for the ConstructIQ REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
)

const apiPrefix = "/api"

// TokenStore supplies the persisted bearer token and forgets it when the
// backend rejects it.
type TokenStore interface {
	Token() string
	Clear()
}

// Observer receives one call per completed API request. Status is 0 when
// the request failed before a response arrived.
type Observer interface {
	ObserveRequest(method, endpoint string, status int, elapsed time.Duration)
}

// Client talks to the ConstructIQ backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenStore sets the store the bearer token is read from.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithObserver sets the request observer, typically a metrics collector.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a new API client for the backend at baseURL
// (for example http://localhost:8001). No request timeout is applied.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewCookieJar returns a cookie jar scoped by public suffix, so credentials
// cookies set by the backend are sent back on later requests.
func NewCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return jar, nil
}

// WithTokens returns a shallow copy of c bound to the given token store.
// The web client calls this once per request with the session's store.
func (c *Client) WithTokens(ts TokenStore) *Client {
	cp := *c
	cp.tokens = ts
	return &cp
}

// BaseURL returns the backend base URL without the /api prefix.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestIDKey struct{}

// ContextWithRequestID attaches a request id that is forwarded to the
// backend as X-Request-ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// ListParams selects one page of a collection.
type ListParams struct {
	Page     int
	PageSize int
	Filters  map[string]string
}

// Values encodes the params as query string values. Empty filters are omitted.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(p.PageSize))
	}
	for key, val := range p.Filters {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// do performs a JSON request against /api+path and decodes the response into out.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", requestID(ctx))
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, start)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, start)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusUnauthorized && c.tokens != nil {
			c.tokens.Clear()
		}
		return newError(resp.StatusCode, apiPrefix+path, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) observe(method, path string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(method, EndpointLabel(path), status, time.Since(start))
}

// EndpointLabel collapses id segments of an API path so that metrics labels
// stay bounded: /quotes/<uuid>/map-item/<uuid> becomes /quotes/{id}/map-item/{id}.
func EndpointLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if _, err := uuid.Parse(seg); err == nil {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

// IsValidID reports whether id looks like a backend-issued identifier.
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func escape(id string) string {
	return url.PathEscape(id)
}

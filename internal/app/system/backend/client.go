// Package backend is the HTTP transport to the settings backend API.
//
// All calls return the backend's answer as a Response regardless of status;
// only transport failures (no HTTP response at all) are returned as errors.
// Callers decide what a non-2xx status means for them.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNotJSON is returned by Response.DecodeJSON when the body is not valid JSON.
var ErrNotJSON = errors.New("backend: response body is not JSON")

// Client provides REST access to the settings backend.
type Client struct {
	base    string
	http    *resty.Client
	metrics *Metrics
	log     *zap.Logger
}

type clientConfig struct {
	token      string
	timeout    time.Duration
	httpClient *http.Client
	metrics    *Metrics
}

// Option configures a Client.
type Option func(*clientConfig)

// WithToken sets a static bearer token sent on every request.
func WithToken(tok string) Option {
	return func(c *clientConfig) {
		c.token = tok
	}
}

// WithTimeout sets the per-request transport timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client, e.g. one returned by
// an oauth2 token source.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithMetrics records every call in m.
func WithMetrics(m *Metrics) Option {
	return func(c *clientConfig) {
		c.metrics = m
	}
}

// New returns a Client for the given base URL (e.g. http://localhost:8000/api).
func New(base string, logger *zap.Logger, opts ...Option) *Client {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	var rc *resty.Client
	if cfg.httpClient != nil {
		rc = resty.NewWithClient(cfg.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetHeader("Accept", "application/json")
	if cfg.token != "" {
		rc.SetAuthToken(cfg.token)
	}
	if cfg.timeout > 0 {
		rc.SetTimeout(cfg.timeout)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		base:    strings.TrimRight(base, "/"),
		http:    rc,
		metrics: cfg.metrics,
		log:     logger,
	}
}

// BaseURL returns the normalized base URL (no trailing slash).
func (c *Client) BaseURL() string { return c.base }

// URL joins path onto the base URL.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Get issues GET {base}{path}.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// PutJSON issues PUT {base}{path} with body encoded as JSON.
func (c *Client) PutJSON(ctx context.Context, path string, body any) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Close releases idle connections held by the transport.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Response, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, c.URL(path))
	elapsed := time.Since(start)

	if err != nil {
		c.metrics.observe(method, path, "error", elapsed)
		c.log.Debug("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.Body(),
	}
	c.metrics.observe(method, path, statusClass(out.StatusCode), elapsed)
	c.log.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", out.StatusCode),
		zap.Duration("elapsed", elapsed))
	return out, nil
}

// Response is a completed backend call.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode <= 299
}

// StatusText returns the reason phrase, falling back to the standard text
// for the code when the backend sent none.
func (r *Response) StatusText() string {
	if _, reason, ok := strings.Cut(r.Status, " "); ok && reason != "" {
		return reason
	}
	return http.StatusText(r.StatusCode)
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w (status %d): %v", ErrNotJSON, r.StatusCode, err)
	}
	return nil
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

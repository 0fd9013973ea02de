// Package client talks to the medical chat backend over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/medchat/internal/model/chat"
)

const (
	// LocalAPIBase is used when the client runs against a localhost origin.
	LocalAPIBase = "http://localhost:8000"
	// ProxyAPIBase is used for every other origin; the backend is expected
	// behind the same origin under this prefix.
	ProxyAPIBase = "/api"
)

// ErrInvalidBase is returned when an API base cannot be turned into an
// absolute URL.
var ErrInvalidBase = errors.New("invalid api base")

// StatusError reports a non-2xx response. The body is never parsed.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: %d from %s", e.StatusCode, e.Endpoint)
}

// APIBaseForHost picks the API base from the hostname the client was loaded
// from: the fixed local backend for "localhost", the relative proxy prefix
// for anything else. Hostnames compare case-insensitively.
func APIBaseForHost(hostname string) string {
	if strings.EqualFold(hostname, "localhost") {
		return LocalAPIBase
	}
	return ProxyAPIBase
}

// ResolveAPIBase applies APIBaseForHost to origin and resolves the result
// against it, so the relative prefix becomes <origin>/api.
func ResolveAPIBase(origin string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", fmt.Errorf("%w: origin %q: %v", ErrInvalidBase, origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: origin %q must be absolute", ErrInvalidBase, origin)
	}

	ref, err := url.Parse(APIBaseForHost(u.Hostname()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBase, err)
	}
	return strings.TrimRight(u.ResolveReference(ref).String(), "/"), nil
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout bounds every request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client is a thin JSON client for the chat backend.
type Client struct {
	base       string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a client for an absolute API base such as
// "http://localhost:8000" or "https://example.org/api".
func New(apiBase string, opts ...Option) (*Client, error) {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	u, err := url.Parse(apiBase)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBase, apiBase)
	}

	c := &Client{
		base:       apiBase,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API base the client was built with.
func (c *Client) BaseURL() string {
	return c.base
}

// Chat posts one query together with the prior history.
func (c *Client) Chat(ctx context.Context, req chat.Request) (*chat.Response, error) {
	if req.ConversationHistory == nil {
		req.ConversationHistory = []chat.Turn{}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	var out chat.Response
	if err := c.do(ctx, http.MethodPost, "/chat", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health succeeds when GET /health answers with a 2xx status.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	endpoint := c.base + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api call",
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

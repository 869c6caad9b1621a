// Package chronos is the client for the Chronos time-registration REST API.
package chronos

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
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds a single request to the backend.
const DefaultTimeout = 30 * time.Second

// ErrNotLoggedIn is returned when no token is available.
var ErrNotLoggedIn = errors.New("not logged in (run `chronos login`)")

// Config locates the backend and identifies this client to it.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("chronos API %s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// Unauthorized reports whether the backend rejected the credentials.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// Client is an authenticated Chronos API client.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*clientOptions)

type clientOptions struct {
	tokenPath string
	log       *slog.Logger
}

// WithTokenFile persists refreshed tokens to path.
func WithTokenFile(path string) Option { return func(o *clientOptions) { o.tokenPath = path } }

func WithLogger(l *slog.Logger) Option { return func(o *clientOptions) { o.log = l } }

// NewClient creates a client that authenticates with tok and refreshes it
// through the backend's token endpoint when it expires.
func NewClient(ctx context.Context, cfg Config, tok *oauth2.Token, opts ...Option) (*Client, error) {
	if tok == nil || tok.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	base, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	o := clientOptions{log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.timeout()})
	ts := oauthConfig(cfg, base).TokenSource(ctx, tok)
	hc := oauth2.NewClient(ctx, &savingTokenSource{ts: ts, path: o.tokenPath, last: tok.AccessToken, log: o.log})
	hc.Timeout = cfg.timeout()

	return &Client{base: base, httpClient: hc, log: o.log}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New("chronos API base URL is not configured")
	}
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid chronos API base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid chronos API base URL %q: scheme must be http or https", raw)
	}
	return u, nil
}

// savingTokenSource wraps a TokenSource and persists refreshed tokens.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	path string
	log  *slog.Logger

	mu   sync.Mutex
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken == s.last || s.path == "" {
		return tok, nil
	}
	s.last = tok.AccessToken
	// Best-effort save; the refreshed token is still used.
	if err := SaveToken(s.path, tok); err != nil {
		s.log.Warn("could not save refreshed token", "error", err)
	}
	return tok, nil
}

// do sends a JSON request to path and decodes a JSON answer into out when
// out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	began := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("chronos API %s %s: %w", method, path, err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	c.log.Debug("chronos request", "method", method, "path", path, "status", resp.StatusCode,
		"request_id", requestID, "took", time.Since(began))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Method: method, Path: path, Body: string(data)}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

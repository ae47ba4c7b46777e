// Package claimsapi is the client of the external FRA claims REST API.
//
// All response bodies are decoded into the types of package claims at this boundary. Anything that does not match
// the expected shape is reported as ErrDecode.
package claimsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/errors"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Session carries the credentials of a signed-in user to every request.
type Session struct {
	Token string
	User  claims.User
}

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, e.g. http://localhost:8000/api.
	BaseURL string
	// Timeout bounds every request.
	Timeout time.Duration
	// RequestsPerSecond limits outbound requests. Zero disables limiting.
	RequestsPerSecond float64
	// Burst is the limiter bucket size.
	Burst int
	// SummaryTTL is how long report summaries are cached. Zero disables caching.
	SummaryTTL time.Duration
}

// Client talks to the claims API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	summaries  *gocache.Cache
	summaryTTL time.Duration
	logger     *slog.Logger
}

// NewClient creates a claims API client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 5
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	cleanupInterval := 2 * cfg.SummaryTTL
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    limiter,
		summaries:  gocache.New(cfg.SummaryTTL, cleanupInterval),
		summaryTTL: cfg.SummaryTTL,
		logger:     logger.With(slog.String("source", "claimsapi")),
	}
}

// do sends a request and returns the response for the caller to close.
//
// body is JSON encoded when not nil. The bearer token is attached when sess is not nil.
func (c *Client) do(ctx context.Context, method, path string, sess *Session, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "JSON encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	if err = c.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(mark(ErrTransport, err), "wait for rate limiter")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(mark(ErrTransport, err), "do request", slog.String("path", path))
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "claims API call",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))
	return resp, nil
}

// closeBody drains and closes the response body so that the connection can be reused.
func (c *Client) closeBody(ctx context.Context, resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	if err := resp.Body.Close(); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "could not close response body",
			errors.SlogError(errors.Wrap(err, "close body")))
	}
}

// decodeJSON reads at most maxBodyBytes of the body into v.
func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(v); err != nil {
		return mark(ErrDecode, err)
	}
	return nil
}

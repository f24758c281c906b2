package transport

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

	"mei-storefront/internal/apperr"
	"mei-storefront/internal/auth"
	"mei-storefront/internal/config"
	"mei-storefront/internal/logger"
	"mei-storefront/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Doer is what repositories depend on.
type Doer interface {
	Do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	stats      *metrics.Requests
}

type Option func(*Client)

// WithHTTPClient replaces the underlying client, decorators included.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, opts ...Option) *Client {
	var rt http.RoundTripper = http.DefaultTransport
	if limiter != nil {
		rt = LimitTransport(limiter, rt)
	}
	rt = logger.RequestIDTransport(logger.LoggingTransport(rt))

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: rt,
		},
		stats: &metrics.Requests{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig builds the client the binaries use.
func NewFromConfig(cfg *config.Config) *Client {
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.RequestBurst)
	return NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, limiter)
}

func (c *Client) Stats() metrics.Snapshot {
	return c.stats.Snapshot()
}

// Do sends one JSON request and decodes a 2xx body into out (when non-nil).
// Every failure is returned as an *apperr.Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, token string, out any) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "transport"),
		zap.String("method", method),
		zap.String("path", path),
	)
	timer := metrics.StartTimer()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			log.Error("failed to marshal request body", zap.Error(err))
			return apperr.Validation("request body could not be encoded", nil)
		}
		reader = bytes.NewReader(b)
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		log.Error("failed creating request", zap.Error(err))
		return apperr.Network(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h := auth.BearerHeader(token); h != "" {
		req.Header.Set("Authorization", h)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.Observe(timer, true, false)
		return apperr.Network(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.stats.Observe(timer, true, false)
		return apperr.Network(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.stats.Observe(timer, true, true)
		log.Error("server returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", truncate(raw, 512)),
		)
		return apperr.FromStatus(resp.StatusCode, serverMessage(raw))
	}
	c.stats.Observe(timer, false, false)

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Error("failed decoding response", zap.Error(err))
		e := apperr.Server(resp.StatusCode, "unexpected response from server")
		e.Cause = err
		return e
	}
	return nil
}

// serverMessage pulls a human readable detail out of an error body.
func serverMessage(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return ""
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
		Title   string `json:"title"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		var s string
		if json.Unmarshal(trimmed, &s) == nil && s != "" {
			return s
		}
		if trimmed[0] != '{' && trimmed[0] != '[' && trimmed[0] != '<' {
			return string(truncate(trimmed, 200))
		}
		return ""
	}
	switch {
	case body.Message != "":
		return body.Message
	case body.Error != "":
		return body.Error
	default:
		return body.Title
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

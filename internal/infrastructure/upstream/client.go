// Package upstream is the HTTP client for the board REST API. All responses
// share the {code, message, data} envelope; code == 200 signals application
// success independently of the HTTP status.
package upstream

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

	"github.com/boardhub/board-gateway/internal/api/metrics"
	"github.com/boardhub/board-gateway/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings for the upstream connection.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the board API. One Client is shared by all sessions; the
// bearer token is supplied per call, never stored here.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New builds a Client. A default timeout is applied when none is provided.
func New(cfg Config, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// envelope is the board API's response wrapper.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// call performs one request and decodes the envelope. Context cancellation
// aborts the request; a screen that navigated away never applies the result.
func (c *Client) call(ctx context.Context, token, method, path string, query url.Values, body []byte) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("decode").Inc()
		return nil, fmt.Errorf("%w: decode %s %s: %v", domain.ErrUpstream, method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || env.Code == http.StatusUnauthorized {
		return nil, domain.ErrUnauthenticated
	}
	if env.Code != http.StatusOK {
		c.logger.Debug().Int("code", env.Code).Str("path", path).Str("message", env.Message).Msg("upstream application error")
		return nil, fmt.Errorf("%w: code %d: %s", domain.ErrUpstream, env.Code, env.Message)
	}
	return &env, nil
}

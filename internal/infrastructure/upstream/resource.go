package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/boardhub/board-gateway/internal/api/metrics"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// Do forwards one screen CRUD call to the upstream and returns the answer
// unchanged. No envelope interpretation happens here: the screens own their
// payloads, the gateway only injects the bearer token. The 401 case is the
// only one inspected, because it means the token expired mid-session and the
// guard must collapse the session to unauthenticated.
func (c *Client) Do(ctx context.Context, token string, preq ports.ProxyRequest) (*ports.ProxyResponse, error) {
	u := c.baseURL + preq.Path
	if preq.Query != "" {
		u += "?" + preq.Query
	}

	var reader io.Reader
	if len(preq.Body) > 0 {
		reader = bytes.NewReader(preq.Body)
	}
	req, err := http.NewRequestWithContext(ctx, preq.Method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("transport").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues("read").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, domain.ErrUnauthenticated
	}

	header := http.Header{}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		header.Set("Content-Type", ct)
	}
	return &ports.ProxyResponse{
		Status: resp.StatusCode,
		Header: header,
		Body:   body,
	}, nil
}

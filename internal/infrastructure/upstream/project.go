package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// ListProjects returns the selection list for one tab. The caller supplies
// the tab already mapped from the effective role.
func (c *Client) ListProjects(ctx context.Context, token, tab string) ([]domain.Project, error) {
	query := url.Values{"tab": []string{tab}}
	env, err := c.call(ctx, token, http.MethodGet, "/project", query, nil)
	if err != nil {
		return nil, err
	}

	var projects []domain.Project
	if err := json.Unmarshal(env.Data, &projects); err != nil {
		return nil, fmt.Errorf("%w: project list decode: %v", domain.ErrUpstream, err)
	}
	return projects, nil
}

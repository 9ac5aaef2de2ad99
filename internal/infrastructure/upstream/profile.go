package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// profilePayload mirrors the upstream profile document. Roles arrive as
// objects carrying a code; the gateway flattens them to the closed role set.
type profilePayload struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	UserName     string `json:"userName"`
	DepartmentID int64  `json:"departmentId"`
	Roles        []struct {
		Code string `json:"code"`
	} `json:"roles"`
}

// FetchProfile resolves the identity behind a bearer token. One network call,
// no retries.
func (c *Client) FetchProfile(ctx context.Context, token string) (*domain.Identity, error) {
	env, err := c.call(ctx, token, http.MethodGet, "/user/profile", nil, nil)
	if err != nil {
		return nil, err
	}

	var p profilePayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return nil, fmt.Errorf("%w: profile decode: %v", domain.ErrUpstream, err)
	}

	roles := make([]domain.Role, 0, len(p.Roles))
	for _, r := range p.Roles {
		roles = append(roles, domain.Role(r.Code))
	}

	return &domain.Identity{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		UserName:     p.UserName,
		Roles:        roles,
		DepartmentID: p.DepartmentID,
	}, nil
}

// credentialsPayload is the upstream login response.
type credentialsPayload struct {
	Token string `json:"token"`
}

// ExchangeCredentials trades username/password for a bearer token.
func (c *Client) ExchangeCredentials(ctx context.Context, username, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"userName": username, "password": password})
	if err != nil {
		return "", err
	}

	env, err := c.call(ctx, "", http.MethodPost, "/auth/login", nil, body)
	if err != nil {
		return "", err
	}

	var p credentialsPayload
	if err := json.Unmarshal(env.Data, &p); err != nil {
		return "", fmt.Errorf("%w: login decode: %v", domain.ErrUpstream, err)
	}
	if p.Token == "" {
		return "", domain.ErrUnauthenticated
	}
	return p.Token, nil
}

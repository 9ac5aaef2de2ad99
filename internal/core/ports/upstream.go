package ports

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// ProfileClient resolves an identity from an upstream bearer token. Exactly
// one network call per invocation; callers, not the client, decide whether to
// retry.
type ProfileClient interface {
	FetchProfile(ctx context.Context, token string) (*domain.Identity, error)
}

// CredentialsClient exchanges username/password for a bearer token through
// the upstream login endpoint.
type CredentialsClient interface {
	ExchangeCredentials(ctx context.Context, username, password string) (string, error)
}

// ProjectClient lists projects for the selection screen, already filtered by
// the role-mapped tab.
type ProjectClient interface {
	ListProjects(ctx context.Context, token, tab string) ([]domain.Project, error)
}

// ProxyRequest is one screen CRUD call forwarded verbatim to the upstream.
// Bodies stay opaque: screen payload schemas belong to the upstream API.
type ProxyRequest struct {
	Method string
	Path   string
	Query  string
	Body   json.RawMessage
}

// ProxyResponse carries the upstream answer back to the screen unchanged.
type ProxyResponse struct {
	Status int
	Header http.Header
	Body   json.RawMessage
}

// ResourceClient is the generic list/get/create/update/delete surface every
// excluded screen component talks through.
type ResourceClient interface {
	Do(ctx context.Context, token string, req ProxyRequest) (*ProxyResponse, error)
}

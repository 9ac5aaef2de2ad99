package ports

import (
	"context"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// SessionService is the auth/identity holder. It owns the upstream token and
// the resolved identity; it never decides navigation.
type SessionService interface {
	// Login exchanges token for an authenticated session. One profile fetch,
	// no retries; on failure the token is discarded and ErrUnauthenticated
	// returned.
	Login(ctx context.Context, token string) (*domain.Session, error)

	// LoginWithCredentials proxies the upstream credential exchange and then
	// behaves like Login with the obtained token.
	LoginWithCredentials(ctx context.Context, username, password string) (*domain.Session, error)

	// Resume loads a persisted session and resolves its identity if a token
	// is present but no identity has been fetched yet. A failed fetch
	// degrades silently into an unauthenticated session; no error escapes
	// for the guard to misread.
	Resume(ctx context.Context, sessionID string) (*domain.Session, error)

	// Logout clears token, identity and project scope. Safe in any state.
	Logout(ctx context.Context, sessionID string) error
}

// ScopeService is the project-scope holder: a pure store with explicit
// persist/restore. It never blocks an update; gating lives in the guard.
type ScopeService interface {
	Select(ctx context.Context, session *domain.Session, p domain.Project) error
	Clear(ctx context.Context, session *domain.Session) error
	Restore(ctx context.Context, session *domain.Session) error
	ListForRole(ctx context.Context, session *domain.Session) ([]domain.Project, error)
}

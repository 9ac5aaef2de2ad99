package ports

import (
	"context"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// SessionStore persists session records keyed by session id. Implementations
// apply last-write-wins; there is no cross-session locking.
type SessionStore interface {
	Find(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, s *domain.Session) error
	Delete(ctx context.Context, id string) error
}

// ScopeStore is the persistence adapter behind the project-scope holder: the
// serialization boundary for the "currentProject" snapshot. The in-memory
// value on the session is authoritative; this store only makes it survive
// reloads and gateway restarts.
type ScopeStore interface {
	Load(ctx context.Context, sessionID string) (*domain.Project, error)
	Save(ctx context.Context, sessionID string, p *domain.Project) error
	Clear(ctx context.Context, sessionID string) error
}

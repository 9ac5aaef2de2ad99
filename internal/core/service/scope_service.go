package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// ScopeService is the project-scope holder. It is a pure store with an
// explicit persistence boundary: the session carries the authoritative
// in-memory value, the scope store keeps the snapshot that survives reloads.
// It never blocks an update — gating is the guard's job.
type ScopeService struct {
	sessions ports.SessionStore
	scopes   ports.ScopeStore
	projects ports.ProjectClient
	activity ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewScopeService(
	sessions ports.SessionStore,
	scopes ports.ScopeStore,
	projects ports.ProjectClient,
	activity ports.ActivityRecorder,
	logger zerolog.Logger,
) *ScopeService {
	return &ScopeService{
		sessions: sessions,
		scopes:   scopes,
		projects: projects,
		activity: activity,
		logger:   logger,
	}
}

// Select sets the current project on the session and persists the snapshot.
func (s *ScopeService) Select(ctx context.Context, session *domain.Session, p domain.Project) error {
	session.Project = &p
	if err := s.scopes.Save(ctx, session.ID, &p); err != nil {
		return err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}

	s.logger.Info().Str("session_id", session.ID).Int64("project_id", p.ID).Str("project", p.Name).Msg("project selected")
	s.activity.Record(domain.ActivityEvent{
		SessionID: session.ID,
		UserID:    session.Identity.ID,
		Kind:      domain.ActivityProjectSelected,
		ProjectID: p.ID,
		At:        time.Now().UTC(),
	})
	return nil
}

// Clear drops the scope from both tiers. Idempotent: clearing an already
// empty scope is a no-op that still reports success.
func (s *ScopeService) Clear(ctx context.Context, session *domain.Session) error {
	had := session.Project != nil
	session.Project = nil
	if err := s.scopes.Clear(ctx, session.ID); err != nil {
		return err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}

	if had {
		var userID int64
		if session.Identity != nil {
			userID = session.Identity.ID
		}
		s.activity.Record(domain.ActivityEvent{
			SessionID: session.ID,
			UserID:    userID,
			Kind:      domain.ActivityProjectCleared,
			At:        time.Now().UTC(),
		})
	}
	return nil
}

// Restore populates the session's scope from the persisted snapshot without a
// network call. The snapshot, not a fresh fetch, is ground truth: it may be
// stale relative to the upstream, which is acceptable because project
// identity and status rarely change mid-session.
func (s *ScopeService) Restore(ctx context.Context, session *domain.Session) error {
	if session.Project != nil {
		return nil
	}
	p, err := s.scopes.Load(ctx, session.ID)
	if err != nil {
		return err
	}
	session.Project = p
	return nil
}

// ListForRole fetches the selection list from the upstream, filtered by the
// role-mapped tab. Unknown effective roles cannot list anything.
func (s *ScopeService) ListForRole(ctx context.Context, session *domain.Session) ([]domain.Project, error) {
	tab, ok := domain.ProjectTab(session.Identity.EffectiveRole())
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	return s.projects.ListProjects(ctx, session.Token, tab)
}

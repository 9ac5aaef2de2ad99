package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// SessionService implements login, auto-resume and logout. It owns the
// upstream bearer token and the resolved identity; project scope lives in the
// scope service, which logout delegates to.
type SessionService struct {
	sessions ports.SessionStore
	scopes   ports.ScopeStore
	profiles ports.ProfileClient
	creds    ports.CredentialsClient
	activity ports.ActivityRecorder
	logger   zerolog.Logger
}

func NewSessionService(
	sessions ports.SessionStore,
	scopes ports.ScopeStore,
	profiles ports.ProfileClient,
	creds ports.CredentialsClient,
	activity ports.ActivityRecorder,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		scopes:   scopes,
		profiles: profiles,
		creds:    creds,
		activity: activity,
		logger:   logger,
	}
}

// Login stores the token and performs exactly one profile fetch. Any failure,
// transport or application level, discards the token and leaves no session
// behind.
func (s *SessionService) Login(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	identity, err := s.profiles.FetchProfile(ctx, token)
	if err != nil {
		s.logger.Warn().Err(err).Msg("profile fetch failed, login rejected")
		s.activity.Record(domain.ActivityEvent{
			SessionID: "",
			Kind:      domain.ActivityLoginFailed,
			At:        time.Now().UTC(),
		})
		return nil, domain.ErrUnauthenticated
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:         uuid.NewString(),
		Token:      token,
		Identity:   identity,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info().Str("session_id", session.ID).Str("user", identity.UserName).Msg("session started")
	s.activity.Record(domain.ActivityEvent{
		SessionID: session.ID,
		UserID:    identity.ID,
		Kind:      domain.ActivityLogin,
		At:        now,
	})
	return session, nil
}

// LoginWithCredentials exchanges username/password upstream and logs in with
// the obtained token. Exchange failures collapse to ErrUnauthenticated like
// every other authentication failure.
func (s *SessionService) LoginWithCredentials(ctx context.Context, username, password string) (*domain.Session, error) {
	token, err := s.creds.ExchangeCredentials(ctx, username, password)
	if err != nil {
		s.logger.Warn().Err(err).Str("user", username).Msg("credential exchange failed")
		return nil, domain.ErrUnauthenticated
	}
	return s.Login(ctx, token)
}

// Resume loads the persisted session and resolves the identity when a token
// is present but no profile has been fetched yet. Idempotent: a session whose
// identity is already resolved makes no network call. A failed fetch leaves
// the session unauthenticated without surfacing an error; the guard redirects.
func (s *SessionService) Resume(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.sessions.Find(ctx, sessionID)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}

	if session.Identity == nil && session.Token != "" {
		identity, err := s.profiles.FetchProfile(ctx, session.Token)
		if err != nil {
			s.logger.Debug().Err(err).Str("session_id", sessionID).Msg("auto-resume profile fetch failed")
		} else {
			session.Identity = identity
		}
	}

	session.LastSeenAt = time.Now().UTC()
	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("session touch failed")
	}
	return session, nil
}

// Logout clears the token, the identity and, through the scope store, the
// persisted project. It succeeds regardless of prior state.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	var userID int64
	if session, err := s.sessions.Find(ctx, sessionID); err == nil && session.Identity != nil {
		userID = session.Identity.ID
	}

	if err := s.scopes.Clear(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("scope clear on logout failed")
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Info().Str("session_id", sessionID).Msg("session ended")
	s.activity.Record(domain.ActivityEvent{
		SessionID: sessionID,
		UserID:    userID,
		Kind:      domain.ActivityLogout,
		At:        time.Now().UTC(),
	})
	return nil
}

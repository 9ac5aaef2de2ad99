package service

import (
	"context"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

// In-memory doubles for the ports the two services consume.

type stubSessionStore struct {
	sessions map[string]*domain.Session
	saveErr  error
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	clone := *s
	return &clone
}

func (st *stubSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	s, ok := st.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return cloneSession(s), nil
}

func (st *stubSessionStore) Save(_ context.Context, s *domain.Session) error {
	if st.saveErr != nil {
		return st.saveErr
	}
	st.sessions[s.ID] = cloneSession(s)
	return nil
}

func (st *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(st.sessions, id)
	return nil
}

type stubScopeStore struct {
	scopes   map[string]*domain.Project
	loadErr  error
	saveErr  error
	clearErr error
}

func newStubScopeStore() *stubScopeStore {
	return &stubScopeStore{scopes: make(map[string]*domain.Project)}
}

func (st *stubScopeStore) Load(_ context.Context, sessionID string) (*domain.Project, error) {
	if st.loadErr != nil {
		return nil, st.loadErr
	}
	return st.scopes[sessionID], nil
}

func (st *stubScopeStore) Save(_ context.Context, sessionID string, p *domain.Project) error {
	if st.saveErr != nil {
		return st.saveErr
	}
	st.scopes[sessionID] = p
	return nil
}

func (st *stubScopeStore) Clear(_ context.Context, sessionID string) error {
	if st.clearErr != nil {
		return st.clearErr
	}
	delete(st.scopes, sessionID)
	return nil
}

type stubProfileClient struct {
	identity *domain.Identity
	err      error
	calls    int
}

func (p *stubProfileClient) FetchProfile(_ context.Context, token string) (*domain.Identity, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	clone := *p.identity
	return &clone, nil
}

type stubCredentialsClient struct {
	token string
	err   error
}

func (c *stubCredentialsClient) ExchangeCredentials(_ context.Context, username, password string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return c.token, nil
}

type stubProjectClient struct {
	projects []domain.Project
	err      error
	lastTab  string
	calls    int
}

func (p *stubProjectClient) ListProjects(_ context.Context, token, tab string) ([]domain.Project, error) {
	p.calls++
	p.lastTab = tab
	if p.err != nil {
		return nil, p.err
	}
	return p.projects, nil
}

type stubRecorder struct {
	events []domain.ActivityEvent
}

func (r *stubRecorder) Record(event domain.ActivityEvent) {
	r.events = append(r.events, event)
}

func (r *stubRecorder) kinds() []domain.ActivityKind {
	out := make([]domain.ActivityKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

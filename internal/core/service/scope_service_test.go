package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/boardhub/board-gateway/internal/core/domain"
)

func newScopeService(sessions *stubSessionStore, scopes *stubScopeStore, projects *stubProjectClient, rec *stubRecorder) *ScopeService {
	return NewScopeService(sessions, scopes, projects, rec, zerolog.Nop())
}

func authenticated() *domain.Session {
	return &domain.Session{ID: "s1", Token: "tok", Identity: employee()}
}

func alpha() domain.Project {
	return domain.Project{ID: 42, Name: "Alpha", Status: domain.ProjectNew}
}

func TestSelect_PersistsBothTiers(t *testing.T) {
	sessions := newStubSessionStore()
	scopes := newStubScopeStore()
	rec := &stubRecorder{}
	svc := newScopeService(sessions, scopes, nil, rec)
	session := authenticated()

	if err := svc.Select(context.Background(), session, alpha()); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if session.Project == nil || session.Project.ID != 42 {
		t.Fatalf("in-memory scope not set: %+v", session.Project)
	}
	if p := scopes.scopes["s1"]; p == nil || p.ID != 42 {
		t.Fatalf("scope snapshot not persisted: %+v", p)
	}
	if saved := sessions.sessions["s1"]; saved == nil || saved.Project == nil {
		t.Fatalf("session record not updated")
	}
	if len(rec.events) != 1 || rec.events[0].Kind != domain.ActivityProjectSelected {
		t.Fatalf("expected one selection event, got %v", rec.kinds())
	}
}

func TestClear_Idempotent(t *testing.T) {
	sessions := newStubSessionStore()
	scopes := newStubScopeStore()
	rec := &stubRecorder{}
	svc := newScopeService(sessions, scopes, nil, rec)
	session := authenticated()

	if err := svc.Select(context.Background(), session, alpha()); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if err := svc.Clear(context.Background(), session); err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if session.Project != nil {
		t.Fatalf("scope not cleared in memory")
	}
	if _, ok := scopes.scopes["s1"]; ok {
		t.Fatalf("scope snapshot not deleted")
	}

	// Clearing again is a clean no-op and records nothing new.
	before := len(rec.events)
	if err := svc.Clear(context.Background(), session); err != nil {
		t.Fatalf("second Clear returned error: %v", err)
	}
	if len(rec.events) != before {
		t.Fatalf("idempotent clear must not emit extra events")
	}
}

// Restore reads the snapshot only: no project listing, no profile fetch.
func TestRestore_NoNetworkCall(t *testing.T) {
	sessions := newStubSessionStore()
	scopes := newStubScopeStore()
	projects := &stubProjectClient{}
	svc := newScopeService(sessions, scopes, projects, &stubRecorder{})

	p := alpha()
	scopes.scopes["s1"] = &p
	session := authenticated()

	if err := svc.Restore(context.Background(), session); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if session.Project == nil || session.Project.Name != "Alpha" {
		t.Fatalf("persisted snapshot not restored: %+v", session.Project)
	}
	if projects.calls != 0 {
		t.Fatalf("restore must not hit the upstream, got %d calls", projects.calls)
	}
}

func TestRestore_KeepsExistingScope(t *testing.T) {
	scopes := newStubScopeStore()
	scopes.scopes["s1"] = &domain.Project{ID: 99, Name: "Stale"}
	svc := newScopeService(newStubSessionStore(), scopes, nil, &stubRecorder{})

	session := authenticated()
	current := alpha()
	session.Project = &current

	if err := svc.Restore(context.Background(), session); err != nil {
		t.Fatalf("Restore returned error: %v", err)
	}
	if session.Project.ID != 42 {
		t.Fatalf("in-memory value is authoritative, got %+v", session.Project)
	}
}

func TestRestore_AbsentSnapshot(t *testing.T) {
	svc := newScopeService(newStubSessionStore(), newStubScopeStore(), nil, &stubRecorder{})
	session := authenticated()
	if err := svc.Restore(context.Background(), session); err != nil {
		t.Fatalf("absent snapshot is a normal state, got %v", err)
	}
	if session.Project != nil {
		t.Fatalf("expected no scope after restore")
	}
}

func TestListForRole_MapsRoleToTab(t *testing.T) {
	cases := map[domain.Role]string{
		domain.RoleEmployee: "IS_MINE",
		domain.RolePM:       "IS_MANAGED",
		domain.RoleAdmin:    "IS_ADMIN",
	}
	for role, wantTab := range cases {
		projects := &stubProjectClient{projects: []domain.Project{alpha()}}
		svc := newScopeService(newStubSessionStore(), newStubScopeStore(), projects, &stubRecorder{})

		session := authenticated()
		session.Identity.Roles = []domain.Role{role}

		list, err := svc.ListForRole(context.Background(), session)
		if err != nil {
			t.Fatalf("%s: ListForRole returned error: %v", role, err)
		}
		if len(list) != 1 {
			t.Fatalf("%s: expected one project, got %d", role, len(list))
		}
		if projects.lastTab != wantTab {
			t.Fatalf("%s: expected tab %s, got %s", role, wantTab, projects.lastTab)
		}
	}
}

func TestListForRole_UnknownRole(t *testing.T) {
	svc := newScopeService(newStubSessionStore(), newStubScopeStore(), &stubProjectClient{}, &stubRecorder{})
	session := authenticated()
	session.Identity.Roles = []domain.Role{"GUEST"}

	if _, err := svc.ListForRole(context.Background(), session); !errors.Is(err, domain.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

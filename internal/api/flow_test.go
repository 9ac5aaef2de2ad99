package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/boardhub/board-gateway/internal/api/handler"
	"github.com/boardhub/board-gateway/internal/api/middleware"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/service"
	"github.com/boardhub/board-gateway/internal/infrastructure/upstream"
)

// In-memory stores standing in for redis during full-chain tests.

type memSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*domain.Session{}}
}

func (s *memSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *stored
	return &clone, nil
}

func (s *memSessionStore) Save(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *memSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

type memScopeStore struct {
	mu     sync.Mutex
	scopes map[string]*domain.Project
}

func newMemScopeStore() *memScopeStore {
	return &memScopeStore{scopes: map[string]*domain.Project{}}
}

func (s *memScopeStore) Load(_ context.Context, sessionID string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scopes[sessionID], nil
}

func (s *memScopeStore) Save(_ context.Context, sessionID string, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		delete(s.scopes, sessionID)
		return nil
	}
	s.scopes[sessionID] = p
	return nil
}

func (s *memScopeStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes, sessionID)
	return nil
}

type nopRecorder struct{}

func (nopRecorder) Record(domain.ActivityEvent) {}

// boardStub simulates the upstream board API for full-chain tests.
type boardStub struct {
	mu      sync.Mutex
	role    string
	lastTab string
	expired bool
}

func (b *boardStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		expired := b.expired
		role := b.role
		b.mu.Unlock()

		if expired {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"code":401,"message":"expired"}`))
			return
		}

		switch {
		case r.URL.Path == "/user/profile":
			w.Write([]byte(`{"code":200,"data":{"id":7,"firstName":"Ada","lastName":"Lovelace","userName":"ada","roles":[{"code":"` + role + `"}]}}`))
		case r.URL.Path == "/project":
			b.mu.Lock()
			b.lastTab = r.URL.Query().Get("tab")
			b.mu.Unlock()
			w.Write([]byte(`{"code":200,"data":[{"id":42,"name":"Alpha","status":"NEW"}]}`))
		default:
			w.Write([]byte(`{"code":200,"data":{"ok":true}}`))
		}
	}
}

// newGateway wires the full request chain with in-memory stores and a stub
// upstream, mirroring the production router without redis or mongo.
func newGateway(t *testing.T, board *boardStub) *echo.Echo {
	t.Helper()
	srv := httptest.NewServer(board.handler())
	t.Cleanup(srv.Close)

	log := zerolog.Nop()
	up := upstream.New(upstream.Config{BaseURL: srv.URL}, log)
	recorder := nopRecorder{}

	sessions := newMemSessionStore()
	scopes := newMemScopeStore()
	sessionService := service.NewSessionService(sessions, scopes, up, up, recorder, log)
	scopeService := service.NewScopeService(sessions, scopes, up, recorder, log)

	codec := middleware.NewCookieCodec("test-secret", time.Hour)
	sessionMW := middleware.Session(codec, sessionService, scopeService)
	policyMW := middleware.Policy(recorder)

	sessionHandler := handler.NewSessionHandler(sessionService, scopeService, codec)
	projectHandler := handler.NewProjectHandler(scopeService)
	resourceHandler := handler.NewResourceHandler(up, sessionService, codec, "/api")

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.POST("/session", sessionHandler.Login)
	e.GET("/session", sessionHandler.State, sessionMW)
	e.DELETE("/session", sessionHandler.Logout, sessionMW)

	selectionGuard := middleware.Guard(domain.DestProjectSelection, recorder)
	e.GET("/projects", projectHandler.List, sessionMW, selectionGuard, policyMW)
	e.PUT("/session/project", sessionHandler.SelectProject, sessionMW, selectionGuard, policyMW)
	e.DELETE("/session/project", sessionHandler.ClearProject, sessionMW, selectionGuard, policyMW)

	proxyGuard := middleware.GuardProxy("/api", recorder)
	e.Any("/api/*", resourceHandler.Proxy, sessionMW, proxyGuard, policyMW)

	return e
}

func do(e *echo.Echo, method, target, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.CookieName && ck.Value != "" {
			return ck
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

func login(t *testing.T, e *echo.Echo) *http.Cookie {
	t.Helper()
	rec := do(e, http.MethodPost, "/session", `{"token":"tok"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, "login failed: %s", rec.Body.String())
	return sessionCookie(t, rec)
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func selectAlpha(t *testing.T, e *echo.Echo, cookie *http.Cookie) {
	t.Helper()
	rec := do(e, http.MethodPut, "/session/project", `{"id":42,"name":"Alpha","status":"NEW"}`, []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code, "selection failed: %s", rec.Body.String())
}

func TestFlow_DeepLinkWhileAnonymous(t *testing.T) {
	e := newGateway(t, &boardStub{role: "PM"})

	rec := do(e, http.MethodGet, "/api/task/5", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "/", decodeJSON(t, rec)["redirect"])
}

func TestFlow_SelectedScopeSurvivesReload(t *testing.T) {
	e := newGateway(t, &boardStub{role: "PM"})
	cookie := login(t, e)

	// Without a selection the board is gated behind project selection.
	rec := do(e, http.MethodGet, "/api/task/5", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusConflict, rec.Code)

	selectAlpha(t, e, cookie)

	// A fresh request with the same cookie simulates a reload: the scope is
	// restored from the snapshot, not re-selected.
	rec = do(e, http.MethodGet, "/session", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "AUTHENTICATED_SCOPED", decodeJSON(t, rec)["state"])

	rec = do(e, http.MethodGet, "/api/task/5", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code, "board must open after reload")
}

func TestFlow_ClearedScopeGatesAgain(t *testing.T) {
	e := newGateway(t, &boardStub{role: "PM"})
	cookie := login(t, e)

	selectAlpha(t, e, cookie)
	rec := do(e, http.MethodDelete, "/session/project", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodGet, "/api/task/5", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestFlow_ProjectListUsesRoleTab(t *testing.T) {
	board := &boardStub{role: "EMPLOYEE"}
	e := newGateway(t, board)
	cookie := login(t, e)

	rec := do(e, http.MethodGet, "/projects", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code, "list failed: %s", rec.Body.String())

	board.mu.Lock()
	tab := board.lastTab
	board.mu.Unlock()
	require.Equal(t, "IS_MINE", tab, "employee listing must use IS_MINE")
}

func TestFlow_ReportsDeniedForEmployee(t *testing.T) {
	e := newGateway(t, &boardStub{role: "EMPLOYEE"})
	cookie := login(t, e)
	selectAlpha(t, e, cookie)

	rec := do(e, http.MethodGet, "/api/report/velocity", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// The same deep link is fine for a project manager.
	pmGateway := newGateway(t, &boardStub{role: "PM"})
	pmCookie := login(t, pmGateway)
	selectAlpha(t, pmGateway, pmCookie)
	rec = do(pmGateway, http.MethodGet, "/api/report/velocity", "", []*http.Cookie{pmCookie})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFlow_StaffMutationDeniedForEmployee(t *testing.T) {
	e := newGateway(t, &boardStub{role: "EMPLOYEE"})
	cookie := login(t, e)

	// Staff management is scope-exempt, so no selection is needed; viewing is
	// open but the mutation never reaches the upstream.
	rec := do(e, http.MethodPost, "/api/user/staff", `{"userName":"mallory"}`, []*http.Cookie{cookie})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/api/user/staff", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code, "staff viewing stays open")

	adminGateway := newGateway(t, &boardStub{role: "ADMIN"})
	adminCookie := login(t, adminGateway)
	rec = do(adminGateway, http.MethodPost, "/api/user/staff", `{"userName":"bob"}`, []*http.Cookie{adminCookie})
	require.Equal(t, http.StatusOK, rec.Code, "admin staff mutation must pass")
}

func TestFlow_ReleaseCreationBlockedInFinishedProject(t *testing.T) {
	e := newGateway(t, &boardStub{role: "PM"})
	cookie := login(t, e)

	rec := do(e, http.MethodPut, "/session/project", `{"id":42,"name":"Alpha","status":"FINISHED"}`, []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(e, http.MethodPost, "/api/release", `{"name":"v1"}`, []*http.Cookie{cookie})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Viewing releases in the finished project stays allowed.
	rec = do(e, http.MethodGet, "/api/release", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestFlow_UpstreamExpiryCollapsesSession(t *testing.T) {
	board := &boardStub{role: "PM"}
	e := newGateway(t, board)
	cookie := login(t, e)
	selectAlpha(t, e, cookie)

	board.mu.Lock()
	board.expired = true
	board.mu.Unlock()

	rec := do(e, http.MethodGet, "/api/task/5", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The session is gone: the next request starts over at login.
	board.mu.Lock()
	board.expired = false
	board.mu.Unlock()
	rec = do(e, http.MethodGet, "/api/task/5", "", []*http.Cookie{cookie})
	require.Equal(t, http.StatusUnauthorized, rec.Code, "collapsed session must require a fresh login")
}

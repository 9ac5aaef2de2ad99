package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boardhub/board-gateway/internal/api/metrics"
	"github.com/boardhub/board-gateway/internal/api/middleware"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/guard"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// SessionHandler owns the session lifecycle surface: login, restore, logout,
// and project scope selection.
type SessionHandler struct {
	sessions ports.SessionService
	scopes   ports.ScopeService
	codec    *middleware.CookieCodec
}

func NewSessionHandler(sessions ports.SessionService, scopes ports.ScopeService, codec *middleware.CookieCodec) *SessionHandler {
	return &SessionHandler{sessions: sessions, scopes: scopes, codec: codec}
}

type tokenLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type credentialsLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type selectProjectRequest struct {
	ID     int64  `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Status string `json:"status" validate:"required,oneof=NEW IN_PROGRESS PENDING FINISHED"`

	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	CreatorID   int64  `json:"creatorId,omitempty"`
}

// stateResponse is what the SPA consumes on startup and after every session
// mutation: the guard state plus the shared identity/scope snapshot.
type stateResponse struct {
	State    guard.State      `json:"state"`
	Identity *domain.Identity `json:"identity,omitempty"`
	Project  *domain.Project  `json:"project,omitempty"`
}

func stateOf(session *domain.Session) stateResponse {
	in := guard.Input{Resolved: true, Destination: domain.DestBoard}
	if session != nil {
		in.Identity = session.Identity
		in.Project = session.Project
	}
	decision := guard.Evaluate(in)

	resp := stateResponse{State: decision.State}
	if session != nil {
		resp.Identity = session.Identity
		resp.Project = session.Project
	}
	return resp
}

// Login exchanges an upstream bearer token for a gateway session.
//
// @Summary      Start a session from a bearer token
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      tokenLoginRequest  true  "Upstream bearer token"
// @Success      201   {object}  stateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req tokenLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.Login(c.Request().Context(), req.Token)
	if err != nil {
		metrics.ProfileFetchFailuresTotal.Inc()
		return err
	}

	return h.established(c, session, "token")
}

// LoginWithCredentials proxies the upstream credential exchange and starts a
// session with the obtained token.
//
// @Summary      Start a session from credentials
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsLoginRequest  true  "Login credentials"
// @Success      201   {object}  stateResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /session/credentials [post]
func (h *SessionHandler) LoginWithCredentials(c echo.Context) error {
	var req credentialsLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	session, err := h.sessions.LoginWithCredentials(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return h.established(c, session, "credentials")
}

func (h *SessionHandler) established(c echo.Context, session *domain.Session, method string) error {
	cookie, err := h.codec.Issue(session.ID)
	if err != nil {
		return err
	}
	c.SetCookie(cookie)
	metrics.SessionsStartedTotal.WithLabelValues(method).Inc()
	return c.JSON(http.StatusCreated, stateOf(session))
}

// State reports the current guard state, identity and project scope. This is
// the SPA's startup restore call: a reload hits this endpoint instead of
// forcing the user back through login or project selection.
//
// @Summary      Current session state
// @Tags         session
// @Produce      json
// @Success      200  {object}  stateResponse
// @Router       /session [get]
func (h *SessionHandler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, stateOf(middleware.SessionFromContext(c)))
}

// Logout ends the session: token, identity and project scope all cleared,
// whatever the prior state.
//
// @Summary      End the session
// @Tags         session
// @Success      204
// @Router       /session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	if session != nil {
		if err := h.sessions.Logout(c.Request().Context(), session.ID); err != nil {
			return err
		}
		metrics.SessionsEndedTotal.Inc()
	}
	c.SetCookie(h.codec.Expire())
	return c.NoContent(http.StatusNoContent)
}

// SelectProject sets the project scope for the session.
//
// @Summary      Select the current project
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      selectProjectRequest  true  "Project snapshot"
// @Success      200   {object}  stateResponse
// @Failure      400   {object}  map[string]string
// @Router       /session/project [put]
func (h *SessionHandler) SelectProject(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	if session == nil || session.Identity == nil {
		return domain.ErrUnauthenticated
	}

	var req selectProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project := domain.Project{
		ID:          req.ID,
		Name:        req.Name,
		Status:      domain.ProjectStatus(req.Status),
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		CreatorID:   req.CreatorID,
	}
	if err := h.scopes.Select(c.Request().Context(), session, project); err != nil {
		return err
	}

	metrics.ScopeSelectedTotal.Inc()
	return c.JSON(http.StatusOK, stateOf(session))
}

// ClearProject returns the session to project selection.
//
// @Summary      Clear the current project
// @Tags         session
// @Produce      json
// @Success      200  {object}  stateResponse
// @Router       /session/project [delete]
func (h *SessionHandler) ClearProject(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	if session == nil || session.Identity == nil {
		return domain.ErrUnauthenticated
	}
	if err := h.scopes.Clear(c.Request().Context(), session); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stateOf(session))
}

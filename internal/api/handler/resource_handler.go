package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/boardhub/board-gateway/internal/api/middleware"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// ResourceHandler forwards screen CRUD traffic to the upstream board API. The
// guard and policy middleware have already admitted the navigation; this
// handler only injects the session's bearer token and relays the answer. An
// upstream 401 means the token expired mid-session, so the whole session
// collapses to unauthenticated — the only way token expiry is ever
// discovered.
type ResourceHandler struct {
	client   ports.ResourceClient
	sessions ports.SessionService
	codec    *middleware.CookieCodec
	prefix   string
}

func NewResourceHandler(client ports.ResourceClient, sessions ports.SessionService, codec *middleware.CookieCodec, prefix string) *ResourceHandler {
	return &ResourceHandler{client: client, sessions: sessions, codec: codec, prefix: prefix}
}

// Proxy relays one request.
func (h *ResourceHandler) Proxy(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	if session == nil || session.Token == "" {
		return domain.ErrUnauthenticated
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable body")
	}

	req := ports.ProxyRequest{
		Method: c.Request().Method,
		Path:   strings.TrimPrefix(c.Request().URL.Path, h.prefix),
		Query:  c.Request().URL.RawQuery,
		Body:   body,
	}

	resp, err := h.client.Do(c.Request().Context(), session.Token, req)
	if errors.Is(err, domain.ErrUnauthenticated) {
		_ = h.sessions.Logout(c.Request().Context(), session.ID)
		c.SetCookie(h.codec.Expire())
		return domain.ErrUnauthenticated
	}
	if err != nil {
		return err
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(resp.Status, contentType, resp.Body)
}

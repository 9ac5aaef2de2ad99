package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/boardhub/board-gateway/internal/api/middleware"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// ProjectHandler serves the selection screen's project list.
type ProjectHandler struct {
	scopes ports.ScopeService
}

func NewProjectHandler(scopes ports.ScopeService) *ProjectHandler {
	return &ProjectHandler{scopes: scopes}
}

type projectListResponse struct {
	Projects []domain.Project `json:"projects"`
}

// List returns the projects the session's effective role may select,
// already filtered by the role-mapped upstream tab.
//
// @Summary      List selectable projects
// @Tags         projects
// @Produce      json
// @Success      200  {object}  projectListResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /projects [get]
func (h *ProjectHandler) List(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	if session == nil || session.Identity == nil {
		return domain.ErrUnauthenticated
	}

	projects, err := h.scopes.ListForRole(c.Request().Context(), session)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, projectListResponse{Projects: projects})
}

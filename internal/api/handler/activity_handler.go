package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/boardhub/board-gateway/internal/api/middleware"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// ActivityHandler serves the user's session activity trail.
type ActivityHandler struct {
	repo ports.ActivityRepository
}

func NewActivityHandler(repo ports.ActivityRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

type activityResponse struct {
	Events []domain.ActivityEvent `json:"events"`
}

// List returns the most recent trail entries for the authenticated user.
//
// @Summary      Recent session activity
// @Tags         session
// @Produce      json
// @Param        limit  query     int  false  "maximum entries, default 50"
// @Success      200    {object}  activityResponse
// @Failure      401    {object}  map[string]string
// @Router       /session/activity [get]
func (h *ActivityHandler) List(c echo.Context) error {
	session := middleware.SessionFromContext(c)
	if session == nil || session.Identity == nil {
		return domain.ErrUnauthenticated
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	events, err := h.repo.ListByUser(c.Request().Context(), session.Identity.ID, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, activityResponse{Events: events})
}

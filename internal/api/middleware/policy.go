package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/boardhub/board-gateway/internal/api/metrics"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/policy"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// Policy enforces the role visibility policy for the destination the guard
// admitted. It runs after Guard, so a session with a resolved identity is
// guaranteed. Advisory in the UI, hard 403 here: a hand-typed URL gets a
// clean denial instead of an undefined fallback.
func Policy(activity ports.ActivityRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFromContext(c)
			if session == nil || session.Identity == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			dest := DestinationFromContext(c)
			role := session.Identity.EffectiveRole()
			allowed := policy.CanAccess(role, dest)
			if allowed {
				if op, mutating := mutationOp(c.Request().Method); mutating {
					allowed = policy.CanMutate(role, session.Identity.ID, dest, op, session.Project)
				}
			}
			if !allowed {
				metrics.PolicyDeniedTotal.WithLabelValues(string(dest)).Inc()
				activity.Record(domain.ActivityEvent{
					SessionID:   session.ID,
					UserID:      session.Identity.ID,
					Kind:        domain.ActivityAccessDenied,
					Destination: dest,
					At:          time.Now().UTC(),
				})
				return c.JSON(http.StatusForbidden, errorMessage("forbidden"))
			}
			return next(c)
		}
	}
}

// mutationOp maps an HTTP method to the policy operation it represents.
// Read methods carry no object-level rules.
func mutationOp(method string) (policy.Op, bool) {
	switch method {
	case http.MethodPost:
		return policy.OpCreate, true
	case http.MethodPut, http.MethodPatch:
		return policy.OpUpdate, true
	case http.MethodDelete:
		return policy.OpDelete, true
	}
	return "", false
}

package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/boardhub/board-gateway/internal/api/metrics"
	"github.com/boardhub/board-gateway/internal/core/domain"
	"github.com/boardhub/board-gateway/internal/core/guard"
	"github.com/boardhub/board-gateway/internal/core/ports"
)

// redirectPaths maps guard redirect targets to the SPA routes the browser
// should navigate to.
var redirectPaths = map[domain.Destination]string{
	domain.DestLogin:            "/",
	domain.DestProjectSelection: "/project-selection",
}

// redirectResponse tells the SPA where to go instead.
type redirectResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Guard evaluates the route guard for a fixed destination. Used for the
// gateway's own routes, where the destination is known at registration time.
func Guard(dest domain.Destination, activity ports.ActivityRecorder) echo.MiddlewareFunc {
	return guardWith(func(echo.Context) domain.Destination { return dest }, activity)
}

// GuardProxy evaluates the route guard for passthrough traffic, deriving the
// destination from the proxied path.
func GuardProxy(prefix string, activity ports.ActivityRecorder) echo.MiddlewareFunc {
	return guardWith(func(c echo.Context) domain.Destination {
		path := strings.TrimPrefix(c.Request().URL.Path, prefix)
		return domain.DestinationForPath(path)
	}, activity)
}

func guardWith(destOf func(echo.Context) domain.Destination, activity ports.ActivityRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := SessionFromContext(c)
			dest := destOf(c)

			in := guard.Input{Resolved: true, Destination: dest}
			if session != nil {
				in.Identity = session.Identity
				in.Project = session.Project
			}

			decision := guard.Evaluate(in)
			if decision.Allow {
				c.Set(destinationKey, dest)
				return next(c)
			}

			switch decision.State {
			case guard.StateUnauthenticated:
				metrics.GuardRedirectsTotal.WithLabelValues("unauthenticated").Inc()
				return c.JSON(http.StatusUnauthorized, redirectResponse{
					Error:    "unauthenticated",
					Redirect: redirectPaths[decision.RedirectTo],
				})
			case guard.StateNoScope:
				metrics.GuardRedirectsTotal.WithLabelValues("no_scope").Inc()
				if session != nil && session.Identity != nil {
					activity.Record(domain.ActivityEvent{
						SessionID:   session.ID,
						UserID:      session.Identity.ID,
						Kind:        domain.ActivityRedirected,
						Destination: dest,
						At:          time.Now().UTC(),
					})
				}
				return c.JSON(http.StatusConflict, redirectResponse{
					Error:    "no project selected",
					Redirect: redirectPaths[decision.RedirectTo],
				})
			default:
				// Loading cannot be observed here: resolution happens inline
				// in the session middleware before evaluation.
				return c.JSON(http.StatusServiceUnavailable, errorMessage("session not ready"))
			}
		}
	}
}

const destinationKey = "destination"

// DestinationFromContext returns the destination the guard admitted.
func DestinationFromContext(c echo.Context) domain.Destination {
	d, _ := c.Get(destinationKey).(domain.Destination)
	return d
}

func errorMessage(msg string) map[string]string {
	return map[string]string{"error": msg}
}

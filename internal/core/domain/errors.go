package domain

import "errors"

var (
	// ErrUnauthenticated covers every authentication failure: missing, bad or
	// expired token, unreachable profile endpoint, or a non-200 application
	// code from the upstream. The distinction is deliberately collapsed; the
	// caller only ever redirects to login.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNoProject means the destination requires a project scope and none is
	// selected. Handled by the guard, never by business logic.
	ErrNoProject = errors.New("no project selected")

	ErrForbidden       = errors.New("access forbidden")
	ErrInvalidRole     = errors.New("invalid role")
	ErrSessionNotFound = errors.New("session not found")
	ErrUpstream        = errors.New("upstream request failed")
)

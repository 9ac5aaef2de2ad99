// Package guard implements the navigation state machine gating every screen
// of the board client. Evaluate is a pure function; the HTTP middleware feeds
// it a resolved snapshot of the session and translates its decision into a
// pass-through or a redirect envelope.
package guard

import "github.com/boardhub/board-gateway/internal/core/domain"

// State is the guard's view of a session.
type State string

const (
	// StateLoading means the identity has not been resolved yet. No
	// navigation is permitted while loading.
	StateLoading State = "LOADING"

	// StateUnauthenticated means no identity could be resolved. Every
	// request redirects to the login destination.
	StateUnauthenticated State = "UNAUTHENTICATED"

	// StateNoScope means an identity is present but no project is selected
	// and the destination is not scope-exempt.
	StateNoScope State = "AUTHENTICATED_NO_SCOPE"

	// StateScoped means navigation is permitted, subject to the visibility
	// policy for the specific destination.
	StateScoped State = "AUTHENTICATED_SCOPED"
)

// Input is the snapshot the guard evaluates. Resolved distinguishes "profile
// fetch has not completed" from "profile fetch completed with no identity".
type Input struct {
	Resolved    bool
	Identity    *domain.Identity
	Project     *domain.Project
	Destination domain.Destination
}

// Decision is the guard's verdict for one navigation.
type Decision struct {
	State      State
	Allow      bool
	RedirectTo domain.Destination
}

// Evaluate decides whether the destination is reachable given the session
// snapshot. The scope-exemption check runs before the redirect decision so a
// redirect target is always reachable in the state that produced it: the
// function converges in at most one redirect.
func Evaluate(in Input) Decision {
	if !in.Resolved {
		return Decision{State: StateLoading}
	}

	if in.Identity == nil {
		if in.Destination == domain.DestLogin {
			return Decision{State: StateUnauthenticated, Allow: true}
		}
		return Decision{State: StateUnauthenticated, RedirectTo: domain.DestLogin}
	}

	if in.Project != nil || domain.ScopeExempt(in.Destination) {
		return Decision{State: StateScoped, Allow: true}
	}

	return Decision{State: StateNoScope, RedirectTo: domain.DestProjectSelection}
}

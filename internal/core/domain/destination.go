package domain

import "strings"

// Destination identifies a navigable screen of the board client. The guard
// and the visibility policy reason about destinations, never raw paths.
type Destination string

const (
	DestLogin            Destination = "login"
	DestProjectSelection Destination = "project-selection"
	DestStaffManagement  Destination = "staff-management"
	DestProjectDetail    Destination = "project-detail"
	DestBacklog          Destination = "backlog"
	DestReleases         Destination = "releases"
	DestSprints          Destination = "sprints"
	DestTasks            Destination = "tasks"
	DestBoard            Destination = "board"
	DestWorklogs         Destination = "worklogs"
	DestReports          Destination = "reports"
)

// scopeExempt lists the only destinations reachable without a selected
// project. The guard consults this set before deciding to redirect, which is
// what keeps the redirect loop convergent: project-selection itself must never
// redirect to project-selection.
var scopeExempt = map[Destination]struct{}{
	DestLogin:            {},
	DestProjectSelection: {},
	DestStaffManagement:  {},
}

// ScopeExempt reports whether d is reachable without a project scope.
func ScopeExempt(d Destination) bool {
	_, ok := scopeExempt[d]
	return ok
}

// destinationPrefixes maps upstream resource path prefixes to destinations.
// Longest prefix wins; order matters only for the task/column special case.
var destinationPrefixes = []struct {
	prefix string
	dest   Destination
}{
	{"/user-story", DestBacklog},
	{"/release", DestReleases},
	{"/sprint", DestSprints},
	{"/task/column", DestBoard},
	{"/task", DestTasks},
	{"/work-log", DestWorklogs},
	{"/report", DestReports},
	{"/user/staff", DestStaffManagement},
	{"/user", DestStaffManagement},
	{"/auth", DestStaffManagement},
	{"/project", DestProjectDetail},
	{"/board", DestBoard},
}

// DestinationForPath resolves an upstream resource path to the screen that
// owns it. Unknown paths map to the board, the most restrictive default that
// still requires both identity and scope.
func DestinationForPath(path string) Destination {
	for _, m := range destinationPrefixes {
		if strings.HasPrefix(path, m.prefix) {
			return m.dest
		}
	}
	return DestBoard
}

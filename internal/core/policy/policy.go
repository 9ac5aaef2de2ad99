// Package policy is the role-based visibility policy of the board client.
// Every function is pure: no I/O, no clock, no state. The policy is advisory
// UI gating only — the upstream API is the security boundary and re-checks
// every mutation. The gateway still enforces it so a hand-typed URL gets a
// clean 403 instead of an undefined fallback.
package policy

import "github.com/boardhub/board-gateway/internal/core/domain"

// restricted maps destinations to the roles allowed to reach them. A
// destination absent from the map is open to every known role.
var restricted = map[domain.Destination][]domain.Role{
	domain.DestReports: {domain.RolePM},
}

// CanAccess reports whether the effective role may navigate to the
// destination. Unknown roles are denied everything but the login screen.
func CanAccess(role domain.Role, dest domain.Destination) bool {
	if dest == domain.DestLogin {
		return true
	}
	if !domain.KnownRole(role) {
		return false
	}
	allowed, ok := restricted[dest]
	if !ok {
		return true
	}
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// Op classifies a mutating request for object-level checks.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// CanMutate reports whether the role may apply op to the destination within
// the scoped project. Destinations without an object-level rule are governed
// by CanAccess alone.
func CanMutate(role domain.Role, userID int64, dest domain.Destination, op Op, p *domain.Project) bool {
	switch dest {
	case domain.DestStaffManagement:
		return CanManageStaff(role)
	case domain.DestReleases:
		if op == OpCreate {
			var status domain.ProjectStatus
			if p != nil {
				status = p.Status
			}
			return CanCreateRelease(role, status)
		}
		return true
	case domain.DestProjectDetail:
		if op == OpDelete {
			return CanDeleteProject(role, userID, p)
		}
		return true
	}
	return true
}

// CanCreateRelease reports whether releases may be added to a project.
// Only the PM creates releases, and never inside a finished project.
func CanCreateRelease(role domain.Role, status domain.ProjectStatus) bool {
	return role == domain.RolePM && status != domain.ProjectFinished
}

// CanDeleteProject reports whether the user may delete a project. Deletion is
// limited to the project's creator or a manager role, and only while the
// project has not started.
func CanDeleteProject(role domain.Role, userID int64, p *domain.Project) bool {
	if p == nil || p.Status != domain.ProjectNew {
		return false
	}
	if role == domain.RolePM || role == domain.RoleAdmin {
		return true
	}
	return p.CreatorID != 0 && p.CreatorID == userID
}

// CanManageStaff reports whether the role may mutate staff records (create
// accounts, change account status). Viewing the staff screen is open to all
// authenticated roles; only mutations are admin-only.
func CanManageStaff(role domain.Role) bool {
	return role == domain.RoleAdmin
}

package domain

// Role is one of the closed set of roles the board API assigns to users.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RolePM       Role = "PM"
	RoleEmployee Role = "EMPLOYEE"
)

// KnownRole reports whether r belongs to the closed role set.
func KnownRole(r Role) bool {
	switch r {
	case RoleAdmin, RolePM, RoleEmployee:
		return true
	}
	return false
}

// Identity is the authenticated user's profile as resolved from the upstream
// board API. It is absent until the first successful profile fetch.
type Identity struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	UserName     string `json:"userName"`
	Roles        []Role `json:"roles"`
	DepartmentID int64  `json:"departmentId,omitempty"`
}

// EffectiveRole returns the single role consulted for UI gating.
//
// The board API models users with a role set, but every gating decision reads
// only the first entry. That simplification is intentional and centralized
// here so multi-role support can be introduced in one place.
func (i *Identity) EffectiveRole() Role {
	if i == nil || len(i.Roles) == 0 {
		return ""
	}
	return i.Roles[0]
}

// DisplayName returns "First Last" for headers and activity records.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.FirstName == "" {
		return i.UserName
	}
	return i.FirstName + " " + i.LastName
}

// ProjectTab maps the effective role to the upstream project listing tab.
// The selection screen only ever shows projects the role is entitled to.
func ProjectTab(r Role) (string, bool) {
	switch r {
	case RoleEmployee:
		return "IS_MINE", true
	case RolePM:
		return "IS_MANAGED", true
	case RoleAdmin:
		return "IS_ADMIN", true
	}
	return "", false
}

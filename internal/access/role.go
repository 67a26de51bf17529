package access

import "strings"

// Role is the closed set of permission tiers a staff account can hold.
// Anonymous requests carry no Role at all; the zero value never reaches
// policy decisions.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// Roles lists every valid role, highest tier first.
func Roles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleViewer}
}

// ParseRole normalises raw input into a Role. Unknown or empty input
// collapses to RoleViewer so that a malformed stored value can never grant
// more than the least privilege.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin
	case RoleEditor:
		return RoleEditor
	case RoleViewer:
		return RoleViewer
	default:
		return RoleViewer
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleEditor:
		return 2
	case RoleViewer:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r sits at or above min in the admin > editor >
// viewer hierarchy. Route admission does not use this for admin-only
// routes; those require RoleAdmin exactly.
func (r Role) AtLeast(min Role) bool {
	return r.rank() >= min.rank()
}

package access

// Decision is the outcome of evaluating a route class against the current
// subject. Produced fresh per request, never persisted.
type Decision struct {
	Allow  bool
	Reason string
}

// Decide applies the access policy. It is pure and total: no I/O, no
// panics, defined for every (class, authenticated, role) combination.
//
// Admin-only routes are a distinct tier, not a hierarchy threshold: an
// editor is denied even though editor outranks viewer.
func Decide(class RouteClass, authenticated bool, role Role) Decision {
	switch class {
	case RoutePublic:
		return Decision{Allow: true, Reason: "public route"}
	case RouteAdminOnly:
		if !authenticated {
			return Decision{Allow: false, Reason: "authentication required"}
		}
		if role != RoleAdmin {
			return Decision{Allow: false, Reason: "admin role required"}
		}
		return Decision{Allow: true, Reason: "admin"}
	default:
		if !authenticated {
			return Decision{Allow: false, Reason: "authentication required"}
		}
		return Decision{Allow: true, Reason: "authenticated"}
	}
}

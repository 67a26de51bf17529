package access

import "strings"

// RouteClass is the stateless classification of a request path.
type RouteClass int

const (
	// RoutePublic paths are reachable without authentication.
	RoutePublic RouteClass = iota
	// RouteProtected paths require any authenticated subject.
	RouteProtected
	// RouteAdminOnly paths require the admin role exactly.
	RouteAdminOnly
)

// String implements fmt.Stringer for logging and metrics labels.
func (c RouteClass) String() string {
	switch c {
	case RoutePublic:
		return "public"
	case RouteAdminOnly:
		return "admin_only"
	default:
		return "protected"
	}
}

// routeRule is one entry in the static route table.
type routeRule struct {
	prefix string
	exact  bool
}

func (r routeRule) matches(path string) bool {
	if r.exact {
		return path == r.prefix
	}
	return path == r.prefix || strings.HasPrefix(path, r.prefix+"/")
}

// Classifier classifies request paths against an ordered static table of
// prefixes. The table is fixed at construction; classification is pure.
type Classifier struct {
	public    []routeRule
	adminOnly []routeRule
	protected []routeRule
	adminAPI  []routeRule
	excluded  []routeRule
}

// NewClassifier builds the route table for the admin panel. Public rules
// are evaluated before protected rules, and the two lists are disjoint by
// construction (asserted by tests, not at runtime).
func NewClassifier() *Classifier {
	return &Classifier{
		public: []routeRule{
			{prefix: "/", exact: true},
			{prefix: "/auth"},
			{prefix: "/api/auth"},
			{prefix: "/healthz", exact: true},
		},
		adminOnly: []routeRule{
			{prefix: "/dashboard/users"},
			{prefix: "/api/admin"},
		},
		protected: []routeRule{
			{prefix: "/dashboard"},
			{prefix: "/api/articles"},
			{prefix: "/api/assets"},
		},
		adminAPI: []routeRule{
			{prefix: "/api/admin"},
		},
		excluded: []routeRule{
			{prefix: "/static"},
			{prefix: "/favicon.ico", exact: true},
			{prefix: "/metrics", exact: true},
			{prefix: "/api/auth/callback"},
		},
	}
}

// Classify maps a path onto its RouteClass. Public matching wins; paths
// matching no rule classify as protected so that an unlisted path can
// never be reached anonymously.
func (c *Classifier) Classify(path string) RouteClass {
	for _, rule := range c.public {
		if rule.matches(path) {
			return RoutePublic
		}
	}
	for _, rule := range c.adminOnly {
		if rule.matches(path) {
			return RouteAdminOnly
		}
	}
	for _, rule := range c.protected {
		if rule.matches(path) {
			return RouteProtected
		}
	}
	return RouteProtected
}

// IsAdminAPI reports whether denials for this path must be machine-readable
// JSON rather than a redirect.
func (c *Classifier) IsAdminAPI(path string) bool {
	for _, rule := range c.adminAPI {
		if rule.matches(path) {
			return true
		}
	}
	return false
}

// Excluded reports whether the gate skips the path entirely: static assets,
// the identity callback, and operational endpoints.
func (c *Classifier) Excluded(path string) bool {
	for _, rule := range c.excluded {
		if rule.matches(path) {
			return true
		}
	}
	// Anything with a file extension is served as a static asset.
	if i := strings.LastIndexByte(path, '/'); i >= 0 && strings.Contains(path[i+1:], ".") {
		return true
	}
	return false
}

// PublicPrefixes exposes the public rule prefixes for table tests.
func (c *Classifier) PublicPrefixes() []string {
	return rulePrefixes(c.public)
}

// ProtectedPrefixes exposes the protected and admin-only rule prefixes for
// table tests.
func (c *Classifier) ProtectedPrefixes() []string {
	return append(rulePrefixes(c.adminOnly), rulePrefixes(c.protected)...)
}

func rulePrefixes(rules []routeRule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.exact {
			continue
		}
		out = append(out, r.prefix)
	}
	return out
}

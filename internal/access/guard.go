package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/inkwell-cms/inkwell/internal/platform/httpx"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

// Guard provides in-handler re-checks, independent of the edge gate. Every
// protected handler group mounts one of these so a path the gate's matcher
// misses is still denied before any side-effecting work.
type Guard struct {
	roles  RoleResolver
	logger *slog.Logger
}

// NewGuard constructs a Guard over the same role resolver the gate uses.
func NewGuard(roles RoleResolver, logger *slog.Logger) *Guard {
	return &Guard{roles: roles, logger: logger}
}

// RequireAuthenticated admits any authenticated subject; anonymous requests
// are redirected to the entry point.
func (g *Guard) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			http.Redirect(w, r, EntryPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireAtLeastPage admits subjects at or above min in the role hierarchy.
// Anonymous requests go to the entry point; authenticated-but-insufficient
// ones go to the dashboard instead of an error page.
func (g *Guard) RequireAtLeastPage(min Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := g.resolve(r)
			if !ok {
				http.Redirect(w, r, EntryPath, http.StatusFound)
				return
			}
			if !identity.Role.AtLeast(min) {
				g.logger.Info("guard denied page",
					slog.String("path", r.URL.Path),
					slog.String("role", identity.Role.String()),
					slog.String("required", min.String()))
				http.Redirect(w, r, DashboardPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

// RequireAdminPage admits the admin role exactly.
func (g *Guard) RequireAdminPage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			http.Redirect(w, r, EntryPath, http.StatusFound)
			return
		}
		if identity.Role != RoleAdmin {
			g.logger.Info("guard denied admin page",
				slog.String("path", r.URL.Path),
				slog.String("role", identity.Role.String()))
			http.Redirect(w, r, DashboardPath, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// RequireAdminAPI admits the admin role exactly, answering JSON denials:
// 401 for anonymous callers, 403 for authenticated ones with an
// insufficient role.
func (g *Guard) RequireAdminAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := g.resolve(r)
		if !ok {
			httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized: Please login"})
			return
		}
		if identity.Role != RoleAdmin {
			g.logger.Info("guard denied admin api",
				slog.String("path", r.URL.Path),
				slog.String("role", identity.Role.String()))
			httpx.JSON(w, http.StatusForbidden, map[string]string{"error": adminAPIDenial})
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
	})
}

// resolve re-identifies the subject from the session and re-resolves the
// role, never trusting identity the gate may have stashed earlier.
func (g *Guard) resolve(r *http.Request) (*Identity, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.SubjectID() == "" {
		return nil, false
	}
	role := g.roles.Resolve(r.Context(), sess.SubjectID(), sess.SubjectEmail())
	return &Identity{SubjectID: sess.SubjectID(), Email: sess.SubjectEmail(), Role: role}, true
}

// RoleResolverFunc adapts a function to the RoleResolver interface.
type RoleResolverFunc func(ctx context.Context, subjectID, email string) Role

// Resolve implements RoleResolver.
func (f RoleResolverFunc) Resolve(ctx context.Context, subjectID, email string) Role {
	return f(ctx, subjectID, email)
}

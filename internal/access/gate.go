package access

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/inkwell-cms/inkwell/internal/platform/httpx"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

// EntryPath is the public entry point anonymous users are sent to.
const EntryPath = "/"

// DashboardPath is where authenticated users land.
const DashboardPath = "/dashboard"

// adminAPIDenial is the machine-readable denial body for admin API paths.
const adminAPIDenial = "Forbidden: Admin access required"

// RoleResolver resolves a subject to its role. Implementations must be
// fail-safe: they return viewer rather than erroring.
type RoleResolver interface {
	Resolve(ctx context.Context, subjectID, email string) Role
}

// DecisionObserver records gate outcomes for metrics.
type DecisionObserver interface {
	ObserveGateDecision(outcome string)
}

// Gate is the edge interception layer. It runs before every page and API
// handler, resolves the subject from the session, resolves the role,
// classifies the path and enforces the access decision.
type Gate struct {
	classifier *Classifier
	roles      RoleResolver
	logger     *slog.Logger
	observer   DecisionObserver
}

// NewGate constructs the edge gate. observer may be nil.
func NewGate(classifier *Classifier, roles RoleResolver, logger *slog.Logger, observer DecisionObserver) *Gate {
	return &Gate{classifier: classifier, roles: roles, logger: logger, observer: observer}
}

// Middleware evaluates the gate for each request. Terminal outcomes are
// pass, redirect to the entry point, redirect to the dashboard, or a 403
// JSON denial for admin API paths.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if g.classifier.Excluded(path) {
			next.ServeHTTP(w, r)
			return
		}

		// Any failure inside the gate resolves to a denial, never to
		// letting the request through unevaluated.
		defer func() {
			if rec := recover(); rec != nil {
				g.logger.Error("gate panic", slog.Any("panic", rec), slog.String("path", path))
				g.deny(w, r, path, false)
			}
		}()

		subjectID, email := g.identifySubject(r.Context())
		authenticated := subjectID != ""

		var role Role
		if authenticated {
			role = g.roles.Resolve(r.Context(), subjectID, email)
		}

		// An authenticated user has no business on the login entry point.
		if authenticated && (path == EntryPath || path == "/auth/login") {
			g.observe("redirect_dashboard")
			http.Redirect(w, r, DashboardPath, http.StatusFound)
			return
		}

		class := g.classifier.Classify(path)
		decision := Decide(class, authenticated, role)
		if !decision.Allow {
			g.logger.Info("gate denied request",
				slog.String("path", path),
				slog.String("class", class.String()),
				slog.Bool("authenticated", authenticated),
				slog.String("reason", decision.Reason))
			g.deny(w, r, path, authenticated)
			return
		}

		g.observe("pass")
		if authenticated {
			ctx := ContextWithIdentity(r.Context(), &Identity{SubjectID: subjectID, Email: email, Role: role})
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// identifySubject reads the subject from the committed session. Missing or
// unreadable sessions yield an anonymous subject, never an error.
func (g *Gate) identifySubject(ctx context.Context) (subjectID, email string) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil {
		return "", ""
	}
	return sess.SubjectID(), sess.SubjectEmail()
}

// deny routes the request to the correct denial shape. Admin API paths get
// a structured 403 regardless of authentication state; page paths redirect
// anonymous users to the entry point and authenticated ones to their
// dashboard.
func (g *Gate) deny(w http.ResponseWriter, r *http.Request, path string, authenticated bool) {
	switch {
	case g.classifier.IsAdminAPI(path):
		g.observe("deny_json")
		httpx.JSON(w, http.StatusForbidden, map[string]string{"error": adminAPIDenial})
	case !authenticated:
		g.observe("redirect_login")
		http.Redirect(w, r, EntryPath, http.StatusFound)
	default:
		g.observe("redirect_dashboard")
		http.Redirect(w, r, DashboardPath, http.StatusFound)
	}
}

func (g *Gate) observe(outcome string) {
	if g.observer != nil {
		g.observer.ObserveGateDecision(outcome)
	}
}

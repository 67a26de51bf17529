package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/admin"
	"github.com/inkwell-cms/inkwell/internal/articles"
	"github.com/inkwell-cms/inkwell/internal/assets"
	"github.com/inkwell-cms/inkwell/internal/auth"
	"github.com/inkwell-cms/inkwell/internal/observability"
	"github.com/inkwell-cms/inkwell/internal/shared"
	"github.com/inkwell-cms/inkwell/internal/users"
	"github.com/inkwell-cms/inkwell/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	SessionManager  *shared.SessionManager
	CSRFManager     *shared.CSRFManager
	Gate            *access.Gate
	AuthHandler     *auth.Handler
	ArticlesHandler *articles.Handler
	AssetsHandler   *assets.Handler
	UsersHandler    *users.Handler
	AdminHandler    *admin.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with Inkwell defaults. Route
// placement mirrors the gate's classification tables; handlers carry
// their own guards so access holds even if a path is mounted elsewhere.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
		Gate:           params.Gate,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The entry point shows the login form. Authenticated subjects never
	// reach it: the gate already redirected them to the dashboard.
	r.Get("/", params.AuthHandler.ShowLogin)

	r.Route("/auth", params.AuthHandler.MountRoutes)

	r.Route("/dashboard", func(r chi.Router) {
		params.ArticlesHandler.MountRoutes(r)
		r.Route("/assets", params.AssetsHandler.MountPages)
		r.Route("/users", params.UsersHandler.MountRoutes)
	})

	r.Route("/api/admin", params.AdminHandler.MountRoutes)
	r.Route("/api/assets", params.AssetsHandler.MountAPI)

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}

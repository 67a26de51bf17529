package articles

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/shared"
	"github.com/inkwell-cms/inkwell/internal/view"
)

// Handler renders the article pages and the editor.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	templates *view.Engine
	csrf      *shared.CSRFManager
	guard     *access.Guard
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, csrf *shared.CSRFManager, guard *access.Guard) *Handler {
	return &Handler{logger: logger, service: service, templates: templates, csrf: csrf, guard: guard}
}

// MountRoutes registers the dashboard landing page and the article routes.
// Reading requires any authenticated subject; mutating requires editor or
// above. Both guards re-run the policy independently of the edge gate.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuthenticated)
		r.Get("/", h.Dashboard)
		r.Get("/articles", h.list)
		r.Get("/editor/{id}", h.edit)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAtLeastPage(access.RoleEditor))
		r.Get("/editor/new", h.newForm)
		r.Post("/articles", h.create)
		r.Post("/articles/{id}", h.update)
		r.Post("/articles/{id}/publish", h.publish)
		r.Post("/articles/{id}/unpublish", h.unpublish)
		r.Post("/articles/{id}/delete", h.delete)
	})
}

// Dashboard renders the landing page for authenticated staff with the most
// recently touched articles.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	recent, pagination, err := h.service.List(r.Context(), 1, 5)
	if err != nil {
		h.logger.Error("dashboard articles", slog.Any("error", err))
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/dashboard.html", "Dashboard", map[string]any{
		"Recent": recent,
		"Total":  pagination.Total,
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	list, pagination, err := h.service.List(r.Context(), page, 20)
	if err != nil {
		h.logger.Error("list articles", slog.Any("error", err))
		http.Error(w, "Failed to load articles", http.StatusInternalServerError)
		return
	}
	h.render(w, r, "pages/articles_list.html", "Articles", map[string]any{
		"Articles":   list,
		"Pagination": pagination,
	})
}

func (h *Handler) newForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/article_edit.html", "New article", map[string]any{
		"Article": &Article{Status: StatusDraft},
		"IsNew":   true,
	})
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	article, ok := h.loadArticle(w, r)
	if !ok {
		return
	}
	h.render(w, r, "pages/article_edit.html", article.Title, map[string]any{
		"Article": article,
		"IsNew":   false,
	})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	identity := access.IdentityFromContext(r.Context())
	article, err := h.service.Create(r.Context(), CreateArticleInput{
		Title:    r.PostFormValue("title"),
		Body:     r.PostFormValue("body"),
		AuthorID: identity.SubjectID,
	})
	if err != nil {
		h.flashError(r, err)
		http.Redirect(w, r, "/dashboard/editor/new", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard/editor/"+strconv.FormatInt(article.ID, 10), http.StatusSeeOther)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid article ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if _, err := h.service.Update(r.Context(), UpdateArticleInput{
		ID:    id,
		Title: r.PostFormValue("title"),
		Body:  r.PostFormValue("body"),
	}); err != nil {
		h.flashError(r, err)
	}
	http.Redirect(w, r, "/dashboard/editor/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

func (h *Handler) publish(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Publish)
}

func (h *Handler) unpublish(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.service.Unpublish)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid article ID", http.StatusBadRequest)
		return
	}
	if err := op(r.Context(), id); err != nil {
		h.logger.Error("change article status", slog.Int64("id", id), slog.Any("error", err))
		h.flashError(r, err)
	}
	http.Redirect(w, r, "/dashboard/editor/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid article ID", http.StatusBadRequest)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error("delete article", slog.Int64("id", id), slog.Any("error", err))
		h.flashError(r, err)
	}
	http.Redirect(w, r, "/dashboard/articles", http.StatusSeeOther)
}

func (h *Handler) loadArticle(w http.ResponseWriter, r *http.Request) (*Article, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid article ID", http.StatusBadRequest)
		return nil, false
	}
	article, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			http.Error(w, "Article not found", http.StatusNotFound)
			return nil, false
		}
		h.logger.Error("get article", slog.Int64("id", id), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil, false
	}
	return article, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, page, title string, data map[string]any) {
	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       title,
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Identity:    access.IdentityFromContext(r.Context()),
		Data:        data,
	}
	if err := h.templates.Render(w, page, viewData); err != nil {
		h.logger.Error("render "+page, slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) flashError(r *http.Request, err error) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		msg := "Something went wrong"
		if errors.Is(err, ErrSlugTaken) {
			msg = "An article with this title already exists"
		}
		sess.AddFlash(shared.FlashMessage{Kind: "error", Message: msg})
	}
}

package assets

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/platform/httpx"
	"github.com/inkwell-cms/inkwell/internal/shared"
	"github.com/inkwell-cms/inkwell/internal/view"
)

// Handler serves the asset library page and the raw-bytes API.
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

// MountPages registers the library pages under /dashboard/assets.
func (h *Handler) MountPages(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuthenticated)
		r.Get("/", h.library)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAtLeastPage(access.RoleEditor))
		r.Post("/upload", h.upload)
		r.Post("/{id}/delete", h.delete)
	})
}

// MountAPI registers the raw asset endpoint under /api/assets.
func (h *Handler) MountAPI(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAuthenticated)
		r.Get("/{id}/raw", h.raw)
	})
}

func (h *Handler) library(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list assets", slog.Any("error", err))
		http.Error(w, "Failed to load assets", http.StatusInternalServerError)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	var flash *shared.FlashMessage
	if sess != nil {
		flash = sess.PopFlash()
	}
	viewData := view.TemplateData{
		Title:       "Asset library",
		CSRFToken:   csrfToken,
		Flash:       flash,
		CurrentPath: r.URL.Path,
		Identity:    access.IdentityFromContext(r.Context()),
		Data: map[string]any{
			"Assets": list,
		},
	}
	if err := h.templates.Render(w, "pages/assets.html", viewData); err != nil {
		h.logger.Error("render assets", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.service.MaxBytes()+4096)
	if err := r.ParseMultipartForm(h.service.MaxBytes()); err != nil {
		h.flash(r, "error", "Upload too large or malformed")
		http.Redirect(w, r, "/dashboard/assets", http.StatusSeeOther)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.flash(r, "error", "No file supplied")
		http.Redirect(w, r, "/dashboard/assets", http.StatusSeeOther)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("read upload", slog.Any("error", err))
		h.flash(r, "error", "Upload failed")
		http.Redirect(w, r, "/dashboard/assets", http.StatusSeeOther)
		return
	}

	identity := access.IdentityFromContext(r.Context())
	asset, err := h.service.Upload(r.Context(), header.Filename, data, identity.SubjectID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotAnImage):
			h.flash(r, "error", "Only image files are accepted")
		case errors.Is(err, ErrTooLarge):
			h.flash(r, "error", "File exceeds the upload limit")
		default:
			h.logger.Error("store asset", slog.Any("error", err))
			h.flash(r, "error", "Upload failed")
		}
		http.Redirect(w, r, "/dashboard/assets", http.StatusSeeOther)
		return
	}

	h.flash(r, "success", "Uploaded "+asset.FileName)
	http.Redirect(w, r, "/dashboard/assets", http.StatusSeeOther)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error("delete asset", slog.String("id", id), slog.Any("error", err))
		h.flash(r, "error", "Delete failed")
	}
	http.Redirect(w, r, "/dashboard/assets", http.StatusSeeOther)
}

func (h *Handler) raw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	asset, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "Asset not found")
			return
		}
		h.logger.Error("get asset", slog.String("id", id), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(asset.SizeBytes, 10))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(asset.Data)
}

func (h *Handler) flash(r *http.Request, kind, msg string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: msg})
	}
}

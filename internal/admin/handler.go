package admin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/platform/httpx"
	"github.com/inkwell-cms/inkwell/internal/shared"
	"github.com/inkwell-cms/inkwell/internal/users"
)

// UserLister lists accounts for the admin API.
type UserLister interface {
	ListUsers(ctx context.Context) ([]users.User, error)
}

// RoleUpdater is the single write path for role changes.
type RoleUpdater interface {
	UpdateRole(ctx context.Context, subjectID string, role access.Role) error
}

// Auditor records admin actions.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Handler exposes the admin-only JSON API under /api/admin.
type Handler struct {
	logger   *slog.Logger
	users    UserLister
	roles    RoleUpdater
	audit    Auditor
	guard    *access.Guard
	validate *validator.Validate
}

// NewHandler constructs a Handler. audit may be nil.
func NewHandler(logger *slog.Logger, userLister UserLister, roles RoleUpdater, audit Auditor, guard *access.Guard) *Handler {
	return &Handler{
		logger:   logger,
		users:    userLister,
		roles:    roles,
		audit:    audit,
		guard:    guard,
		validate: validator.New(),
	}
}

// MountRoutes registers the admin API behind the API guard. The guard
// re-resolves the subject and role on every request even though the edge
// gate already classified /api/admin as admin-only.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireAdminAPI)
		r.Get("/users", h.listUsers)
		r.Post("/users", h.adminEcho)
		r.Put("/users/{id}/role", h.updateRole)
	})
}

type userPayload struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	identity := access.IdentityFromContext(r.Context())

	list, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("admin list users", slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	payload := make([]userPayload, 0, len(list))
	for _, u := range list {
		payload = append(payload, userPayload{
			ID:        u.ID,
			Email:     u.Email,
			Role:      u.Role.String(),
			IsActive:  u.IsActive,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":     "Admin access granted",
		"users":       payload,
		"userCount":   len(payload),
		"requestedBy": identity.Email,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin editor viewer"`
}

func (h *Handler) updateRole(w http.ResponseWriter, r *http.Request) {
	identity := access.IdentityFromContext(r.Context())
	subjectID := chi.URLParam(r, "id")

	var req updateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Role must be one of admin, editor, viewer")
		return
	}

	role := access.ParseRole(req.Role)
	if err := h.roles.UpdateRole(r.Context(), subjectID, role); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			httpx.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.logger.Error("admin update role", slog.String("subject_id", subjectID), slog.Any("error", err))
		httpx.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if h.audit != nil {
		if err := h.audit.Record(r.Context(), shared.AuditLog{
			ActorID:  identity.SubjectID,
			Action:   "role.update",
			Entity:   "user",
			EntityID: subjectID,
			Meta:     map[string]any{"role": role.String()},
		}); err != nil {
			h.logger.Warn("audit role update", slog.Any("error", err))
		}
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "Role updated",
		"user_id": subjectID,
		"role":    role.String(),
	})
}

// adminEcho mirrors the request body back to the caller. Kept as a probe
// endpoint for admin API clients.
func (h *Handler) adminEcho(w http.ResponseWriter, r *http.Request) {
	identity := access.IdentityFromContext(r.Context())

	var body map[string]any
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":     "Admin POST operation completed",
		"data":        body,
		"processedBy": identity.Email,
	})
}

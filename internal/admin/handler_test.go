package admin_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/admin"
	"github.com/inkwell-cms/inkwell/internal/shared"
	"github.com/inkwell-cms/inkwell/internal/users"
	_ "github.com/inkwell-cms/inkwell/testing"
)

type stubUsers struct {
	list []users.User
	err  error
}

func (s *stubUsers) ListUsers(ctx context.Context) ([]users.User, error) {
	return s.list, s.err
}

type stubRoles struct {
	updated map[string]access.Role
	err     error
}

func (s *stubRoles) UpdateRole(ctx context.Context, subjectID string, role access.Role) error {
	if s.err != nil {
		return s.err
	}
	if s.updated == nil {
		s.updated = make(map[string]access.Role)
	}
	s.updated[subjectID] = role
	return nil
}

type stubAudit struct {
	entries []shared.AuditLog
}

func (s *stubAudit) Record(ctx context.Context, log shared.AuditLog) error {
	s.entries = append(s.entries, log)
	return nil
}

type fixedRoles struct {
	role access.Role
}

func (f fixedRoles) Resolve(ctx context.Context, subjectID, email string) access.Role {
	return f.role
}

func newRouter(t *testing.T, role access.Role, subjectID string, userStub *stubUsers, roleStub *stubRoles, auditStub *stubAudit) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sm := shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	guard := access.NewGuard(fixedRoles{role: role}, logger)
	handler := admin.NewHandler(logger, userStub, roleStub, auditStub, guard)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sm.Load(req.Context(), req)
			require.NoError(t, err)
			if subjectID != "" {
				sess.SetSubject(subjectID, subjectID+"@test.local")
			}
			next.ServeHTTP(w, req.WithContext(shared.ContextWithSession(req.Context(), sess)))
		})
	})
	r.Route("/api/admin", handler.MountRoutes)
	return r
}

func TestListUsersAsAdmin(t *testing.T) {
	now := time.Now()
	userStub := &stubUsers{list: []users.User{
		{ID: "subj-1", Email: "admin@test.local", Role: access.RoleAdmin, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: "subj-2", Email: "writer@test.local", Role: access.RoleEditor, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}}
	router := newRouter(t, access.RoleAdmin, "subj-1", userStub, &stubRoles{}, &stubAudit{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Message     string `json:"message"`
		UserCount   int    `json:"userCount"`
		RequestedBy string `json:"requestedBy"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Admin access granted", body.Message)
	assert.Equal(t, 2, body.UserCount)
	assert.Equal(t, "subj-1@test.local", body.RequestedBy)
}

func TestListUsersAsEditorIsForbidden(t *testing.T) {
	router := newRouter(t, access.RoleEditor, "subj-2", &stubUsers{}, &stubRoles{}, &stubAudit{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusForbidden, res.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden: Admin access required", body["error"])
}

func TestListUsersAnonymousIsUnauthorized(t *testing.T) {
	router := newRouter(t, "", "", &stubUsers{}, &stubRoles{}, &stubAudit{})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized: Please login", body["error"])
}

func TestUpdateRole(t *testing.T) {
	roleStub := &stubRoles{}
	auditStub := &stubAudit{}
	router := newRouter(t, access.RoleAdmin, "subj-1", &stubUsers{}, roleStub, auditStub)

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/subj-2/role", strings.NewReader(`{"role":"editor"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, access.RoleEditor, roleStub.updated["subj-2"])

	require.Len(t, auditStub.entries, 1)
	assert.Equal(t, "role.update", auditStub.entries[0].Action)
	assert.Equal(t, "subj-1", auditStub.entries[0].ActorID)
	assert.Equal(t, "subj-2", auditStub.entries[0].EntityID)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	roleStub := &stubRoles{}
	router := newRouter(t, access.RoleAdmin, "subj-1", &stubUsers{}, roleStub, &stubAudit{})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/subj-2/role", strings.NewReader(`{"role":"superuser"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Empty(t, roleStub.updated)
}

func TestUpdateRoleMissingUser(t *testing.T) {
	roleStub := &stubRoles{err: shared.ErrNotFound}
	router := newRouter(t, access.RoleAdmin, "subj-1", &stubUsers{}, roleStub, &stubAudit{})

	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/ghost/role", strings.NewReader(`{"role":"viewer"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusNotFound, res.Code)
}

func TestAdminEcho(t *testing.T) {
	router := newRouter(t, access.RoleAdmin, "subj-1", &stubUsers{}, &stubRoles{}, &stubAudit{})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/users", strings.NewReader(`{"op":"probe"}`))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var body struct {
		Message     string         `json:"message"`
		Data        map[string]any `json:"data"`
		ProcessedBy string         `json:"processedBy"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Admin POST operation completed", body.Message)
	assert.Equal(t, "probe", body.Data["op"])
	assert.Equal(t, "subj-1@test.local", body.ProcessedBy)
}

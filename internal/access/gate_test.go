package access_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/access"
	"github.com/inkwell-cms/inkwell/internal/shared"
	_ "github.com/inkwell-cms/inkwell/testing"
)

// staticRoles resolves every subject to one fixed role.
type staticRoles struct {
	role access.Role
}

func (s staticRoles) Resolve(ctx context.Context, subjectID, email string) access.Role {
	return s.role
}

func newSessionManager(t *testing.T) *shared.SessionManager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return shared.NewSessionManager(client, "test_session", "secret", time.Hour, false)
}

// gateRequest runs one request through the gate with an optional subject.
func gateRequest(t *testing.T, role access.Role, subjectID, path string) *httptest.ResponseRecorder {
	t.Helper()
	sm := newSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	if subjectID != "" {
		sess.SetSubject(subjectID, subjectID+"@test.local")
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	gate := access.NewGate(access.NewClassifier(), staticRoles{role: role}, testLogger(), nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("handler reached"))
	})

	res := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(res, req)
	return res
}

func TestGateAnonymousProtectedPageRedirectsToEntry(t *testing.T) {
	res := gateRequest(t, "", "", "/dashboard")
	assert.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/", res.Header().Get("Location"))
}

func TestGateAnonymousPublicPathPasses(t *testing.T) {
	res := gateRequest(t, "", "", "/")
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "handler reached")
}

func TestGateEditorAdminAPIDeniedAsJSON(t *testing.T) {
	res := gateRequest(t, access.RoleEditor, "subj-1", "/api/admin/users")
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden: Admin access required", body["error"])
}

func TestGateAnonymousAdminAPIDeniedAsJSONNotRedirect(t *testing.T) {
	// The edge gate answers a uniform 403 for admin API paths even when no
	// session is present; API clients never receive an HTML redirect.
	res := gateRequest(t, "", "", "/api/admin/users")
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
}

func TestGateViewerAdminPageRedirectsToDashboard(t *testing.T) {
	res := gateRequest(t, access.RoleViewer, "subj-2", "/dashboard/users")
	assert.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/dashboard", res.Header().Get("Location"))
}

func TestGateAdminReachesAdminSurface(t *testing.T) {
	res := gateRequest(t, access.RoleAdmin, "subj-3", "/dashboard/users")
	assert.Equal(t, http.StatusOK, res.Code)

	res = gateRequest(t, access.RoleAdmin, "subj-3", "/api/admin/users")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestGateAuthenticatedEntryPointRedirectsToDashboard(t *testing.T) {
	for _, role := range access.Roles() {
		res := gateRequest(t, role, "subj-4", "/")
		assert.Equal(t, http.StatusFound, res.Code, "role %s", role)
		assert.Equal(t, "/dashboard", res.Header().Get("Location"))

		res = gateRequest(t, role, "subj-4", "/auth/login")
		assert.Equal(t, http.StatusFound, res.Code, "role %s", role)
		assert.Equal(t, "/dashboard", res.Header().Get("Location"))
	}
}

func TestGateViewerReachesProtectedPages(t *testing.T) {
	res := gateRequest(t, access.RoleViewer, "subj-5", "/dashboard/articles")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestGateSkipsExcludedPaths(t *testing.T) {
	res := gateRequest(t, "", "", "/static/app.css")
	assert.Equal(t, http.StatusOK, res.Code)

	res = gateRequest(t, "", "", "/favicon.ico")
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestGateUnlistedPathFailsClosed(t *testing.T) {
	res := gateRequest(t, "", "", "/internal-tools")
	assert.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/", res.Header().Get("Location"))
}

// panicRoles simulates an unexpected provider outage inside the gate.
type panicRoles struct{}

func (panicRoles) Resolve(ctx context.Context, subjectID, email string) access.Role {
	panic("role backend unreachable")
}

func TestGateInternalFailureFailsClosed(t *testing.T) {
	sm := newSessionManager(t)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	sess.SetSubject("subj-6", "subj-6@test.local")
	req = req.WithContext(shared.ContextWithSession(req.Context(), sess))

	gate := access.NewGate(access.NewClassifier(), panicRoles{}, testLogger(), nil)
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { reached = true })

	res := httptest.NewRecorder()
	gate.Middleware(next).ServeHTTP(res, req)

	assert.False(t, reached, "handler must not run after a gate failure")
	assert.Equal(t, http.StatusFound, res.Code)
}

package app_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/internal/app"
	"github.com/inkwell-cms/inkwell/internal/shared"
)

func newStackRouter(t *testing.T) http.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	r := chi.NewRouter()
	for _, mw := range app.MiddlewareStack(app.MiddlewareConfig{
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		SessionManager: shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false),
		CSRFManager:    shared.NewCSRFManager("csrfsecret"),
	}) {
		r.Use(mw)
	}
	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	r.Post("/api/admin/echo", ok)
	r.Post("/dashboard/articles", ok)
	return r
}

func TestCSRFRejectionIsJSONOnAPIPaths(t *testing.T) {
	router := newStackRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/echo", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Contains(t, res.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "CSRF")
}

func TestCSRFRejectionIsPlainTextOnPages(t *testing.T) {
	router := newStackRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/dashboard/articles", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.NotContains(t, res.Header().Get("Content-Type"), "application/json")
}

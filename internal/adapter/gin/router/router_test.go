package router

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"user-directory-service/internal/adapter/db/postgres"
	"user-directory-service/internal/adapter/db/postgres/pgtest"
	"user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/adapter/resolver"
	"user-directory-service/internal/usecase/user"
)

func newRouter(t *testing.T, health HealthCheck) *gin.Engine {
	t.Helper()
	log := zaptest.NewLogger(t)
	svc := user.New(postgres.NewUserRepoPG(pgtest.NewDB(t), log), log, nil)
	return SetupRouter(
		handler.NewOperationHandler(resolver.New(svc, log), log),
		handler.NewUserHandler(svc, log),
		nil,
		health,
		log,
	)
}

func TestRouter_Health(t *testing.T) {
	r := newRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestRouter_HealthUnavailable(t *testing.T) {
	r := newRouter(t, func(*gin.Context) error { return errors.New("db down") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestRouter_MetricsExposed(t *testing.T) {
	r := newRouter(t, nil)

	body := bytes.NewBufferString(`{"operation":"getUserCount"}`)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", body))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user_operations_total")
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestRouter_RoutesRegistered(t *testing.T) {
	r := newRouter(t, nil)

	got := map[string]bool{}
	for _, route := range r.Routes() {
		got[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"POST /graphql", "GET /graphql",
		"GET /v1/users", "POST /v1/users", "GET /v1/users/count",
		"GET /v1/users/:id", "PUT /v1/users/:id", "DELETE /v1/users/:id",
	} {
		assert.True(t, got[want], want)
	}
}

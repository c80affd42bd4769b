package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	"user-directory-service/internal/adapter/db/postgres"
	"user-directory-service/internal/adapter/db/postgres/pgtest"
	"user-directory-service/internal/adapter/resolver"
	"user-directory-service/internal/usecase/user"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	db := pgtest.NewDB(t)
	svc := user.New(postgres.NewUserRepoPG(db, log), log, clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))

	users := NewUserHandler(svc, log)
	ops := NewOperationHandler(resolver.New(svc, log), log)

	r := gin.New()
	r.POST("/graphql", ops.Execute)
	r.GET("/graphql", ops.Query)
	r.GET("/v1/users", users.ListUsers)
	r.POST("/v1/users", users.CreateUser)
	r.GET("/v1/users/count", users.CountUsers)
	r.GET("/v1/users/:id", users.GetUser)
	r.PUT("/v1/users/:id", users.UpdateUser)
	r.DELETE("/v1/users/:id", users.DeleteUser)

	return testEnv{router: r, db: db}
}

func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestUserHandler_CreateAndGet(t *testing.T) {
	env := setupEnv(t)

	w := env.do(t, http.MethodPost, "/v1/users", UserRequest{Name: "John Doe", Email: "john@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[resolver.UserView](t, w)
	assert.Equal(t, "2024-05-01T09:00:00", created.CreatedAt)

	w = env.do(t, http.MethodGet, "/v1/users/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created, decode[resolver.UserView](t, w))
}

func TestUserHandler_ErrorStatuses(t *testing.T) {
	env := setupEnv(t)
	env.do(t, http.MethodPost, "/v1/users", UserRequest{Name: "John Doe", Email: "john@example.com"})

	tests := []struct {
		name         string
		method       string
		path         string
		body         any
		wantStatus   int
		wantCategory string
		wantMessage  string
	}{
		{"unknown id", http.MethodGet, "/v1/users/9999", nil, http.StatusNotFound, "not-found", "User not found with id: 9999"},
		{"bad id", http.MethodGet, "/v1/users/abc", nil, http.StatusBadRequest, "bad-request", "Invalid argument: id must be an integer"},
		{"duplicate", http.MethodPost, "/v1/users", UserRequest{Name: "Other", Email: "john@example.com"}, http.StatusBadRequest, "bad-request", "Email already exists: john@example.com"},
		{"validation", http.MethodPost, "/v1/users", UserRequest{Name: " ", Email: "bad"}, http.StatusBadRequest, "bad-request", "Validation failed: Name is required; Email must be valid"},
		{"malformed body", http.MethodPost, "/v1/users", "{", http.StatusBadRequest, "bad-request", "Invalid argument: body must be a JSON user object"},
		{"update unknown", http.MethodPut, "/v1/users/42", UserRequest{Name: "Ghost", Email: "ghost@example.com"}, http.StatusNotFound, "not-found", "User not found with id: 42"},
		{"delete unknown", http.MethodDelete, "/v1/users/42", nil, http.StatusNotFound, "not-found", "User not found with id: 42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			e := decode[resolver.ErrorEntry](t, w)
			assert.Equal(t, tt.wantCategory, e.Category)
			assert.Equal(t, tt.wantMessage, e.Message)
		})
	}
}

func TestUserHandler_ListSearchCount(t *testing.T) {
	env := setupEnv(t)
	env.do(t, http.MethodPost, "/v1/users", UserRequest{Name: "John Doe", Email: "john@example.com"})
	env.do(t, http.MethodPost, "/v1/users", UserRequest{Name: "Jane", Email: "jane@example.com"})

	all := decode[ListUsersResponse](t, env.do(t, http.MethodGet, "/v1/users", nil))
	assert.Equal(t, 2, all.Total)

	found := decode[ListUsersResponse](t, env.do(t, http.MethodGet, "/v1/users?name=john", nil))
	require.Len(t, found.Users, 1)
	assert.Equal(t, "John Doe", found.Users[0].Name)

	count := decode[map[string]int64](t, env.do(t, http.MethodGet, "/v1/users/count", nil))
	assert.Equal(t, int64(2), count["count"])
}

func TestUserHandler_UpdateAndDelete(t *testing.T) {
	env := setupEnv(t)
	env.do(t, http.MethodPost, "/v1/users", UserRequest{Name: "John Doe", Email: "john@example.com"})

	phone := "+1555"
	w := env.do(t, http.MethodPut, "/v1/users/1", UserRequest{Name: "Johnny", Email: "john@example.com", Phone: &phone})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "+1555", *decode[resolver.UserView](t, w).Phone)

	w = env.do(t, http.MethodDelete, "/v1/users/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]bool{"deleted": true}, decode[map[string]bool](t, w))

	w = env.do(t, http.MethodDelete, "/v1/users/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserHandler_InternalError(t *testing.T) {
	env := setupEnv(t)
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := env.do(t, http.MethodGet, "/v1/users", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	e := decode[resolver.ErrorEntry](t, w)
	assert.Equal(t, "internal-error", e.Category)
	assert.Equal(t, "Internal server error occurred", e.Message)
	assert.NotContains(t, w.Body.String(), "sql")
}

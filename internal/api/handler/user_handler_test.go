package handler

import (
	"context"
	"net/http"
	"testing"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRouter(t *testing.T, actor *models.User) (*gin.Engine, *repository.MockUserRepository) {
	t.Helper()

	repo := repository.NewMockUserRepository()
	if actor != nil {
		require.NoError(t, repo.Create(context.Background(), actor))
	}

	r := gin.New()
	r.Use(injectUser(actor))
	NewUserHandler(service.NewUserService(repo)).
		RegisterRoutes(r.Group("/api/v1/users"), requireAuth, middleware.RequireAdmin())
	return r, repo
}

func adminActor() *models.User {
	return &models.User{ID: "admin-1", Username: "boss", Email: "boss@example.com", Role: models.RoleAdmin}
}

func TestUserAdminEndpointsRequireAdmin(t *testing.T) {
	plain := &models.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	r, _ := newUserRouter(t, plain)

	w := performJSON(t, r, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(t, r, http.MethodPost, "/api/v1/users",
		dto.CreateUserDTO{Username: "new", Email: "new@example.com"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserAdminEndpointsRequireToken(t *testing.T) {
	r, _ := newUserRouter(t, nil)

	w := performJSON(t, r, http.MethodGet, "/api/v1/users", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = performJSON(t, r, http.MethodGet, "/api/v1/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUserAdminCRUD(t *testing.T) {
	r, _ := newUserRouter(t, adminActor())

	w := performJSON(t, r, http.MethodPost, "/api/v1/users",
		dto.CreateUserDTO{Username: "alice", Email: "alice@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performJSON(t, r, http.MethodGet, "/api/v1/users/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.UserResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, models.RoleUser, resp.Role)

	w = performJSON(t, r, http.MethodPatch, "/api/v1/users/alice",
		map[string]string{"role": models.RoleModerator})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &resp)
	assert.Equal(t, models.RoleModerator, resp.Role)

	w = performJSON(t, r, http.MethodGet, "/api/v1/users?search=ali", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.Page
	decodeBody(t, w, &page)
	assert.EqualValues(t, 1, page.Count)

	w = performJSON(t, r, http.MethodDelete, "/api/v1/users/alice", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performJSON(t, r, http.MethodGet, "/api/v1/users/alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserPutIsMethodNotAllowed(t *testing.T) {
	r, _ := newUserRouter(t, adminActor())

	w := performJSON(t, r, http.MethodPut, "/api/v1/users/alice",
		map[string]string{"username": "alice"})
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestMeEndpoint(t *testing.T) {
	plain := &models.User{ID: "u-1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	r, _ := newUserRouter(t, plain)

	w := performJSON(t, r, http.MethodGet, "/api/v1/users/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.UserResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, "alice", resp.Username)

	t.Run("role change by plain user is dropped", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPatch, "/api/v1/users/me",
			map[string]string{"bio": "hello", "role": models.RoleAdmin})
		require.Equal(t, http.StatusOK, w.Code)

		var resp dto.UserResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, models.RoleUser, resp.Role)
		require.NotNil(t, resp.Bio)
		assert.Equal(t, "hello", *resp.Bio)
	})
}

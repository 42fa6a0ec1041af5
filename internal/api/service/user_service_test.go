package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func seedUser(t *testing.T, repo *repository.MockUserRepository, username, role string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@example.com", Role: role}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestUserServiceCreate(t *testing.T) {
	repo := repository.NewMockUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	t.Run("defaults to the user role", func(t *testing.T) {
		u, err := svc.Create(ctx, CreateUserInput{Username: "alice", Email: "alice@example.com"})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, u.Role)
	})

	t.Run("honors an explicit role", func(t *testing.T) {
		u, err := svc.Create(ctx, CreateUserInput{
			Username: "mod", Email: "mod@example.com", Role: ptr(models.RoleModerator),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, u.Role)
	})

	t.Run("rejects unknown roles", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserInput{
			Username: "x", Email: "x@example.com", Role: ptr("overlord"),
		})
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "role")
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateUserInput{Username: "alice", Email: "fresh@example.com"})
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "username")

		_, err = svc.Create(ctx, CreateUserInput{Username: "fresh", Email: "alice@example.com"})
		fe, ok = AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "email")
	})
}

func TestUserServiceUpdate(t *testing.T) {
	repo := repository.NewMockUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()
	seedUser(t, repo, "alice", models.RoleUser)

	u, err := svc.Update(ctx, "alice", UserPatch{
		Bio:  ptr("reads a lot"),
		Role: ptr(models.RoleModerator),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, u.Role)
	require.NotNil(t, u.Bio)
	assert.Equal(t, "reads a lot", *u.Bio)

	_, err = svc.Update(ctx, "ghost", UserPatch{Bio: ptr("x")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserServiceUpdateRejectsTakenUsername(t *testing.T) {
	repo := repository.NewMockUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()
	seedUser(t, repo, "alice", models.RoleUser)
	seedUser(t, repo, "bob", models.RoleUser)

	_, err := svc.Update(ctx, "bob", UserPatch{Username: ptr("alice")})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "username")
}

func TestUserServiceDelete(t *testing.T) {
	repo := repository.NewMockUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()
	seedUser(t, repo, "alice", models.RoleUser)

	require.NoError(t, svc.Delete(ctx, "alice"))
	assert.ErrorIs(t, svc.Delete(ctx, "alice"), ErrUserNotFound)
}

func TestUpdateProfilePinsRole(t *testing.T) {
	repo := repository.NewMockUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	t.Run("plain user cannot self-promote", func(t *testing.T) {
		actor := seedUser(t, repo, "alice", models.RoleUser)
		u, err := svc.UpdateProfile(ctx, actor, UserPatch{
			Bio:  ptr("hi"),
			Role: ptr(models.RoleAdmin),
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, u.Role)
		require.NotNil(t, u.Bio)
		assert.Equal(t, "hi", *u.Bio)
	})

	t.Run("admin may change own role", func(t *testing.T) {
		actor := seedUser(t, repo, "boss", models.RoleAdmin)
		u, err := svc.UpdateProfile(ctx, actor, UserPatch{Role: ptr(models.RoleModerator)})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, u.Role)
	})

	t.Run("staff override counts as admin", func(t *testing.T) {
		actor := seedUser(t, repo, "staffer", models.RoleUser)
		actor.IsStaff = true
		require.NoError(t, repo.Update(ctx, actor))

		u, err := svc.UpdateProfile(ctx, actor, UserPatch{Role: ptr(models.RoleModerator)})
		require.NoError(t, err)
		assert.Equal(t, models.RoleModerator, u.Role)
	})
}

func TestUserServiceList(t *testing.T) {
	repo := repository.NewMockUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()
	seedUser(t, repo, "alice", models.RoleUser)
	seedUser(t, repo, "alina", models.RoleUser)
	seedUser(t, repo, "bob", models.RoleUser)

	users, total, err := svc.List(ctx, "ali", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
}

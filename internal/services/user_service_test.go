package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/lexicon/internal/auth"
	"github.com/mrlokans/lexicon/internal/entities"
)

func TestUserService_AddUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	user := &entities.User{Email: " tester@example.com "}
	require.NoError(t, env.users.AddUser(ctx, user))

	assert.NotZero(t, user.ID)
	assert.Equal(t, "tester@example.com", user.Email)
	assert.Equal(t, "tester@example.com", user.Username)
	assert.Equal(t, entities.UserRoleEditor, user.Role)
}

func TestUserService_AddUser_Errors(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.users.AddUser(ctx, &entities.User{Username: "first", Email: "taken@example.com"}))

	t.Run("duplicate email", func(t *testing.T) {
		err := env.users.AddUser(ctx, &entities.User{Username: "second", Email: "taken@example.com"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := env.users.AddUser(ctx, &entities.User{Username: "first", Email: "free@example.com"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("missing email", func(t *testing.T) {
		err := env.users.AddUser(ctx, &entities.User{Username: "nobody"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("malformed email", func(t *testing.T) {
		err := env.users.AddUser(ctx, &entities.User{Email: "not-an-email"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("unknown role", func(t *testing.T) {
		err := env.users.AddUser(ctx, &entities.User{Email: "role@example.com", Role: "owner"})
		assert.ErrorIs(t, err, ErrValidation)
	})

	assert.Equal(t, int64(1), env.countRows(t, &entities.User{}))
}

func TestUserService_GetByEmail(t *testing.T) {
	env := setupTestEnv(t)
	_, created := env.loginAs(t, "tester@example.com")
	ctx := context.Background()

	user, err := env.users.GetByEmail(ctx, "tester@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = env.users.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	byID, err := env.users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "tester@example.com", byID.Email)

	_, err = env.users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_CurrentUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx, created := env.loginAs(t, "tester@example.com")

	user, err := env.users.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	_, err = env.users.CurrentUser(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.users.CurrentUser(auth.WithPrincipal(context.Background(), "ghost@example.com"))
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_EnsureUser(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.users.EnsureUser(ctx, "default@localhost.localdomain", entities.UserRoleAdmin)
	require.NoError(t, err)
	second, err := env.users.EnsureUser(ctx, "default@localhost.localdomain", entities.UserRoleAdmin)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, entities.UserRoleAdmin, second.Role)
	assert.Equal(t, int64(1), env.countRows(t, &entities.User{}))
}

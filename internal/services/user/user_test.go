package services_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-manager/internal/lib/password"
	"github.com/magabrotheeeer/gym-manager/internal/models"
	services "github.com/magabrotheeeer/gym-manager/internal/services/user"
	"github.com/magabrotheeeer/gym-manager/internal/storage/memory"
)

func newService() (*services.UserService, *memory.Storage) {
	store := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return services.NewUserService(store, log), store
}

func staffRequest(username string) models.StaffRequest {
	return models.StaffRequest{
		Name:     "Front Desk",
		Role:     models.RoleUser,
		Gender:   models.GenderFemale,
		Username: username,
		Password: "secret123",
	}
}

func TestCreate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	user, err := svc.Create(ctx, staffRequest("desk"))
	require.NoError(t, err)
	assert.True(t, user.IsSystemUser)
	require.NotNil(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", *user.PasswordHash)
	assert.NoError(t, password.CompareHash(*user.PasswordHash, "secret123"))

	_, err = svc.Create(ctx, staffRequest("desk"))
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	noPassword := staffRequest("other")
	noPassword.Password = ""
	_, err = svc.Create(ctx, noPassword)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	desk, err := svc.Create(ctx, staffRequest("desk"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, staffRequest("manager"))
	require.NoError(t, err)

	t.Run("keeps hash when password is empty", func(t *testing.T) {
		req := staffRequest("desk")
		req.Password = ""
		req.Role = models.RoleAdmin
		updated, err := svc.Update(ctx, desk.ID, req)
		require.NoError(t, err)
		assert.Equal(t, models.RoleAdmin, updated.Role)
		assert.Equal(t, *desk.PasswordHash, *updated.PasswordHash)
	})

	t.Run("rehashes new password", func(t *testing.T) {
		req := staffRequest("desk")
		req.Password = "changed456"
		updated, err := svc.Update(ctx, desk.ID, req)
		require.NoError(t, err)
		assert.NoError(t, password.CompareHash(*updated.PasswordHash, "changed456"))
	})

	t.Run("username collision", func(t *testing.T) {
		_, err := svc.Update(ctx, desk.ID, staffRequest("manager"))
		assert.ErrorIs(t, err, models.ErrUsernameTaken)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", staffRequest("ghost"))
		assert.ErrorIs(t, err, models.ErrUserNotFound)
	})
}

func TestScope(t *testing.T) {
	svc, store := newService()
	ctx := context.Background()

	trainee := models.User{ID: "trainee-1", Name: "Ali", Gender: models.GenderMale}
	require.NoError(t, store.CreateUser(ctx, trainee))

	_, err := svc.Get(ctx, trainee.ID)
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	_, err = svc.Update(ctx, trainee.ID, staffRequest("ali"))
	assert.ErrorIs(t, err, models.ErrInvalidScope)

	assert.ErrorIs(t, svc.Delete(ctx, trainee.ID), models.ErrInvalidScope)

	_, err = store.GetUser(ctx, trainee.ID)
	assert.NoError(t, err, "trainee must survive staff operations")
}

func TestGetByUsernameAndDelete(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	desk, err := svc.Create(ctx, staffRequest("desk"))
	require.NoError(t, err)

	got, err := svc.GetByUsername(ctx, "desk")
	require.NoError(t, err)
	assert.Equal(t, desk.ID, got.ID)

	require.NoError(t, svc.Delete(ctx, desk.ID))
	_, err = svc.Get(ctx, desk.ID)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	_, err = svc.GetByUsername(ctx, "desk")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

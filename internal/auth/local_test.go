package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/db/models"
)

func TestLocalProvider(t *testing.T) {
	ctx := context.Background()
	conn := setupTestDB(t)
	provider := auth.NewLocalProvider(conn)

	user, err := provider.CreateUser(ctx, auth.NewUser{
		Email:         " Manager@Example.com ",
		Password:      "s3cret-pass",
		FullName:      "Mia Manager",
		ManagedClubID: ptr(7),
	})
	require.NoError(t, err)
	assert.Equal(t, "manager@example.com", user.Email)
	assert.True(t, user.Active)
	assert.NotEqual(t, "s3cret-pass", user.Password)

	_, err = provider.CreateUser(ctx, auth.NewUser{Email: "MANAGER@example.com", Password: "x"})
	require.ErrorIs(t, err, auth.ErrUserEmailExists)

	got, err := provider.Authenticate(ctx, "manager@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	require.NotNil(t, got.ManagedClubID)
	assert.Equal(t, uint64(7), *got.ManagedClubID)

	_, err = provider.Authenticate(ctx, "manager@example.com", "wrong")
	require.ErrorIs(t, err, auth.ErrInvalidPassword)

	_, err = provider.Authenticate(ctx, "ghost@example.com", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrUserNotFound)

	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)

	_, err = provider.Authenticate(ctx, "manager@example.com", "s3cret-pass")
	require.ErrorIs(t, err, auth.ErrUserAccountDisabled)

	byEmail, err := provider.GetUserByEmail(ctx, "Manager@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = provider.GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, auth.ErrUserNotFound)
}

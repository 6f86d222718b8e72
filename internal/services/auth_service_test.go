package services

import (
	"testing"
	"time"

	"onboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndValidateToken(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.users, "test_secret", time.Hour)

	user, err := env.userSvc.CreateUser(env.admin.ID, CreateUserInput{
		Username: "ivanov",
		Password: "secret",
		Role:     models.RoleTutor,
	})
	require.NoError(t, err)

	result, err := auth.Login("ivanov", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, "tutor", result.Role)
	require.NotEmpty(t, result.Token)

	got, err := auth.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.users, "test_secret", time.Hour)

	_, err := env.userSvc.CreateUser(env.admin.ID, CreateUserInput{
		Username: "ivanov",
		Password: "secret",
		Role:     models.RoleTutor,
	})
	require.NoError(t, err)

	_, err = auth.Login("ivanov", "wrong")
	assert.ErrorIs(t, err, errBadCredentials)

	_, err = auth.Login("nobody", "secret")
	assert.ErrorIs(t, err, errBadCredentials)
}

func TestValidateTokenRejectsForgery(t *testing.T) {
	env := newTestEnv(t)
	auth := NewAuthService(env.users, "test_secret", time.Hour)
	forger := NewAuthService(env.users, "other_secret", time.Hour)

	_, err := env.userSvc.CreateUser(env.admin.ID, CreateUserInput{
		Username: "ivanov",
		Password: "secret",
		Role:     models.RoleTutor,
	})
	require.NoError(t, err)

	result, err := forger.Login("ivanov", "secret")
	require.NoError(t, err)

	_, err = auth.ValidateToken(result.Token)
	assert.Error(t, err)

	_, err = auth.ValidateToken("not a token")
	assert.Error(t, err)
}

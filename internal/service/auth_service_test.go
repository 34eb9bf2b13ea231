package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satyamkumarjha2002/help-desk-portal/internal/config"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeResetTokenStore) {
	t.Helper()
	users := newFakeUserRepo()
	resets := newFakeResetTokenStore()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:               "test-secret",
		AccessTokenTTLMinutes:   15,
		PasswordResetTTLMinutes: 10,
		BcryptCost:              4,
	}}
	return NewAuthService(cfg, users, resets), users, resets
}

func TestRegisterCreatesEndUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	user, token, _, err := svc.Register(context.Background(), "Rina", "rina@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEndUser, user.Role)
	assert.True(t, user.Active)
	assert.NotEmpty(t, token)

	_, _, _, err = svc.Register(context.Background(), "Rina", "rina@example.com", "hunter2hunter2")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", errCode(t, err))
}

func TestLoginRejectsBadCredentialsAndInactive(t *testing.T) {
	svc, users, _ := newAuthFixture(t)
	user, _, _, err := svc.Register(context.Background(), "Rina", "rina@example.com", "hunter2hunter2")
	require.NoError(t, err)

	_, _, _, err = svc.Login(context.Background(), "rina@example.com", "wrong-password")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	_, _, _, err = svc.Login(context.Background(), "rina@example.com", "hunter2hunter2")
	require.NoError(t, err)

	stored := users.users[user.ID]
	stored.Active = false
	_, _, _, err = svc.Login(context.Background(), "rina@example.com", "hunter2hunter2")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestPasswordResetTokenIsSingleUse(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	_, _, _, err := svc.Register(context.Background(), "Rina", "rina@example.com", "hunter2hunter2")
	require.NoError(t, err)

	token, err := svc.RequestPasswordReset(context.Background(), "rina@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), token, "brand-new-pass"))

	_, _, _, err = svc.Login(context.Background(), "rina@example.com", "brand-new-pass")
	require.NoError(t, err)

	// A consumed token cannot be replayed.
	err = svc.ConfirmPasswordReset(context.Background(), token, "another-pass")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	user, _, _, err := svc.Register(context.Background(), "Rina", "rina@example.com", "hunter2hunter2")
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, "wrong", "new-pass-word")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", errCode(t, err))

	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "hunter2hunter2", "new-pass-word"))
	_, _, _, err = svc.Login(context.Background(), "rina@example.com", "new-pass-word")
	require.NoError(t, err)
}

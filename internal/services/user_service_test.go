package services

import (
	"testing"

	"parish-backend/internal/apperr"
	"parish-backend/internal/auth"
	"parish-backend/internal/config"
	"parish-backend/internal/logger"
	"parish-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(f *fixture) *UserService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "parish-backend"
	cfg.JWT.ExpirationHours = 1
	return NewUserService(f.store, auth.NewJWTManager(cfg), f.clock, logger.Nop())
}

func TestEnsureAdminCreatesOnce(t *testing.T) {
	f := newFixture(t)
	users := newUserService(f)

	require.NoError(t, users.EnsureAdmin(f.ctx, "admin", "first-password", "Parish Office"))
	require.NoError(t, users.EnsureAdmin(f.ctx, "ADMIN", "second-password", "Someone Else"))

	u, err := f.store.GetUserByUsername(f.ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Parish Office", u.Name)
	assert.True(t, auth.VerifyPassword(u.PasswordHash, "first-password"))

	require.NoError(t, users.EnsureAdmin(f.ctx, "", "", ""))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	users := newUserService(f)
	require.NoError(t, users.EnsureAdmin(f.ctx, "secretary", "s3cret-pass", "Office Secretary"))

	res, err := users.Login(f.ctx, &models.LoginRequest{Username: "Secretary", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "secretary", res.User.Username)

	claims, err := users.JWTManager.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "secretary", claims.Username)

	_, err = users.Login(f.ctx, &models.LoginRequest{Username: "secretary", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = users.Login(f.ctx, &models.LoginRequest{Username: "nobody", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = users.Login(f.ctx, &models.LoginRequest{Username: "secretary"})
	assert.True(t, apperr.IsValidation(err))
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	f := newFixture(t)
	users := newUserService(f)
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, f.store.CreateUser(f.ctx, &models.User{ID: "u2", Username: "former", PasswordHash: hash, IsActive: false}))

	_, err = users.Login(f.ctx, &models.LoginRequest{Username: "former", Password: "s3cret-pass"})
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
	_, err = users.GetActiveUser(f.ctx, "former")
	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

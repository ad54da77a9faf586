package services

import (
	"context"
	"errors"
	"strings"

	"parish-backend/internal/apperr"
	"parish-backend/internal/auth"
	"parish-backend/internal/models"
	"parish-backend/internal/repositories"
	"parish-backend/internal/timeutil"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type UserService struct {
	Store      repositories.UserStore
	JWTManager *auth.JWTManager
	Clock      timeutil.Clock
	log        zerolog.Logger
}

func NewUserService(store repositories.UserStore, jwtManager *auth.JWTManager, clock timeutil.Clock, log zerolog.Logger) *UserService {
	return &UserService{
		Store:      store,
		JWTManager: jwtManager,
		Clock:      clock,
		log:        log,
	}
}

// Login checks the credentials and returns a signed token. Unknown users,
// wrong passwords and disabled accounts all fail the same way.
func (s *UserService) Login(ctx context.Context, in *models.LoginRequest) (*models.AuthResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, apperr.Required("username", "Username and password are required.")
	}
	user, err := s.Store.GetUserByUsername(ctx, username)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive || !auth.VerifyPassword(user.PasswordHash, in.Password) {
		s.log.Warn().Str("username", username).Msg("Failed login attempt")
		return nil, apperr.ErrInvalidCredentials
	}

	token, err := s.JWTManager.GenerateToken(user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("username", user.Username).Msg("Admin logged in")
	return &models.AuthResponse{Token: token, User: user}, nil
}

// GetActiveUser returns the account a token was issued to, failing for
// accounts that were disabled since.
func (s *UserService) GetActiveUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.Store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, apperr.ErrInvalidCredentials
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap account when it does not exist yet. An
// existing account is never modified.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password, name string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.log.Warn().Msg("No bootstrap admin configured")
		return nil
	}
	_, err := s.Store.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Name:         firstText(name, username),
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.Clock.Now(),
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		return err
	}
	s.log.Info().Str("username", username).Msg("Bootstrap admin created")
	return nil
}

package auth

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tienda/internal/core/apperror"
	"tienda/pkg/logger"
)

// Service provides authentication operations.
type Service struct {
	users UserRepository
	jwt   *JWTService
}

// NewService creates a new auth service.
func NewService(users UserRepository, jwt *JWTService) *Service {
	return &Service{
		users: users,
		jwt:   jwt,
	}
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// Same failure regardless of whether the user exists.
		return "", time.Time{}, apperror.NewUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", time.Time{}, apperror.NewUnauthorized("invalid credentials")
	}

	token, expiresAt, err := s.jwt.GenerateAccessToken(user)
	if err != nil {
		return "", time.Time{}, apperror.NewInternal(err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "username", user.Username)
	return token, expiresAt, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

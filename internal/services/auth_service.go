package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/drivent/booking-backend/internal/models"
)

// UserFinder looks up accounts by email
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionCreator persists issued tokens
type SessionCreator interface {
	Create(ctx context.Context, userID int, token string) (*models.Session, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(userID int) (string, error)
}

// AuthService handles sign-in
type AuthService struct {
	users    UserFinder
	sessions SessionCreator
	tokens   TokenIssuer
	logger   logrus.FieldLogger
}

// NewAuthService creates a new auth service
func NewAuthService(users UserFinder, sessions SessionCreator, tokens TokenIssuer, logger logrus.FieldLogger) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		logger:   logger,
	}
}

// SignIn checks the credentials, issues a token and records a session for it
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.SignInResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.WithField("user_id", user.ID).Info("Sign-in rejected: wrong password")
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if _, err := s.sessions.Create(ctx, user.ID, token); err != nil {
		return nil, err
	}

	s.logger.WithField("user_id", user.ID).Info("User signed in")

	return &models.SignInResponse{
		User:  models.SignInUser{ID: user.ID, Email: user.Email},
		Token: token,
	}, nil
}

package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"jewelstore/internal/domain"
	adminrepo "jewelstore/internal/repository/admin"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided session token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
)

// Service gates administrative mutations behind login sessions.
type Service struct {
	repo       adminrepo.Repository
	tokens     *tokenManager
	sessionTTL time.Duration
}

func New(repo adminrepo.Repository) *Service {
	return &Service{
		repo:       repo,
		tokens:     newTokenManager(),
		sessionTTL: 12 * time.Hour,
	}
}

// Login verifies credentials and issues an opaque session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(user.ID, s.sessionTTL)
}

// Validate resolves a session token to the admin user ID.
func (s *Service) Validate(ctx context.Context, token string) (string, error) {
	meta, ok := s.tokens.Validate(token)
	if !ok {
		return "", ErrInvalidToken
	}
	return meta.AdminID, nil
}

// Logout revokes the session token. Revoking an unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) {
	s.tokens.Revoke(token)
}

// Register creates an admin account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (*domain.AdminUser, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, domain.Invalid("email", "required")
	}
	if len(password) < 8 {
		return nil, domain.Invalid("password", "must be at least 8 characters")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, email, string(hashed))
}

// SessionTTLSeconds reports the session lifetime for cookie max-age values.
func (s *Service) SessionTTLSeconds() int {
	return int(s.sessionTTL.Seconds())
}

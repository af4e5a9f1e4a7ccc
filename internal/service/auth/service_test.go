package auth

import (
	"context"
	"errors"
	"testing"

	"jewelstore/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

type stubRepo struct {
	user      *domain.AdminUser
	getErr    error
	created   *domain.AdminUser
	createErr error
	lastEmail string
}

func (s *stubRepo) GetByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	s.lastEmail = email
	return s.user, s.getErr
}

func (s *stubRepo) Create(_ context.Context, email, _ string) (*domain.AdminUser, error) {
	s.lastEmail = email
	return s.created, s.createErr
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return string(h)
}

func TestLoginHappyPath(t *testing.T) {
	repo := &stubRepo{user: &domain.AdminUser{ID: "a1", Email: "admin@example.com", PasswordHash: hashed(t, "secret123")}}
	svc := New(repo)

	token, err := svc.Login(context.Background(), "  Admin@Example.com ", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a session token")
	}
	if repo.lastEmail != "admin@example.com" {
		t.Fatalf("email not normalized: %q", repo.lastEmail)
	}

	adminID, err := svc.Validate(context.Background(), token)
	if err != nil || adminID != "a1" {
		t.Fatalf("validate: id=%q err=%v", adminID, err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo := &stubRepo{user: &domain.AdminUser{ID: "a1", PasswordHash: hashed(t, "secret123")}}
	svc := New(repo)
	if _, err := svc.Login(context.Background(), "admin@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := New(&stubRepo{getErr: domain.ErrNotFound})
	if _, err := svc.Login(context.Background(), "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	repo := &stubRepo{user: &domain.AdminUser{ID: "a1", PasswordHash: hashed(t, "secret123")}}
	svc := New(repo)

	token, err := svc.Login(context.Background(), "admin@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	svc.Logout(context.Background(), token)
	if _, err := svc.Validate(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token after logout, got %v", err)
	}
	// Revoking again is harmless.
	svc.Logout(context.Background(), token)
}

func TestRegisterValidation(t *testing.T) {
	svc := New(&stubRepo{})
	if _, err := svc.Register(context.Background(), "", "secret123"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for empty email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "admin@example.com", "short"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

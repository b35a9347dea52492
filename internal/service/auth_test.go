package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pawtrail/rescue/internal/domain"
	"github.com/pawtrail/rescue/internal/service"
)

const testJWTSecret = "test-secret-key-for-unit-tests"

func newTestAuthService(t *testing.T) *service.AuthService {
	t.Helper()

	env := newTestEnv(t)
	// Use cost 4 for fast tests.
	return service.NewAuthService(env.users, testJWTSecret, 4)
}

func TestAuthService_Register_Success(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "new@example.com", "New Volunteer", "password123", "+46701234567")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", user.Email)
	}
	if user.Phone != "+46701234567" {
		t.Fatalf("expected phone to be stored, got %s", user.Phone)
	}
	if user.PasswordHash == "password123" {
		t.Fatal("password must not be stored in plaintext")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "dup@example.com", "User 1", "password123", "")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err = auth.Register(ctx, "dup@example.com", "User 2", "password456", "")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "weak@example.com", "Weak", "short", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Register_MissingFields(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	_, err := auth.Register(ctx, "", "Name", "password123", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing email, got %v", err)
	}
	_, err = auth.Register(ctx, "a@example.com", "", "password123", "")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for missing display name, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	user, err := auth.Register(ctx, "login@example.com", "Login User", "password123", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	token, err := auth.Login(ctx, "login@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if userID != user.ID {
		t.Fatalf("expected user ID %d, got %d", user.ID, userID)
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "wrong@example.com", "User", "password123", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := auth.Login(ctx, "wrong@example.com", "nottherightone")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	auth := newTestAuthService(t)

	_, err := auth.Login(context.Background(), "nobody@example.com", "password123")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestAuthService_ValidateToken_Invalid(t *testing.T) {
	auth := newTestAuthService(t)

	tests := []string{
		"",
		"not-a-token",
		"eyJhbGciOiJIUzI1NiJ9.e30.garbage",
	}
	for _, token := range tests {
		if _, err := auth.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("token %q: expected ErrUnauthorized, got %v", token, err)
		}
	}
}

func TestAuthService_ValidateToken_WrongSecret(t *testing.T) {
	auth := newTestAuthService(t)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "secret@example.com", "User", "password123", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	token, err := auth.Login(ctx, "secret@example.com", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	env := newTestEnv(t)
	other := service.NewAuthService(env.users, "a-completely-different-secret", 4)
	if _, err := other.ValidateToken(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

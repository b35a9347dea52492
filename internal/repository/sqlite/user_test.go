package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pawtrail/rescue/internal/domain"
	"github.com/pawtrail/rescue/internal/repository/sqlite"
)

func TestUserCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepository(db)

	user := &domain.User{
		Email:        "volunteer@example.com",
		DisplayName:  "Volunteer",
		PasswordHash: "hash",
		Phone:        "+46701234567",
	}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}

	byID, err := repo.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if byID.Email != user.Email || byID.Phone != user.Phone {
		t.Fatalf("unexpected user: %+v", byID)
	}

	byEmail, err := repo.GetByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, byEmail.ID)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepository(db)

	first := &domain.User{Email: "dup@example.com", DisplayName: "First", PasswordHash: "h1"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create: %v", err)
	}

	second := &domain.User{Email: "dup@example.com", DisplayName: "Second", PasswordHash: "h2"}
	if err := repo.Create(ctx, second); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestUserNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	repo := sqlite.NewUserRepository(db)

	if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound by id, got %v", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound by email, got %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Strob0t/tasksync/internal/domain"
	"github.com/Strob0t/tasksync/internal/domain/user"
)

func newTestUserService() (*UserService, *mockStore) {
	store := &mockStore{}
	return NewUserService(store, bcrypt.MinCost), store
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool { return &b }

func TestUserServiceCreateHashesPassword(t *testing.T) {
	svc, store := newTestUserService()

	u, err := svc.Create(context.Background(), user.CreateRequest{
		Email:    "alice@example.com",
		Password: "correct-horse",
		FullName: "Alice",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == "" || !u.IsActive {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "correct-horse" {
		t.Fatal("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(store.users[0].PasswordHash), []byte("correct-horse")); err != nil {
		t.Fatalf("stored hash does not match: %v", err)
	}
}

func TestUserServiceCreateValidation(t *testing.T) {
	svc, _ := newTestUserService()

	_, err := svc.Create(context.Background(), user.CreateRequest{Email: "nope", Password: "12345678"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUserServiceCreateDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()
	req := user.CreateRequest{Email: "dup@example.com", Password: "password1"}

	if _, err := svc.Create(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, req); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestUserServiceAuthenticate(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateRequest{Email: "bob@example.com", Password: "password1"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.Authenticate(ctx, "bob@example.com", "password1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("authenticated wrong user: %s", got.ID)
	}

	if _, err := svc.Authenticate(ctx, "bob@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	if _, err := svc.Update(ctx, created.ID, user.UpdateRequest{IsActive: boolPtr(false)}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Authenticate(ctx, "bob@example.com", "password1"); !errors.Is(err, ErrInactiveUser) {
		t.Fatalf("inactive: expected ErrInactiveUser, got %v", err)
	}
}

func TestUserServiceUpdate(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, user.CreateRequest{Email: "carol@example.com", Password: "password1", FullName: "Carol"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, created.ID, user.UpdateRequest{FullName: strPtr("Carol D.")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != "Carol D." || updated.Email != "carol@example.com" {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := svc.Update(ctx, created.ID, user.UpdateRequest{Email: strPtr("bad")}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := svc.Update(ctx, "missing", user.UpdateRequest{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserServiceListAndDelete(t *testing.T) {
	svc, _ := newTestUserService()
	ctx := context.Background()

	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com"} {
		u, err := svc.Create(ctx, user.CreateRequest{Email: email, Password: "password1"})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, u.ID)
	}

	users, err := svc.List(ctx, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	// Negative skip is clamped to the first page.
	users, err = svc.List(ctx, -3, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].ID != ids[0] {
		t.Fatalf("expected first user only, got %+v", users)
	}

	if err := svc.Delete(ctx, ids[0]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, ids[0]); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(ctx, ids[0]); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

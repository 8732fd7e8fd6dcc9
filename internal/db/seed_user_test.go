package db

import (
	"context"
	"testing"

	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/repo/memory"
	"github.com/geocoder89/cinemate/internal/security"
)

func TestEnsureSeedUser(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUsersRepo()
	cfg := config.Config{SeedUserEmail: "Demo@Example.com", SeedUserPassword: "secret1"}

	created, err := EnsureSeedUser(ctx, users, cfg)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !created {
		t.Fatalf("expected user to be created")
	}

	u, err := users.GetByEmail(ctx, "demo@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if err := security.CheckPassword(u.PasswordHash, "secret1"); err != nil {
		t.Fatalf("stored hash does not match password")
	}

	created, err = EnsureSeedUser(ctx, users, cfg)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if created {
		t.Fatalf("expected second call to be a no-op")
	}
	if users.Count() != 1 {
		t.Fatalf("expected 1 user, got %d", users.Count())
	}
}

func TestEnsureSeedUserDisabled(t *testing.T) {
	users := memory.NewUsersRepo()

	created, err := EnsureSeedUser(context.Background(), users, config.Config{SeedUserEmail: "a@b.c"})
	if err != nil || created {
		t.Fatalf("expected no-op, got created=%v err=%v", created, err)
	}
	if users.Count() != 0 {
		t.Fatalf("expected no users")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.Config{StoreDriver: "sqlite"}, nil)
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

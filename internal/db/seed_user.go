package db

import (
	"context"
	"errors"

	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/domain/user"
	"github.com/geocoder89/cinemate/internal/security"
)

// EnsureSeedUser creates the configured account if it is missing. It is a
// no-op when SEED_USER_EMAIL or SEED_USER_PASSWORD is unset.
func EnsureSeedUser(ctx context.Context, users user.Store, cfg config.Config) (bool, error) {
	if cfg.SeedUserEmail == "" || cfg.SeedUserPassword == "" {
		return false, nil
	}

	email := user.NormalizeEmail(cfg.SeedUserEmail)

	_, err := users.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	hash, err := security.HashPassword(cfg.SeedUserPassword)
	if err != nil {
		return false, err
	}

	_, err = users.Create(ctx, email, hash)
	if errors.Is(err, user.ErrEmailTaken) {
		// another instance won the race
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

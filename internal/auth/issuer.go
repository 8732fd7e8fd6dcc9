package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/cinemate/internal/domain/user"
	"github.com/geocoder89/cinemate/internal/security"
)

var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrEmailTaken         = user.ErrEmailTaken
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooLong    = security.ErrPasswordTooLong
)

// Session is what signup and login hand back to the caller.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      user.User `json:"user"`
}

type Issuer struct {
	users  user.Store
	tokens *Manager
}

func NewIssuer(users user.Store, tokens *Manager) *Issuer {
	return &Issuer{users: users, tokens: tokens}
}

// Tokens exposes the manager so the access middleware verifies with the same secret.
func (i *Issuer) Tokens() *Manager {
	return i.tokens
}

func (i *Issuer) Signup(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return Session{}, ErrInvalidInput
	}
	if len(password) > security.MaxPasswordBytes {
		return Session{}, ErrPasswordTooLong
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := i.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return Session{}, ErrEmailTaken
		}
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	return i.issue(u)
}

// Login reports ErrInvalidCredentials for an unknown email and for a wrong
// password alike.
func (i *Issuer) Login(ctx context.Context, email, password string) (Session, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, ErrInvalidInput
	}

	u, err := i.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	return i.issue(u)
}

func (i *Issuer) issue(u user.User) (Session, error) {
	token, expiresAt, err := i.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}

	return Session{Token: token, ExpiresAt: expiresAt, User: u}, nil
}

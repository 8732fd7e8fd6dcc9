package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/cinemate/internal/repo/memory"
)

func newTestIssuer() (*Issuer, *memory.UsersRepo) {
	users := memory.NewUsersRepo()
	return NewIssuer(users, NewManager("test-secret", time.Hour)), users
}

func TestIssuer_SignupThenLogin(t *testing.T) {
	ctx := context.Background()
	issuer, _ := newTestIssuer()

	signup, err := issuer.Signup(ctx, "a@x.com", "secret1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if signup.Token == "" || signup.User.ID == "" {
		t.Fatalf("signup should return a token and a user: %+v", signup)
	}
	if signup.User.PasswordHash == "secret1" {
		t.Fatalf("password must be stored hashed")
	}

	login, err := issuer.Login(ctx, "A@x.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Token == signup.Token {
		t.Fatalf("login should issue a new token string")
	}

	first, _ := issuer.Tokens().Verify(signup.Token)
	second, _ := issuer.Tokens().Verify(login.Token)
	if first != second || first != signup.User.ID {
		t.Fatalf("both tokens should assert the same user: %q %q", first, second)
	}
}

func TestIssuer_SignupErrors(t *testing.T) {
	ctx := context.Background()
	issuer, users := newTestIssuer()

	if _, err := issuer.Signup(ctx, "", "secret1"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing email: got %v", err)
	}
	if _, err := issuer.Signup(ctx, "a@x.com", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing password: got %v", err)
	}
	if _, err := issuer.Signup(ctx, "a@x.com", strings.Repeat("é", 40)); !errors.Is(err, ErrPasswordTooLong) {
		t.Fatalf("80-byte password: got %v", err)
	}

	if _, err := issuer.Signup(ctx, "a@x.com", "secret1"); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := issuer.Signup(ctx, "a@x.com", "another"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate signup: got %v", err)
	}
	if users.Count() != 1 {
		t.Fatalf("expected exactly one user, got %d", users.Count())
	}
}

func TestIssuer_LoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	issuer, _ := newTestIssuer()
	_, _ = issuer.Signup(ctx, "a@x.com", "secret1")

	if _, err := issuer.Login(ctx, "a@x.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, err := issuer.Login(ctx, "nobody@x.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", err)
	}
}

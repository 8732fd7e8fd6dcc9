package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/geocoder89/cinemate/internal/auth"
	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/db"
	apphttp "github.com/geocoder89/cinemate/internal/http"
	"github.com/gin-gonic/gin"
)

func TestCommandsEndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := config.Config{Env: "test", JWTSecret: "cli-test-secret", JWTTTLMinutes: 60}
	backend := db.NewMemoryBackend()
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())
	srv := httptest.NewServer(apphttp.NewRouter(slog.New(slog.NewTextHandler(io.Discard, nil)), apphttp.Deps{
		Auth:   auth.NewIssuer(backend.Users, tokens),
		Tokens: tokens,
		Movies: backend.Movies,
	}, cfg))
	defer srv.Close()

	base := []string{"-server", srv.URL, "-token-file", filepath.Join(t.TempDir(), "token")}
	cli := func(stdin string, args ...string) (string, error) {
		var out bytes.Buffer
		err := run(context.Background(), append(append([]string{}, base...), args...), strings.NewReader(stdin), &out)
		return out.String(), err
	}

	if _, err := cli("secret1\n", "signup", "-email", "a@example.com"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	out, err := cli("", "add", "-title", "Dune", "-date", "2024-03-01", "-rating", "9",
		"-genres", "Sci-Fi, Adventure", "-director", "Denis Villeneuve", "-actors", "Timothée Chalamet")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Dune") || !strings.Contains(out, "9/10") {
		t.Fatalf("expected refreshed list after add, got:\n%s", out)
	}

	ms, err := backend.Movies.ListByOwner(context.Background(), mustOwner(t, backend), "")
	if err != nil || len(ms) != 1 {
		t.Fatalf("expected one stored movie, got %d (%v)", len(ms), err)
	}

	out, err = cli("", "edit", ms[0].ID, "-rating", "7")
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(out, "7/10") || !strings.Contains(out, "Denis Villeneuve") {
		t.Fatalf("edit should keep other fields, got:\n%s", out)
	}

	if out, err = cli("", "delete", ms[0].ID); err != nil || !strings.Contains(out, "No movies logged yet.") {
		t.Fatalf("delete: %v\n%s", err, out)
	}

	if _, err := cli("", "delete", ms[0].ID); err == nil || !strings.Contains(err.Error(), "no such movie") {
		t.Fatalf("expected not found message, got %v", err)
	}

	if _, err := cli("", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := cli("", "list"); err == nil || !strings.Contains(err.Error(), "login") {
		t.Fatalf("expected a log in again message, got %v", err)
	}

	if _, err := cli("", "login", "-email", "a@example.com", "-password", "nope"); err == nil ||
		!strings.Contains(err.Error(), "invalid email or password") {
		t.Fatalf("expected generic credentials message, got %v", err)
	}
}

func mustOwner(t *testing.T, backend *db.Backend) string {
	t.Helper()
	u, err := backend.Users.GetByEmail(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("lookup user: %v", err)
	}
	return u.ID
}

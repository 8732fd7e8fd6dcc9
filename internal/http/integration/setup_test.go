package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/geocoder89/cinemate/internal/auth"
	"github.com/geocoder89/cinemate/internal/cache"
	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/db"
	apphttp "github.com/geocoder89/cinemate/internal/http"
	"github.com/geocoder89/cinemate/internal/http/handlers"
	"github.com/geocoder89/cinemate/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const testSecret = "test-secret-key"

func testConfig(driver string) config.Config {
	return config.Config{
		Env:                "test",
		StoreDriver:        driver,
		DBURL:              os.Getenv("TEST_DB_DSN"),
		MongoURI:           os.Getenv("TEST_MONGO_URI"),
		MongoDatabase:      "cinemate_test_" + uuid.NewString()[:8],
		JWTSecret:          testSecret,
		JWTTTLMinutes:      60,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		MaxBodyBytes:       1 << 20,
		MoviesListOrder:    "watched_desc",
	}
}

type testApp struct {
	router http.Handler
	tokens *auth.Manager
}

// backends returns every store driver reachable from this environment.
// memory always runs; postgres and mongo need TEST_DB_DSN / TEST_MONGO_URI.
func backends(t *testing.T) []string {
	t.Helper()

	drivers := []string{"memory"}
	if os.Getenv("TEST_DB_DSN") != "" {
		drivers = append(drivers, "postgres")
	}
	if os.Getenv("TEST_MONGO_URI") != "" {
		drivers = append(drivers, "mongo")
	}
	return drivers
}

func setupApp(t *testing.T, driver string) testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig(driver)
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	backend, err := db.Open(ctx, cfg, prom)
	if err != nil {
		t.Fatalf("open %s backend: %v", driver, err)
	}
	t.Cleanup(func() { _ = backend.Close(context.Background()) })

	if driver == "postgres" {
		resetPostgres(t, cfg.DBURL)
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	router := apphttp.NewRouter(logger, apphttp.Deps{
		Auth:    auth.NewIssuer(backend.Users, tokens),
		Tokens:  tokens,
		Movies:  backend.Movies,
		Cache:   cache.New(time.Minute),
		Prom:    prom,
		Metrics: reg,
		Health:  handlers.NewHealthHandler(backend.Ping),
	}, cfg)

	return testApp{router: router, tokens: tokens}
}

func resetPostgres(t *testing.T, dsn string) {
	t.Helper()

	pool, err := db.NewPool(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(context.Background(), `TRUNCATE movies, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func (a testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return a.doWithHeader(t, method, path, token, body, nil)
}

// doWithHeader applies header after the defaults, so it can override
// Content-Type.
func (a testApp) doWithHeader(t *testing.T, method, path, token string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, vs := range header {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type movieResponse struct {
	ID          string   `json:"id"`
	OwnerID     string   `json:"ownerId"`
	Title       string   `json:"title"`
	WatchedDate string   `json:"watchedDate"`
	Rating      int      `json:"rating"`
	Genres      []string `json:"genres"`
	Tags        []string `json:"tags"`
	Director    string   `json:"director"`
	Actors      []string `json:"actors"`
	CreatedAt   string   `json:"createdAt"`
}

type errorResponse struct {
	Error struct {
		Code      string `json:"code"`
		RequestID string `json:"requestId"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %T: %v body=%s", out, err, w.Body.String())
	}
	return out
}

func (a testApp) signup(t *testing.T, email, password string) sessionResponse {
	t.Helper()

	w := a.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"email": email, "password": password})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup %s: got %d body=%s", email, w.Code, w.Body.String())
	}
	return decode[sessionResponse](t, w)
}

func duneRequest() map[string]any {
	return map[string]any{
		"title":       "Dune",
		"watchedDate": "2024-03-01",
		"rating":      9,
		"genres":      []string{"Sci-Fi"},
		"director":    "Denis Villeneuve",
		"actors":      []string{"Timothée Chalamet"},
	}
}

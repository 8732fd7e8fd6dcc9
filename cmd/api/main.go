package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geocoder89/cinemate/internal/auth"
	"github.com/geocoder89/cinemate/internal/cache"
	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/db"
	httpx "github.com/geocoder89/cinemate/internal/http"
	"github.com/geocoder89/cinemate/internal/http/handlers"
	"github.com/geocoder89/cinemate/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid config", "err", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := observability.InitTracer(ctx, "cinemate-api", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	defer func() {
		tctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(tctx); err != nil {
			log.Warn("tracer shutdown failed", "err", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	backend, err := db.Open(ctx, cfg, prom)
	if err != nil {
		return err
	}
	defer func() {
		cctx, cancel := config.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(cctx); err != nil {
			log.Warn("store close failed", "err", err)
		}
	}()
	log.Info("store connected", "driver", backend.Driver)

	if created, err := db.EnsureSeedUser(ctx, backend.Users, cfg); err != nil {
		return fmt.Errorf("seed user: %w", err)
	} else if created {
		log.Info("seed user created", "email", cfg.SeedUserEmail)
	}

	listCache, closeCache := newListCache(ctx, cfg, log)
	defer closeCache()

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL())
	health := handlers.NewHealthHandler(backend.Ping)

	router := httpx.NewRouter(log, httpx.Deps{
		Auth:    auth.NewIssuer(backend.Users, tokens),
		Tokens:  tokens,
		Movies:  backend.Movies,
		Cache:   listCache,
		Prom:    prom,
		Metrics: reg,
		Health:  health,
		Tracing: cfg.OTelEndpoint != "",
	}, cfg)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("server shutting down")
	health.Drain()

	sctx, cancel := config.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("shutdown complete")
	return nil
}

// newListCache returns nil when caching is off. The result is typed as the
// interface so a disabled cache is a true nil.
func newListCache(ctx context.Context, cfg config.Config, log *slog.Logger) (cache.Store, func()) {
	switch cfg.CacheDriver {
	case "memory":
		return cache.New(cfg.CacheTTL()), func() {}

	case "redis":
		r := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.CacheTTL())

		pctx, cancel := config.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := r.Ping(pctx); err != nil {
			log.Warn("redis unreachable, list cache will miss until it recovers", "addr", cfg.RedisAddr, "err", err)
		}

		return r, func() { _ = r.Close() }

	default:
		return nil, func() {}
	}
}

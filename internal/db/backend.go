package db

import (
	"context"
	"fmt"

	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/geocoder89/cinemate/internal/domain/user"
	"github.com/geocoder89/cinemate/internal/observability"
	"github.com/geocoder89/cinemate/internal/repo/memory"
	"github.com/geocoder89/cinemate/internal/repo/mongo"
	"github.com/geocoder89/cinemate/internal/repo/postgres"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Backend bundles the stores for the configured driver.
type Backend struct {
	Driver string
	Users  user.Store
	Movies movie.Store

	ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

func Open(ctx context.Context, cfg config.Config, prom *observability.Prom) (*Backend, error) {
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := NewPool(ctx, cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return &Backend{
			Driver: cfg.StoreDriver,
			Users:  postgres.NewUsersRepo(pool, prom),
			Movies: postgres.NewMoviesRepo(pool, prom),
			ping:   pool.Ping,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case "mongo":
		client, mdb, err := NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		return &Backend{
			Driver: cfg.StoreDriver,
			Users:  mongo.NewUsersRepo(mdb, prom),
			Movies: mongo.NewMoviesRepo(mdb, prom),
			ping: func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			},
			close: client.Disconnect,
		}, nil

	case "memory":
		return NewMemoryBackend(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

func NewMemoryBackend() *Backend {
	return &Backend{
		Driver: "memory",
		Users:  memory.NewUsersRepo(),
		Movies: memory.NewMoviesRepo(),
	}
}

package memory

import (
	"context"
	"sync"

	"github.com/geocoder89/cinemate/internal/domain/movie"
)

type MoviesRepo struct {
	mu    sync.RWMutex
	items map[string]movie.Movie // id -> movie
}

func NewMoviesRepo() *MoviesRepo {
	return &MoviesRepo{
		items: make(map[string]movie.Movie),
	}
}

func (r *MoviesRepo) ListByOwner(_ context.Context, ownerID string, order movie.ListOrder) ([]movie.Movie, error) {
	r.mu.RLock()
	out := make([]movie.Movie, 0)
	for _, m := range r.items {
		if m.OwnerID == ownerID {
			out = append(out, clone(m))
		}
	}
	r.mu.RUnlock()

	movie.Sort(out, order)

	return out, nil
}

func (r *MoviesRepo) Create(_ context.Context, ownerID string, req movie.CreateRequest) (movie.Movie, error) {
	m := movie.NewFromCreateRequest(ownerID, req)

	r.mu.Lock()
	r.items[m.ID] = m
	r.mu.Unlock()

	return clone(m), nil
}

func (r *MoviesRepo) Update(_ context.Context, id, ownerID string, req movie.UpdateRequest) (movie.Movie, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok || m.OwnerID != ownerID {
		return movie.Movie{}, movie.ErrNotFound
	}

	m = req.Apply(m)
	r.items[id] = m

	return clone(m), nil
}

func (r *MoviesRepo) Delete(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[id]
	if !ok || m.OwnerID != ownerID {
		return movie.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

// clone detaches list fields so callers cannot mutate stored state.
func clone(m movie.Movie) movie.Movie {
	m.Genres = append([]string{}, m.Genres...)
	m.Tags = append([]string{}, m.Tags...)
	m.Actors = append([]string{}, m.Actors...)
	return m
}

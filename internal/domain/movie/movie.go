package movie

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("movie not found")
	ErrInvalidListOrder = errors.New("invalid list order")
)

type Movie struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	WatchedDate Date      `json:"watchedDate"`
	Rating      int       `json:"rating"`
	Genres      []string  `json:"genres"`
	Tags        []string  `json:"tags"`
	Director    string    `json:"director"`
	Actors      []string  `json:"actors"`
	Notes       string    `json:"notes,omitempty"`
	PosterURL   string    `json:"posterUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists movie-log entries. Every id-scoped call matches on the id
// and the owner in a single condition; a movie owned by someone else is
// reported exactly like a missing one.
type Store interface {
	ListByOwner(ctx context.Context, ownerID string, order ListOrder) ([]Movie, error)
	Create(ctx context.Context, ownerID string, req CreateRequest) (Movie, error)
	Update(ctx context.Context, id, ownerID string, req UpdateRequest) (Movie, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// WithLists replaces nil list fields with empty ones so they encode as [].
func (m Movie) WithLists() Movie {
	if m.Genres == nil {
		m.Genres = []string{}
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	if m.Actors == nil {
		m.Actors = []string{}
	}
	return m
}

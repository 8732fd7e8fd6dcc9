package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/geocoder89/cinemate/internal/domain/user"
)

func dune() movie.CreateRequest {
	d := movie.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	return movie.CreateRequest{
		Title:       "Dune",
		WatchedDate: &d,
		Rating:      9,
		Genres:      []string{"Sci-Fi"},
		Director:    "Villeneuve",
		Actors:      []string{"Chalamet"},
	}
}

func TestMoviesRepo_OwnershipIsolation(t *testing.T) {
	ctx := context.Background()
	repo := NewMoviesRepo()

	m, err := repo.Create(ctx, "alice", dune())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, _ := repo.ListByOwner(ctx, "bob", movie.OrderWatchedDesc)
	if len(list) != 0 {
		t.Fatalf("bob should not see alice's movies, got %d", len(list))
	}

	rating := 1
	if _, err := repo.Update(ctx, m.ID, "bob", movie.UpdateRequest{Rating: &rating}); !errors.Is(err, movie.ErrNotFound) {
		t.Fatalf("bob update: want ErrNotFound, got %v", err)
	}

	if err := repo.Delete(ctx, m.ID, "bob"); !errors.Is(err, movie.ErrNotFound) {
		t.Fatalf("bob delete: want ErrNotFound, got %v", err)
	}

	list, _ = repo.ListByOwner(ctx, "alice", movie.OrderWatchedDesc)
	if len(list) != 1 || list[0].Rating != 9 {
		t.Fatalf("alice's movie should be untouched: %+v", list)
	}
}

func TestMoviesRepo_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMoviesRepo()

	m, _ := repo.Create(ctx, "alice", dune())

	rating := 10
	updated, err := repo.Update(ctx, m.ID, "alice", movie.UpdateRequest{Rating: &rating})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Rating != 10 || updated.Title != "Dune" || updated.ID != m.ID {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if err := repo.Delete(ctx, m.ID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, m.ID, "alice"); !errors.Is(err, movie.ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestMoviesRepo_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMoviesRepo()
	_, _ = repo.Create(ctx, "alice", dune())

	list, _ := repo.ListByOwner(ctx, "alice", movie.OrderWatchedDesc)
	list[0].Genres[0] = "Mutated"

	again, _ := repo.ListByOwner(ctx, "alice", movie.OrderWatchedDesc)
	if again[0].Genres[0] != "Sci-Fi" {
		t.Fatalf("stored state was mutated through a returned slice")
	}
}

func TestUsersRepo_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo()

	if _, err := repo.Create(ctx, "a@x.com", "hash"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Create(ctx, " A@X.com ", "hash2"); !errors.Is(err, user.ErrEmailTaken) {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	if repo.Count() != 1 {
		t.Fatalf("duplicate signup must not create a second user, count=%d", repo.Count())
	}

	if _, err := repo.GetByEmail(ctx, "nobody@x.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

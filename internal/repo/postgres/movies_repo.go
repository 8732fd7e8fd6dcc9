package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/geocoder89/cinemate/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const movieColumns = `id, owner_id, title, watched_date, rating, genres, tags, director, actors, notes, poster_url, created_at`

type MoviesRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewMoviesRepo(pool *pgxpool.Pool, prom *observability.Prom) *MoviesRepo {
	return &MoviesRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *MoviesRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func orderClause(order movie.ListOrder) string {
	switch order {
	case movie.OrderCreatedAsc:
		return "created_at ASC, id ASC"
	case movie.OrderCreatedDesc:
		return "created_at DESC, id ASC"
	default:
		return "watched_date DESC, created_at DESC, id ASC"
	}
}

func scanMovie(row pgx.Row) (movie.Movie, error) {
	var m movie.Movie

	err := row.Scan(
		&m.ID,
		&m.OwnerID,
		&m.Title,
		&m.WatchedDate.Time,
		&m.Rating,
		&m.Genres,
		&m.Tags,
		&m.Director,
		&m.Actors,
		&m.Notes,
		&m.PosterURL,
		&m.CreatedAt,
	)
	if err != nil {
		return movie.Movie{}, err
	}

	m.WatchedDate = movie.NewDate(m.WatchedDate.Time)
	m.CreatedAt = m.CreatedAt.UTC()

	return m.WithLists(), nil
}

func (r *MoviesRepo) ListByOwner(ctx context.Context, ownerID string, order movie.ListOrder) ([]movie.Movie, error) {
	output := make([]movie.Movie, 0)

	err := r.observe("movies.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+movieColumns+` FROM movies WHERE owner_id = $1 ORDER BY `+orderClause(order),
			ownerID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			m, err := scanMovie(rows)
			if err != nil {
				return err
			}
			output = append(output, m)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}

	return output, nil
}

func (r *MoviesRepo) Create(ctx context.Context, ownerID string, req movie.CreateRequest) (movie.Movie, error) {
	m := movie.NewFromCreateRequest(ownerID, req)
	// TIMESTAMPTZ keeps microseconds
	m.CreatedAt = m.CreatedAt.Truncate(time.Microsecond)

	err := r.observe("movies.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO movies (`+movieColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			m.ID, m.OwnerID, m.Title, m.WatchedDate.Time, m.Rating, m.Genres, m.Tags,
			m.Director, m.Actors, m.Notes, m.PosterURL, m.CreatedAt,
		)
		return err
	})

	if err != nil {
		return movie.Movie{}, fmt.Errorf("insert movie: %w", err)
	}

	return m, nil
}

// Update applies only the fields present in req, matching id and owner in
// the same WHERE clause.
func (r *MoviesRepo) Update(ctx context.Context, id, ownerID string, req movie.UpdateRequest) (movie.Movie, error) {
	if !validID(id) {
		return movie.Movie{}, movie.ErrNotFound
	}

	if req.IsEmpty() {
		return r.get(ctx, id, ownerID)
	}

	var sets []string
	args := []interface{}{id, ownerID}
	argsPosition := 3

	set := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argsPosition))
		args = append(args, value)
		argsPosition++
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.WatchedDate != nil {
		set("watched_date", req.WatchedDate.Time)
	}
	if req.Rating != nil {
		set("rating", *req.Rating)
	}
	if req.Genres != nil {
		set("genres", *req.Genres)
	}
	if req.Tags != nil {
		set("tags", *req.Tags)
	}
	if req.Director != nil {
		set("director", *req.Director)
	}
	if req.Actors != nil {
		set("actors", *req.Actors)
	}
	if req.Notes != nil {
		set("notes", *req.Notes)
	}
	if req.PosterURL != nil {
		set("poster_url", *req.PosterURL)
	}

	query := `UPDATE movies SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 AND owner_id = $2 RETURNING ` + movieColumns

	var m movie.Movie
	err := r.observe("movies.update", func() error {
		var err error
		m, err = scanMovie(r.pool.QueryRow(ctx, query, args...))
		return err
	})

	if err != nil {
		// if there are no rows matching both id and owner
		if errors.Is(err, pgx.ErrNoRows) {
			return movie.Movie{}, movie.ErrNotFound
		}
		return movie.Movie{}, fmt.Errorf("update movie: %w", err)
	}

	return m, nil
}

func (r *MoviesRepo) Delete(ctx context.Context, id, ownerID string) error {
	if !validID(id) {
		return movie.ErrNotFound
	}

	var affected int64
	err := r.observe("movies.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1 AND owner_id = $2`, id, ownerID)
		affected = tag.RowsAffected()
		return err
	})

	if err != nil {
		return fmt.Errorf("delete movie: %w", err)
	}

	// if no rows were deleted as a result return a not found error
	if affected == 0 {
		return movie.ErrNotFound
	}

	return nil
}

func (r *MoviesRepo) get(ctx context.Context, id, ownerID string) (movie.Movie, error) {
	var m movie.Movie
	err := r.observe("movies.get", func() error {
		var err error
		m, err = scanMovie(r.pool.QueryRow(ctx,
			`SELECT `+movieColumns+` FROM movies WHERE id = $1 AND owner_id = $2`, id, ownerID))
		return err
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return movie.Movie{}, movie.ErrNotFound
		}
		return movie.Movie{}, fmt.Errorf("get movie: %w", err)
	}

	return m, nil
}

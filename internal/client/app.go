package client

import (
	"context"
	"errors"

	"github.com/geocoder89/cinemate/internal/domain/movie"
)

var ErrMovieNotFound = errors.New("movie not found")

// App holds the client side view of the movie list. Every mutation is
// followed by a fresh list from the server.
type App struct {
	api    *Client
	Movies []movie.Movie
}

func NewApp(api *Client) *App {
	return &App{api: api}
}

func (a *App) Refresh(ctx context.Context) error {
	ms, err := a.api.ListMovies(ctx)
	if err != nil {
		return err
	}
	a.Movies = ms
	return nil
}

func (a *App) Add(ctx context.Context, f MovieForm) error {
	req, err := f.CreateRequest()
	if err != nil {
		return err
	}
	if _, err := a.api.CreateMovie(ctx, req); err != nil {
		return err
	}
	return a.Refresh(ctx)
}

// EditForm returns the pre-filled form for id from the current list.
func (a *App) EditForm(ctx context.Context, id string) (MovieForm, error) {
	if err := a.Refresh(ctx); err != nil {
		return MovieForm{}, err
	}
	for _, m := range a.Movies {
		if m.ID == id {
			return EditFormFromMovie(m), nil
		}
	}
	return MovieForm{}, ErrMovieNotFound
}

func (a *App) Edit(ctx context.Context, id string, f MovieForm) error {
	req, err := f.UpdateRequest()
	if err != nil {
		return err
	}
	if _, err := a.api.UpdateMovie(ctx, id, req); err != nil {
		return notFound(err)
	}
	return a.Refresh(ctx)
}

func (a *App) Remove(ctx context.Context, id string) error {
	if err := a.api.DeleteMovie(ctx, id); err != nil {
		return notFound(err)
	}
	return a.Refresh(ctx)
}

func notFound(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == 404 {
		return ErrMovieNotFound
	}
	return err
}

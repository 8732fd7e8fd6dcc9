package client

import (
	"errors"
	"strconv"
	"strings"

	"github.com/geocoder89/cinemate/internal/domain/movie"
)

var ErrInvalidRating = errors.New("rating must be a whole number from 1 to 10")

// MovieForm is the text a user types in. List fields are comma separated.
type MovieForm struct {
	Title       string
	WatchedDate string
	Rating      string
	Genres      string
	Tags        string
	Director    string
	Actors      string
	Notes       string
	PosterURL   string
}

// SplitList splits comma separated input, trimming entries and dropping
// blanks.
func SplitList(s string) []string {
	return movie.CleanList(strings.Split(s, ","))
}

func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

func (f MovieForm) CreateRequest() (movie.CreateRequest, error) {
	date, err := movie.ParseDate(strings.TrimSpace(f.WatchedDate))
	if err != nil {
		return movie.CreateRequest{}, err
	}

	rating, err := parseRating(f.Rating)
	if err != nil {
		return movie.CreateRequest{}, err
	}

	return movie.CreateRequest{
		Title:       strings.TrimSpace(f.Title),
		WatchedDate: &date,
		Rating:      rating,
		Genres:      SplitList(f.Genres),
		Tags:        SplitList(f.Tags),
		Director:    strings.TrimSpace(f.Director),
		Actors:      SplitList(f.Actors),
		Notes:       strings.TrimSpace(f.Notes),
		PosterURL:   strings.TrimSpace(f.PosterURL),
	}, nil
}

// UpdateRequest submits every field of the form, so a form pre-filled by
// EditFormFromMovie only changes what the user edited.
func (f MovieForm) UpdateRequest() (movie.UpdateRequest, error) {
	req, err := f.CreateRequest()
	if err != nil {
		return movie.UpdateRequest{}, err
	}

	return movie.UpdateRequest{
		Title:       &req.Title,
		WatchedDate: req.WatchedDate,
		Rating:      &req.Rating,
		Genres:      &req.Genres,
		Tags:        &req.Tags,
		Director:    &req.Director,
		Actors:      &req.Actors,
		Notes:       &req.Notes,
		PosterURL:   &req.PosterURL,
	}, nil
}

func EditFormFromMovie(m movie.Movie) MovieForm {
	return MovieForm{
		Title:       m.Title,
		WatchedDate: m.WatchedDate.String(),
		Rating:      strconv.Itoa(m.Rating),
		Genres:      JoinList(m.Genres),
		Tags:        JoinList(m.Tags),
		Director:    m.Director,
		Actors:      JoinList(m.Actors),
		Notes:       m.Notes,
		PosterURL:   m.PosterURL,
	}
}

func parseRating(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 10 {
		return 0, ErrInvalidRating
	}
	return n, nil
}

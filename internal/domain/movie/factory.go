package movie

import (
	"time"

	"github.com/google/uuid"
)

func NewFromCreateRequest(ownerID string, req CreateRequest) Movie {
	m := Movie{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     req.Title,
		Rating:    req.Rating,
		Genres:    append([]string(nil), req.Genres...),
		Tags:      append([]string(nil), req.Tags...),
		Director:  req.Director,
		Actors:    append([]string(nil), req.Actors...),
		Notes:     req.Notes,
		PosterURL: req.PosterURL,
		CreatedAt: time.Now().UTC(),
	}

	if req.WatchedDate != nil {
		m.WatchedDate = *req.WatchedDate
	}

	return m.WithLists()
}

package movie

import "strings"

type CreateRequest struct {
	Title       string   `json:"title" binding:"required,max=300"`
	WatchedDate *Date    `json:"watchedDate" binding:"required"`
	Rating      int      `json:"rating" binding:"required,min=1,max=10"`
	Genres      []string `json:"genres" binding:"required,min=1,dive,required,max=60"`
	Tags        []string `json:"tags" binding:"omitempty,dive,required,max=60"`
	Director    string   `json:"director" binding:"required,max=200"`
	Actors      []string `json:"actors" binding:"required,min=1,dive,required,max=200"`
	Notes       string   `json:"notes" binding:"omitempty,max=5000"`
	PosterURL   string   `json:"posterUrl" binding:"omitempty,url,max=2048"`
}

// UpdateRequest is a partial replace: nil fields are left untouched.
type UpdateRequest struct {
	Title       *string   `json:"title" binding:"omitempty,min=1,max=300"`
	WatchedDate *Date     `json:"watchedDate"`
	Rating      *int      `json:"rating" binding:"omitempty,min=1,max=10"`
	Genres      *[]string `json:"genres" binding:"omitempty,min=1,dive,required,max=60"`
	Tags        *[]string `json:"tags" binding:"omitempty,dive,required,max=60"`
	Director    *string   `json:"director" binding:"omitempty,min=1,max=200"`
	Actors      *[]string `json:"actors" binding:"omitempty,min=1,dive,required,max=200"`
	Notes       *string   `json:"notes" binding:"omitempty,max=5000"`
	PosterURL   *string   `json:"posterUrl" binding:"omitempty,len=0|url,max=2048"`
}

// Normalize trims text fields and drops blank list entries. It runs before
// validation so "  " counts as missing. Absent genres and actors stay nil
// so they report as required rather than too short.
func (r *CreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Director = strings.TrimSpace(r.Director)
	r.Notes = strings.TrimSpace(r.Notes)
	r.PosterURL = strings.TrimSpace(r.PosterURL)
	if r.Genres != nil {
		r.Genres = CleanList(r.Genres)
	}
	if r.Actors != nil {
		r.Actors = CleanList(r.Actors)
	}
	r.Tags = CleanList(r.Tags)
}

func (r *UpdateRequest) Normalize() {
	trimPtr(r.Title)
	trimPtr(r.Director)
	trimPtr(r.Notes)
	trimPtr(r.PosterURL)

	for _, list := range []*[]string{r.Genres, r.Tags, r.Actors} {
		if list != nil {
			*list = CleanList(*list)
		}
	}
}

func (r UpdateRequest) IsEmpty() bool {
	return r.Title == nil && r.WatchedDate == nil && r.Rating == nil &&
		r.Genres == nil && r.Tags == nil && r.Director == nil &&
		r.Actors == nil && r.Notes == nil && r.PosterURL == nil
}

// Apply returns m with every field present in r replaced.
func (r UpdateRequest) Apply(m Movie) Movie {
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.WatchedDate != nil {
		m.WatchedDate = *r.WatchedDate
	}
	if r.Rating != nil {
		m.Rating = *r.Rating
	}
	if r.Genres != nil {
		m.Genres = append([]string(nil), *r.Genres...)
	}
	if r.Tags != nil {
		m.Tags = append([]string(nil), *r.Tags...)
	}
	if r.Director != nil {
		m.Director = *r.Director
	}
	if r.Actors != nil {
		m.Actors = append([]string(nil), *r.Actors...)
	}
	if r.Notes != nil {
		m.Notes = *r.Notes
	}
	if r.PosterURL != nil {
		m.PosterURL = *r.PosterURL
	}
	return m.WithLists()
}

// CleanList trims every entry and drops the blank ones. The result is never nil.
func CleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

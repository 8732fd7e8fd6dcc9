package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/geocoder89/cinemate/internal/cache"
	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/geocoder89/cinemate/internal/http/middlewares"
	"github.com/geocoder89/cinemate/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
)

const storeTimeout = 3 * time.Second

type MoviesHandler struct {
	repo  movie.Store
	cache cache.Store
	prom  *observability.Prom
	order movie.ListOrder
}

// NewMoviesHandler wires the movie endpoints. c may be nil to disable the
// list cache.
func NewMoviesHandler(repo movie.Store, c cache.Store, prom *observability.Prom, order movie.ListOrder) *MoviesHandler {
	if order == "" {
		order = movie.OrderWatchedDesc
	}
	return &MoviesHandler{repo: repo, cache: c, prom: prom, order: order}
}

func (h *MoviesHandler) ListMovies(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	key := cache.MoviesListKey(ownerID)

	if h.cache != nil {
		if b, hit := h.cache.Get(ctx.Request.Context(), key); hit {
			h.prom.ObserveCache(true)
			RespondRawJSONWithETag(ctx, http.StatusOK, b)
			return
		}
		h.prom.ObserveCache(false)
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	movies, err := h.repo.ListByOwner(cctx, ownerID, h.order)
	if err != nil {
		h.internal(ctx, "list movies", err, "Could not list movies")
		return
	}

	if movies == nil {
		movies = []movie.Movie{}
	}

	b, err := json.Marshal(movies)
	if err != nil {
		h.internal(ctx, "encode movies", err, "Could not list movies")
		return
	}

	if h.cache != nil {
		h.cache.Set(ctx.Request.Context(), key, b)
	}

	RespondRawJSONWithETag(ctx, http.StatusOK, b)
}

func (h *MoviesHandler) CreateMovie(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	var req movie.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	m, err := h.repo.Create(cctx, ownerID, req)
	if err != nil {
		h.internal(ctx, "create movie", err, "Could not create movie")
		return
	}

	h.invalidate(ctx.Request.Context(), ownerID)
	ctx.JSON(http.StatusCreated, m)
}

func (h *MoviesHandler) UpdateMovie(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		RespondNotFound(ctx, "Movie not found")
		return
	}

	var req movie.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	m, err := h.repo.Update(cctx, id, ownerID, req)
	if err != nil {
		if errors.Is(err, movie.ErrNotFound) {
			RespondNotFound(ctx, "Movie not found")
			return
		}
		h.internal(ctx, "update movie", err, "Could not update movie")
		return
	}

	if !req.IsEmpty() {
		h.invalidate(ctx.Request.Context(), ownerID)
	}
	ctx.JSON(http.StatusOK, m)
}

func (h *MoviesHandler) DeleteMovie(ctx *gin.Context) {
	ownerID, ok := h.owner(ctx)
	if !ok {
		return
	}

	id := strings.TrimSpace(ctx.Param("id"))

	cctx, cancel := config.WithTimeout(ctx.Request.Context(), storeTimeout)
	defer cancel()

	if err := h.repo.Delete(cctx, id, ownerID); err != nil {
		if errors.Is(err, movie.ErrNotFound) {
			RespondNotFound(ctx, "Movie not found")
			return
		}
		h.internal(ctx, "delete movie", err, "Could not delete movie")
		return
	}

	h.invalidate(ctx.Request.Context(), ownerID)
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Movie deleted"})
}

// owner is a guard for routes mounted without RequireAuth.
func (h *MoviesHandler) owner(ctx *gin.Context) (string, bool) {
	ownerID, ok := middlewares.UserIDFromContext(ctx)
	if !ok {
		RespondUnauthorized(ctx, "unauthenticated", "Authentication required")
		return "", false
	}
	return ownerID, true
}

func (h *MoviesHandler) invalidate(ctx context.Context, ownerID string) {
	if h.cache != nil {
		h.cache.Delete(ctx, cache.MoviesListKey(ownerID))
	}
}

func (h *MoviesHandler) internal(ctx *gin.Context, op string, err error, message string) {
	slog.Default().ErrorContext(ctx.Request.Context(), op+" failed",
		"err", err,
		"request_id", requestIDFrom(ctx),
	)
	RespondInternal(ctx, message)
}

package http

import (
	"log/slog"

	"github.com/geocoder89/cinemate/internal/cache"
	"github.com/geocoder89/cinemate/internal/config"
	"github.com/geocoder89/cinemate/internal/domain/movie"
	"github.com/geocoder89/cinemate/internal/http/handlers"
	"github.com/geocoder89/cinemate/internal/http/middlewares"
	"github.com/geocoder89/cinemate/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps are the collaborators the router mounts. Cache, Prom, Metrics and
// Health are optional.
type Deps struct {
	Auth    handlers.Authenticator
	Tokens  middlewares.TokenVerifier
	Movies  movie.Store
	Cache   cache.Store
	Prom    *observability.Prom
	Metrics prometheus.Gatherer
	Health  *handlers.HealthHandler
	Tracing bool
}

func NewRouter(log *slog.Logger, deps Deps, cfg config.Config) *gin.Engine {
	switch cfg.Env {
	case "dev":
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	if deps.Tracing {
		r.Use(otelgin.Middleware("cinemate-api"))
	}
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(middlewares.MaxBodyBytes(cfg.MaxBodyBytes))

	// health
	h := deps.Health
	if h == nil {
		h = handlers.NewHealthHandler(nil)
	}
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	r.GET("/docs", handlers.SwaggerUI)
	r.GET("/docs/openapi.yaml", handlers.OpenAPISpec)

	// auth
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Prom)
	authGroup := r.Group("/auth", middlewares.RequireJSON())
	authGroup.POST("/signup", authHandler.SignUp)
	authGroup.POST("/login", authHandler.Login)

	// movies, always scoped to the caller
	order, err := movie.ParseListOrder(cfg.MoviesListOrder)
	if err != nil {
		order = movie.OrderWatchedDesc
	}

	authMW := middlewares.NewAuthMiddleware(deps.Tokens)
	moviesHandler := handlers.NewMoviesHandler(deps.Movies, deps.Cache, deps.Prom, order)

	movies := r.Group("/movies", authMW.RequireAuth())
	movies.GET("", moviesHandler.ListMovies)
	movies.POST("", middlewares.RequireJSON(), moviesHandler.CreateMovie)
	movies.PUT("/:id", middlewares.RequireJSON(), moviesHandler.UpdateMovie)
	movies.DELETE("/:id", moviesHandler.DeleteMovie)

	return r
}

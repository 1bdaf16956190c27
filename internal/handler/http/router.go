package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/vasiliy-maslov/eventhub/internal/middleware"
)

type RouteRegistrar interface {
	RegisterRoutes(router chi.Router)
}

type RouterConfig struct {
	Logger         zerolog.Logger
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	BodyLimitBytes int64
}

// NewRouter builds the middleware chain and mounts every registrar on it.
// ctx bounds background work such as rate-limiter housekeeping.
func NewRouter(ctx context.Context, cfg RouterConfig, registrars ...RouteRegistrar) chi.Router {
	router := chi.NewRouter()

	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst))
	router.Use(middleware.BodyLimit(cfg.BodyLimitBytes))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	for _, registrar := range registrars {
		registrar.RegisterRoutes(router)
	}

	return router
}

package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sathwik-loomiz/ai-generation/internal/http/handlers"
	"github.com/sathwik-loomiz/ai-generation/internal/infra"
	"github.com/sathwik-loomiz/ai-generation/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Logger(logger),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/products", app.ListProducts)
	r.Get("/v1/generations/{id}", app.GetGeneration)

	// Generation endpoints fan out to paid upstreams, so they get their own
	// per-client limit.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
		r.Post("/v1/generate", app.Generate)
		r.Post("/v1/regenerate", app.Regenerate)
	})

	return r
}

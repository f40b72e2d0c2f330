package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the middleware chain and the brief API routes.
func NewRouter(app *handlers.App, lookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.RequestID,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSAllowedOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
		middleware.I18N("en", lookup),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/briefs", func(r chi.Router) {
		r.Post("/", app.BriefCreate)
		r.Get("/{id}", app.BriefGet)
		r.Get("/{id}/export", app.BriefExport)
	})

	return r
}

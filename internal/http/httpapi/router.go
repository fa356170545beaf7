package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"sparkdraft/internal/http/handlers"
	"sparkdraft/internal/middleware"
)

func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/stats/summary", app.StatsSummary)

	r.Route("/v1/auth", func(r chi.Router) {
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(app.Config.JWTSecret))

		r.Route("/v1/projects", func(r chi.Router) {
			r.Post("/", app.ProjectsCreate)
			r.Get("/", app.ProjectsList)
			r.Get("/export", app.ProjectsExport)
			r.Get("/{id}", app.ProjectGet)
			r.Patch("/{id}", app.ProjectPatch)
			r.Delete("/{id}", app.ProjectDelete)
		})

		r.Get("/v1/favorites", app.FavoritesList)
		r.Get("/v1/me/quota", app.MeQuota)
		r.Post("/v1/subscriptions", app.SubscriptionCreate)
	})

	return r
}

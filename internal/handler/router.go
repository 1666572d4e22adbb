package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	gwmiddleware "github.com/omarantar7/dentalcare-admin/internal/middleware"
	"github.com/omarantar7/dentalcare-admin/internal/scope"
	"github.com/omarantar7/dentalcare-admin/pkg/health"
	"github.com/omarantar7/dentalcare-admin/pkg/middleware"
)

// RouterConfig carries the collaborators the router needs.
type RouterConfig struct {
	Codec          *scope.CookieCodec
	Registry       *scope.Registry
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	LoginRateRPS   int
	LoginRateBurst int
}

// NewRouter creates a chi router with all admin gateway routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("admin"))

	// Health check endpoints, outside any session scope
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(cfg.Logger)
	patientsHandler := NewPatientsHandler(cfg.Logger)
	sessionsHandler := NewSessionsHandler(cfg.Logger)
	pagesHandler := NewPagesHandler(cfg.Logger)

	resolve := scope.Resolver(cfg.Codec, cfg.Registry, cfg.Logger)

	// Session endpoints
	r.Route("/api", func(r chi.Router) {
		r.Use(resolve)
		r.Use(middleware.RequestLogger(cfg.Logger))

		r.With(gwmiddleware.LoginRateLimit(cfg.LoginRateRPS, cfg.LoginRateBurst, cfg.Logger)).
			Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)

		// Clinic records, proxied through the scope's bearer client
		r.Route("/patients", func(r chi.Router) {
			r.Get("/", patientsHandler.List)
			r.Post("/", patientsHandler.Create)
			r.Get("/statistics", patientsHandler.Statistics)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", patientsHandler.Get)
				r.Put("/", patientsHandler.Update)
				r.Delete("/", patientsHandler.Delete)

				r.Post("/sessions", sessionsHandler.Create)
				r.Put("/sessions/{sessionID}", sessionsHandler.Update)
				r.Delete("/sessions/{sessionID}", sessionsHandler.Delete)
			})
		})

		r.Get("/labs", sessionsHandler.ListLabs)
	})

	// Guarded page shells
	r.Group(func(r chi.Router) {
		r.Use(resolve)
		r.Use(middleware.RequestLogger(cfg.Logger))

		r.Get("/", pagesHandler.Serve)
		r.Get("/login", pagesHandler.Serve)
		r.Get("/patients", pagesHandler.Serve)
		r.Get("/patients/{id}", pagesHandler.Serve)
		r.Get("/labs", pagesHandler.Serve)
		r.NotFound(pagesHandler.Serve)
	})

	return r
}

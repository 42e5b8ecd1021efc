// Package server собирает HTTP API: маршруты chi, middleware и жизненный цикл сервера.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/iudanet/eventz/internal/server/config"
	"github.com/iudanet/eventz/internal/server/handlers"
	"github.com/iudanet/eventz/internal/server/middleware"
	"github.com/iudanet/eventz/pkg/api"
)

// Handlers набор HTTP handlers API
type Handlers struct {
	Auth   *handlers.AuthHandler
	Events *handlers.EventHandler
	Guests *handlers.GuestHandler
	Health *handlers.HealthHandler
}

// Router http.Handler API вместе с rate limiters, которые нужно остановить при завершении
type Router struct {
	http.Handler
	limiters []*middleware.RateLimiter
}

// Close останавливает фоновые goroutines rate limiters
func (r *Router) Close() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

// NewRouter собирает маршруты API.
// Общий лимит действует на все запросы, на /api/auth дополнительно строгий лимит.
func NewRouter(
	logger *slog.Logger,
	cfg *config.Config,
	tokens middleware.TokenVerifier,
	h Handlers,
) *Router {
	general := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window, logger)
	strict := middleware.NewRateLimiter(cfg.AuthRateLimit.Requests, cfg.AuthRateLimit.Window, logger)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(middleware.LoggingWithSkip(logger, []string{"/health"}))
	r.Use(middleware.RecoveryMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Retry-After"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))
	r.Use(general.Middleware)

	r.Get("/health", h.Health.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(strict.Middleware)
			r.Post("/register", h.Auth.Register)
			r.Get("/verify-email/{token}", h.Auth.VerifyEmail)
			r.Post("/resend-verification", h.Auth.ResendVerification)
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh-token", h.Auth.Refresh)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(logger, tokens))

			r.Route("/events", func(r chi.Router) {
				r.Get("/", h.Events.ListMine)
				r.Post("/", h.Events.Create)
				r.Get("/user/{userID}", h.Events.ListByUser)
				r.Get("/{id}", h.Events.Get)
				r.Put("/{id}", h.Events.Update)
				r.Delete("/{id}", h.Events.Delete)
			})

			r.Route("/guests", func(r chi.Router) {
				r.Post("/", h.Guests.Create)
				r.Get("/event/{eventID}", h.Guests.ListByEvent)
				r.Put("/{id}", h.Guests.Update)
				r.Delete("/{id}", h.Guests.Delete)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, http.StatusNotFound, api.ErrorResponse{Kind: api.KindNotFound, Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		handlers.WriteError(w, http.StatusMethodNotAllowed, api.ErrorResponse{Kind: api.KindNotFound, Message: "Method not allowed"})
	})

	return &Router{Handler: r, limiters: []*middleware.RateLimiter{general, strict}}
}

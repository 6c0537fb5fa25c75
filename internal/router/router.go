package router

import (
	"net/http"

	"billing-cache-api/internal/handler"
	"billing-cache-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating a router.
type Config struct {
	Handler        *handler.Handler
	QueryHandler   *handler.QueryHandler
	ClientHandler  *handler.ClientHandler
	ProductHandler *handler.ProductHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware func(http.Handler) http.Handler
}

// New creates and configures the HTTP router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware stack (applies to ALL routes)
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", "X-API-Key"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if cfg.Handler != nil {
		r.Get("/api/status", cfg.Handler.Status)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// PUBLIC routes: health and reads
		if cfg.Handler != nil {
			r.Get("/health", cfg.Handler.Health)
			r.Get("/ready", cfg.Handler.Ready)
		}
		if cfg.QueryHandler != nil {
			r.Get("/queries", cfg.QueryHandler.List)
			r.Get("/queries/{name}", cfg.QueryHandler.Run)
		}
		if cfg.ClientHandler != nil {
			r.Get("/clients", cfg.ClientHandler.List)
			r.Get("/clients/{id}", cfg.ClientHandler.Get)
		}
		if cfg.ProductHandler != nil {
			r.Get("/products", cfg.ProductHandler.List)
			r.Get("/products/{id}", cfg.ProductHandler.Get)
		}

		// AUTHENTICATED routes: mutations and admin
		r.Group(func(r chi.Router) {
			if cfg.AuthMiddleware != nil {
				r.Use(cfg.AuthMiddleware)
			}

			if cfg.ClientHandler != nil {
				r.Post("/clients", cfg.ClientHandler.Create)
				r.Put("/clients/{id}", cfg.ClientHandler.Update)
				r.Delete("/clients/{id}", cfg.ClientHandler.Delete)
			}
			if cfg.ProductHandler != nil {
				r.Post("/products", cfg.ProductHandler.Create)
				r.Put("/products/{id}", cfg.ProductHandler.Update)
			}
			if cfg.AdminHandler != nil {
				r.Route("/admin", func(r chi.Router) {
					r.Get("/stats", cfg.AdminHandler.GetStats)
					r.Get("/audit", cfg.AdminHandler.Audit)
					r.Post("/load", cfg.AdminHandler.Load)
				})
			}
		})
	})

	return r
}

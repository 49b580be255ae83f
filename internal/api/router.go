package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/go-collab/internal/api/handlers"
	"github.com/hugh/go-collab/internal/api/middleware"
	"github.com/hugh/go-collab/internal/auth"
	"github.com/hugh/go-collab/internal/membership"
	"github.com/hugh/go-collab/internal/projects"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Logger         *slog.Logger
	JWTService     auth.TokenVerifier
	AuthService    auth.Authenticator
	Members        *membership.Service
	Projects       *projects.Service
	AllowedOrigins []string // CORS allowed origins
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"WWW-Authenticate"},
		MaxAge:         300,
	}))

	healthHandler := handlers.NewHealthHandler(cfg.DB)
	authHandler := handlers.NewAuthHandler(cfg.AuthService, cfg.Logger)
	projectHandler := handlers.NewProjectHandler(cfg.Projects, cfg.Logger)
	memberHandler := handlers.NewMemberHandler(cfg.Members, cfg.Logger)
	documentHandler := handlers.NewDocumentHandler(cfg.Projects, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// Public auth endpoints
	r.Post("/auth", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTService, cfg.AuthService, cfg.Logger))

		r.Get("/me", authHandler.Me)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", projectHandler.List)
			r.Post("/", projectHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				// Mutations authorize inside the service.
				r.Put("/", projectHandler.Update)
				r.Delete("/", projectHandler.Delete)
				r.Post("/members", memberHandler.Grant)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireProjectMember(cfg.Members, cfg.Logger))
					r.Get("/", projectHandler.Get)
					r.Get("/members", memberHandler.List)
					r.Get("/documents", documentHandler.ListByProject)
				})
			})
		})

		r.Route("/documents", func(r chi.Router) {
			r.Post("/", documentHandler.Create)
			r.Get("/{id}", documentHandler.Get)
			r.Put("/{id}", documentHandler.Update)
			r.Get("/{id}/download", documentHandler.Download)
		})
	})

	return &Router{r}
}

var _ http.Handler = (*Router)(nil)

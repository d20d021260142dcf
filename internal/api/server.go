// Package api provides the HTTP API server and handlers for Boipoka.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/http/response"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/metrics"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/ratelimit"
	"github.com/musaddiq-rafi/boipoka.ai-sub000/internal/store"
)

// Options tunes the HTTP surface.
type Options struct {
	Title       string
	Version     string
	CORSOrigins []string
	// IPLimiter throttles requests per client IP. Nil disables throttling.
	IPLimiter *ratelimit.KeyedRateLimiter
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    *store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	opts     Options
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(store *store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.Title == "" {
		opts.Title = "Boipoka API"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		store:    store,
		services: services,
		router:   chi.NewRouter(),
		opts:     opts,
		logger:   logger,
	}

	s.setupMiddleware()
	s.api = humachi.New(s.router, newHumaConfig(opts.Title, opts.Version))
	RegisterErrorHandler(logger)
	s.setupRoutes()

	return s
}

// newHumaConfig builds the OpenAPI config with bearer auth declared.
func newHumaConfig(title, version string) huma.Config {
	config := huma.DefaultConfig(title, version)
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	return config
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API exposes the huma API, mainly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(corsOptions(s.opts.CORSOrigins)))
	s.router.Use(metrics.Middleware)
	if s.opts.IPLimiter != nil {
		s.router.Use(RateLimitMiddleware(s.opts.IPLimiter, s.logger))
	}
	s.router.Use(authMiddleware(s.services.Auth))

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route not found", s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w, "method not allowed", s.logger)
	})
}

func corsOptions(origins []string) cors.Options {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 0 {
		opts.AllowedOrigins = []string{"*"}
		opts.AllowCredentials = false
	}
	return opts
}

func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerProfileRoutes()
	s.registerBlogRoutes()
	s.registerCollectionRoutes()
	s.registerReadingListRoutes()
	s.registerChatRoutes()
	s.registerSearchRoutes()

	s.router.Handle("/metrics", metrics.Handler())
}

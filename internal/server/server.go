// Package server provides the HTTP server and routing for Aether.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/aetherwealth/aether/internal/auth"
	"github.com/aetherwealth/aether/internal/dashboard"
	"github.com/aetherwealth/aether/internal/modules/holdings"
)

// APIRoutes registers a module's JSON routes under /api.
type APIRoutes interface {
	RegisterRoutes(r chi.Router)
}

// Config holds server configuration
type Config struct {
	Log         zerolog.Logger
	Port        int
	DevMode     bool
	Environment string
	TrustProxy  bool // apply X-Forwarded-For / X-Real-IP; only behind a proxy
	Dashboard   *dashboard.Handler
	API         []APIRoutes
	Gate        *auth.Gate
	Mounts      *holdings.Mounts
	Metrics     *Metrics
	Static      fs.FS // rooted at the static directory
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	port           int
	dashboard      *dashboard.Handler
	api            []APIRoutes
	gate           *auth.Gate
	metrics        *Metrics
	static         fs.FS
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) (*Server, error) {
	if cfg.Dashboard == nil || cfg.Gate == nil {
		return nil, errors.New("server: dashboard and gate are required")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetrics()
	}

	_ = mime.AddExtensionType(".css", "text/css")
	_ = mime.AddExtensionType(".svg", "image/svg+xml")

	log := cfg.Log.With().Str("component", "server").Logger()
	s := &Server{
		router:         chi.NewRouter(),
		log:            log,
		port:           cfg.Port,
		dashboard:      cfg.Dashboard,
		api:            cfg.API,
		gate:           cfg.Gate,
		metrics:        cfg.Metrics,
		static:         cfg.Static,
		systemHandlers: NewSystemHandlers(cfg.Mounts, cfg.DevMode, cfg.Environment, cfg.Log),
	}

	s.setupMiddleware(cfg.DevMode, cfg.TrustProxy)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the root router.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware(devMode, trustProxy bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	if trustProxy {
		s.router.Use(middleware.RealIP)
	}
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.metrics.Middleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	if s.static != nil {
		s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	}

	s.dashboard.RegisterRoutes(s.router)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		r.Use(s.gate.RequireAPI)

		for _, routes := range s.api {
			routes.RegisterRoutes(r)
		}
		r.Get("/system/status", s.systemHandlers.HandleSystemStatus)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.port).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		event := s.log.Info()
		if ww.Status() >= http.StatusInternalServerError {
			event = s.log.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

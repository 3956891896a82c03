package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/tagextract/internal/config"
	"github.com/dgallion1/tagextract/internal/pipeline"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for tag extraction.
type Server struct {
	router chi.Router
	cache  *DocCache
	stats  *pipeline.LatencyStats
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil.
func NewServer(cfg config.Config, stats *pipeline.LatencyStats, log *slog.Logger) (*Server, error) {
	cache, err := NewDocCache(cfg.Server.CacheSize)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = pipeline.NewLatencyStats(0)
	}
	s := &Server{
		cache: cache,
		stats: stats,
		log:   log,
		cfg:   cfg,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.Server.APIKey != "" {
			r.Use(AuthMiddleware(s.cfg.Server.APIKey, s.log))
		}

		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/extract/file", s.handleExtractFile)
		r.Post("/api/tags", s.handleTags)
		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

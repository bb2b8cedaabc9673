// Package server exposes the question-answering pipeline over HTTP for
// front-ends. It is a thin wrapper: all retrieval and composition
// policy lives in the pipeline package.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/siitkit/faqrag/internal/history"
	"github.com/siitkit/faqrag/internal/pipeline"
)

// Config holds server configuration. Defaults supplies the pipeline
// parameters a request may override per call; its Question field is
// ignored.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
	Defaults pipeline.Request
}

// Server serves the FAQ pipeline over HTTP.
type Server struct {
	cfg        Config
	pipe       *pipeline.Pipeline
	history    *history.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates a server. history may be nil to disable query logging.
func New(cfg Config, pipe *pipeline.Pipeline, hist *history.Store) *Server {
	s := &Server{cfg: cfg, pipe: pipe, history: hist}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	// Bounds index and model I/O per request.
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/api/query", s.handleQuery)
	r.Get("/api/history", s.handleHistory)

	return r
}

// Router returns the chi router, exposed for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("faqrag server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

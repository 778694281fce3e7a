// Package api exposes the workflow engine over HTTP, grounded on the
// teacher's internal/api/server.go (chi.Router, middleware.Logger/Recoverer,
// cors.Handler) wired to this module's two operations instead of the
// teacher's workflow CRUD surface.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ai-visible/articleengine/internal/article"
	"github.com/ai-visible/articleengine/internal/workflow"
)

// Server wires the HTTP surface to the workflow and rewrite engines.
type Server struct {
	Engine    *workflow.WorkflowEngine
	Rewriter  workflow.Rewriter
	JWTSecret string
}

// NewServer creates a Server backed by the given engine. jwtSecret may be
// empty, in which case auth is disabled (local/dev mode).
func NewServer(engine *workflow.WorkflowEngine, rewriter workflow.Rewriter, jwtSecret string) *Server {
	return &Server{Engine: engine, Rewriter: rewriter, JWTSecret: jwtSecret}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Post("/jobs", s.createJob)
		r.Post("/articles/refresh", s.refreshArticle)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("api: failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

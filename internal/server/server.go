package server

import (
	"log/slog"
	"net/http"

	"github.com/claude/liftready/internal/engine"
	"github.com/go-chi/chi/v5"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	engine *engine.Engine
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(eng *engine.Engine, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		engine: eng,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read surfaces for the UI collaborator
	s.router.Get("/api/v1/athletes/{athleteID}/readiness", s.handleReadiness)
	s.router.Post("/api/v1/athletes/{athleteID}/recommendation", s.handleRecommendation)
	s.router.Post("/api/v1/session-fatigue", s.handleSessionFatigue)

	// Workout completion is the one write path; API key required.
	s.router.Route("/api/v1/athletes/{athleteID}/sessions", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/", s.handleCompleteSession)
	})
}

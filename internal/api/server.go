package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dgallion1/papervox/internal/config"
	"github.com/dgallion1/papervox/internal/library"
	"github.com/dgallion1/papervox/internal/pipeline"
)

// Server is the HTTP API server for papervox.
type Server struct {
	router         chi.Router
	orchestrator   *pipeline.Orchestrator
	library        library.Store
	sequenceSchema *jsonschema.Schema
	log            *slog.Logger
	cfg            config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		library:      orch.Library(),
		log:          log,
		cfg:          cfg,
	}
	schema, err := compileSchema("sequence.json", sequenceRequestSchema)
	if err != nil {
		panic("api: " + err.Error())
	}
	s.sequenceSchema = schema
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/parse", s.handleParse)
		r.Post("/api/parse/batch", s.handleBatchParse)
		r.Get("/api/jobs/{jobID}", s.handleJobStatus)
		r.Get("/api/stats/parse", s.handleParseStats)

		r.Route("/api/papers", func(r chi.Router) {
			r.Get("/", s.handleListPapers)
			r.Get("/{packID}", s.handleGetPaper)
			r.Delete("/{packID}", s.handleDeletePaper)
			r.Post("/{packID}/sequence", s.handleSequence)
			r.Get("/{packID}/figures/{label}", s.handleFigure)
		})
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

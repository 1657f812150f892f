// Package httpapi exposes stored explanations and on-demand plot
// rendering over HTTP.
//
// The API is a thin layer over [store.Store] and [pipeline.Runner]:
// explanations are uploaded in the native wire format, persisted under a
// generated identifier, and rendered to plots on request. All errors are
// returned as JSON carrying the machine-readable code from pkg/errors.
//
// # Routes
//
//	GET    /healthz
//	POST   /explanations
//	GET    /explanations
//	GET    /explanations/{id}
//	DELETE /explanations/{id}
//	GET    /explanations/{id}/plots/{kind}
package httpapi

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jmaspons/shapviz/pkg/observability"
	"github.com/jmaspons/shapviz/pkg/pipeline"
	"github.com/jmaspons/shapviz/pkg/store"
)

// maxBodyBytes caps uploaded explanation documents.
const maxBodyBytes = 64 << 20

// Server handles the explanation API.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server over the given store and pipeline runner.
func NewServer(st store.Store, runner *pipeline.Runner, logger *log.Logger) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: st, runner: runner, logger: logger}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/explanations", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Get("/plots/{kind}", s.handlePlot)
		})
	})
	return r
}

// observe emits API hook events and request logs.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

		observability.API().OnRequest(req.Context(), req.Method, req.URL.Path)
		next.ServeHTTP(ww, req)

		duration := time.Since(start)
		observability.API().OnResponse(req.Context(), req.Method, req.URL.Path, ww.Status(), duration)
		s.logger.Debug("request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}

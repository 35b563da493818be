// Package api exposes the gang sheet builder over HTTP.
//
// The domain model is single-writer, so the server serializes all project
// mutations behind one mutex. Export work runs on a cloned snapshot outside
// the lock; the snapshot version tells clients whether the artifact still
// matches the live project.
package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/printforge/gangsheet/pkg/config"
	"github.com/printforge/gangsheet/pkg/errors"
	"github.com/printforge/gangsheet/pkg/export"
	"github.com/printforge/gangsheet/pkg/project"
	"github.com/printforge/gangsheet/pkg/store"
)

// Server holds the project registry and its collaborators.
type Server struct {
	cfg      config.Config
	store    store.Store
	exporter *export.Exporter
	logger   *log.Logger

	mu       sync.Mutex
	projects map[string]*project.Project
}

// Option configures a Server.
type Option func(*Server)

// WithExporter overrides the artifact exporter.
func WithExporter(e *export.Exporter) Option {
	return func(s *Server) { s.exporter = e }
}

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server backed by the given store.
func New(cfg config.Config, st store.Store, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		store:    st,
		logger:   log.Default(),
		projects: make(map[string]*project.Project),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.exporter == nil {
		s.exporter = export.New(export.WithLogger(s.logger))
	}
	return s
}

// Handler builds the HTTP routing table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLog)

	r.Route("/api", func(r chi.Router) {
		r.Get("/presets", s.handlePresets)

		r.Post("/projects", s.handleCreateProject)
		r.Post("/projects/load", s.handleLoad)

		r.Route("/projects/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetProject)
			r.Delete("/", s.handleDeleteProject)

			r.Post("/items", s.handleUpload)
			r.Patch("/items/{itemID}", s.handleUpdateItem)
			r.Delete("/items/{itemID}", s.handleRemoveItem)
			r.Post("/items/{itemID}/duplicate", s.handleDuplicate)
			r.Post("/items/{itemID}/autofill", s.handleAutofill)

			r.Post("/layout", s.handleLayout)
			r.Post("/status", s.handleStatus)
			r.Get("/price", s.handlePrice)

			r.Get("/export.svg", s.handleExport(export.FormatSVG))
			r.Get("/export.png", s.handleExport(export.FormatPNG))
			r.Get("/export.pdf", s.handleExport(export.FormatPDF))

			r.Get("/share", s.handleShare)
			r.Post("/save", s.handleSave)
		})
	})
	return r
}

// requestLog logs one line per request at debug level.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// lookup fetches a registered project by id. Callers must hold s.mu.
func (s *Server) lookup(id string) (*project.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "project %s not found", id)
	}
	return p, nil
}

// snapshot clones a project for lock-free export work.
func (s *Server) snapshot(id string) (export.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.lookup(id)
	if err != nil {
		return export.Snapshot{}, err
	}
	return export.Snap(p), nil
}

// writeJSON encodes v as the response body.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// writeError maps a domain error to an HTTP status and a structured body.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	s.writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    string(code),
			"message": errors.UserMessage(err),
		},
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodePersistenceMiss:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidUnit,
		errors.ErrCodeInvalidLayout, errors.ErrCodeInvalidUpload,
		errors.ErrCodeSharePayloadInvalid:
		return http.StatusBadRequest
	case errors.ErrCodeDecodeFailure, errors.ErrCodePersistenceCorrupt:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeFinalized:
		return http.StatusConflict
	case errors.ErrCodeRendererUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Package server implements the menupress HTTP API.
//
// The API exposes the layout pipeline over JSON:
//
//	POST   /v1/layouts          compute a layout document
//	GET    /v1/documents/{id}   fetch a stored document record
//	DELETE /v1/documents/{id}   remove a stored document record
//	GET  /v1/templates          list templates
//	GET  /v1/templates/{id}     fetch a template
//	PUT  /v1/templates/{id}     create or replace a template
//	GET  /v1/menus              list menu snapshots
//	POST /v1/menus              store a menu snapshot
//	GET  /v1/menus/{id}         fetch a menu snapshot
//	GET  /healthz               liveness probe
//
// Errors are returned as a JSON envelope carrying the machine-readable
// error code from the errors package.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/menupress/menupress/pkg/errors"
	"github.com/menupress/menupress/pkg/menu"
	"github.com/menupress/menupress/pkg/observability"
	"github.com/menupress/menupress/pkg/pipeline"
	"github.com/menupress/menupress/pkg/store"
	"github.com/menupress/menupress/pkg/template"
)

// Server wires the pipeline runner and store into an HTTP handler.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger

	requestTimeout time.Duration
}

// New creates a server. The runner must carry the same store.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, requestTimeout time.Duration) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if requestTimeout <= 0 {
		requestTimeout = 60 * time.Second
	}
	return &Server{
		runner:         runner,
		store:          st,
		logger:         logger,
		requestTimeout: requestTimeout,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/layouts", s.handleComputeLayout)
		r.Get("/documents/{id}", s.handleGetDocument)
		r.Delete("/documents/{id}", s.handleDeleteDocument)

		r.Get("/templates", s.handleListTemplates)
		r.Get("/templates/{id}", s.handleGetTemplate)
		r.Put("/templates/{id}", s.handlePutTemplate)

		r.Get("/menus", s.handleListMenus)
		r.Post("/menus", s.handlePostMenu)
		r.Get("/menus/{id}", s.handleGetMenu)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Middleware
// =============================================================================

// logRequests logs each request and feeds the HTTP observability hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.Host, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.Host, r.URL.Path, ww.Status(), elapsed)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed.Round(time.Millisecond))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// layoutResponse is the envelope returned by POST /v1/layouts.
type layoutResponse struct {
	Document    any    `json:"document"`
	DocumentID  string `json:"document_id,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Pages       int    `json:"pages"`
	Tiles       int    `json:"tiles"`
	CacheHit    bool   `json:"cache_hit"`
}

func (s *Server) handleComputeLayout(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "decode request body: %v", err))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := layoutResponse{
		Document:    result.Document,
		Fingerprint: result.Fingerprint,
		Pages:       result.Stats.PageCount,
		Tiles:       result.Stats.TileCount,
		CacheHit:    result.CacheInfo.LayoutHit,
	}
	if result.Record != nil {
		resp.DocumentID = result.Record.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetDocument(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteDocument(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListTemplates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.store.GetTemplate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) handlePutTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl template.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "decode template: %v", err))
		return
	}
	tpl.ID = chi.URLParam(r, "id")
	tpl.ApplyDefaults()
	if err := tpl.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.PutTemplate(r.Context(), &tpl); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &tpl)
}

func (s *Server) handleListMenus(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.ListMenus(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handlePostMenu(w http.ResponseWriter, r *http.Request) {
	var m menu.Menu
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidFormat, "decode menu: %v", err))
		return
	}
	if m.ID == "" {
		fresh := menu.New(m.Name)
		m.ID = fresh.ID
		if m.ExtractedAt.IsZero() {
			m.ExtractedAt = fresh.ExtractedAt
		}
	}
	if err := m.Validate(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.PutMenu(r.Context(), &m); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, &m)
}

func (s *Server) handleGetMenu(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMenu(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Package server exposes the registry client as a small read-only HTTP API.
//
// Routes:
//
//	GET /healthz           liveness and build version
//	GET /company/{id}      expanded company profile, 404 {} when unknown
//	GET /search?q=NAME     expanded profiles of every search hit
//	GET /fetch?url=/PATH   one registry resource, unexpanded
//
// Registry rejections are relayed with their original status and body.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/chouse/pkg/buildinfo"
	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/record"
)

const shutdownTimeout = 10 * time.Second

// Registry is the subset of the registry client the server needs.
type Registry interface {
	LookupByID(ctx context.Context, companyID string) (*record.Map, error)
	SearchByName(ctx context.Context, companyName string) ([]*record.Map, error)
	FetchURL(ctx context.Context, rawURL string) (*record.Map, error)
}

// Server serves registry data over HTTP.
type Server struct {
	registry Registry
	logger   *log.Logger
}

// New creates a server backed by registry.
func New(registry Registry, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{registry: registry, logger: logger}
}

// Routes returns the router with all middleware and handlers mounted.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/company/{id}", s.handleCompany)
	r.Get("/search", s.handleSearch)
	r.Get("/fetch", s.handleFetch)
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleCompany(w http.ResponseWriter, r *http.Request) {
	company, err := s.registry.LookupByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if company.IsEmpty() {
		writeJSON(w, http.StatusNotFound, company)
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "query parameter q is required"))
		return
	}
	results, err := s.registry.SearchByName(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	u := r.URL.Query().Get("url")
	// Only registry paths: an absolute URL would send the API key elsewhere.
	if !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidURL, "url must be a registry path starting with /"))
		return
	}
	res, err := s.registry.FetchURL(r.Context(), u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type errorBody struct {
	Error struct {
		Code    errors.Code `json:"code"`
		Message string      `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	s.logger.Debug("request failed", "request_id", GetRequestID(r.Context()), "status", status, "err", err)

	var up *errors.UpstreamError
	if stderrors.As(err, &up) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(up.StatusCode)
		w.Write(up.Body)
		return
	}

	var body errorBody
	body.Error.Code = errors.GetCode(err)
	if body.Error.Code == "" {
		body.Error.Code = errors.ErrCodeInternal
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/marquee/internal/catalog"
)

// DefaultBasePath is where the record collection is mounted.
const DefaultBasePath = "/filmes"

const maxBodyBytes = 1 << 20

// Options configures a Server. Zero values select defaults.
type Options struct {
	BasePath string
	Logger   *slog.Logger
	Now      func() time.Time
	// Registry receives the server's metrics. A fresh registry is used
	// when nil.
	Registry *prometheus.Registry
	// RequestLog enables chi's request logger.
	RequestLog bool
}

// Server is the reference catalog REST API.
type Server struct {
	repo    Repository
	logger  *slog.Logger
	now     func() time.Time
	metrics *metrics
	router  chi.Router
}

// New builds the HTTP handler for repo.
func New(repo Repository, opts Options) *Server {
	s := &Server{
		repo:   repo,
		logger: opts.Logger,
		now:    opts.Now,
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.now == nil {
		s.now = time.Now
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(reg)

	r := chi.NewRouter()
	if opts.RequestLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			s.logger.Error("unable to write healthcheck", "err", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())

	r.Route(normalizeBasePath(opts.BasePath), func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/{id}", s.handleGet)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func normalizeBasePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		p = strings.Trim(DefaultBasePath, "/")
	}
	return "/" + p
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.repo.List(r.Context())
	if err != nil {
		s.internalError(w, "list", err)
		return
	}
	s.metrics.records.Set(float64(len(records)))
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.repo.Get(r.Context(), recordID(r))
	if err != nil {
		s.repoError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}
	rec, err := s.repo.Create(r.Context(), draft)
	if err != nil {
		s.internalError(w, "create", err)
		return
	}
	s.logger.Info("record created", "id", rec.ID, "title", rec.Title)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	draft, ok := s.decodeDraft(w, r)
	if !ok {
		return
	}
	id := recordID(r)
	rec, err := s.repo.Update(r.Context(), id, draft)
	if err != nil {
		s.repoError(w, "update", err)
		return
	}
	s.logger.Info("record updated", "id", id)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := recordID(r)
	if err := s.repo.Delete(r.Context(), id); err != nil {
		s.repoError(w, "delete", err)
		return
	}
	s.logger.Info("record deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// decodeDraft reads and validates the request body. It writes the error
// response itself and reports whether the handler should continue.
func (s *Server) decodeDraft(w http.ResponseWriter, r *http.Request) (catalog.Draft, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	// The body may carry an id (clients often echo the whole record); it
	// is ignored in favour of the path.
	var body catalog.Record
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid JSON body: %v", err)})
		return catalog.Draft{}, false
	}

	draft := body.Draft.Normalize()
	if errs := catalog.Validate(draft, s.now()); !errs.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, validationBody{Errors: errs})
		return catalog.Draft{}, false
	}
	return draft, true
}

func (s *Server) repoError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		return
	}
	s.internalError(w, op, err)
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("repository failure", "op", op, "err", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
}

func recordID(r *http.Request) catalog.ID {
	return catalog.ID(strings.TrimSpace(chi.URLParam(r, "id")))
}

type errorBody struct {
	Error string `json:"error"`
}

type validationBody struct {
	Errors catalog.FieldErrors `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

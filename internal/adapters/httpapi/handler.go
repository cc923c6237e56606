// Package httpapi exposes the people repository over HTTP with JSON bodies.
package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"peopledb/internal/core"
	"peopledb/pkg/domain"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
)

const maxBodyBytes = 1 << 20

// Handler routes people and organization requests to a repository.
type Handler struct {
	repo    domain.Repository
	logger  core.Logger
	metrics http.Handler
	now     func() time.Time
	router  *mux.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the request logger.
func WithLogger(logger core.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithMetricsHandler mounts metrics at GET /metrics.
func WithMetricsHandler(metrics http.Handler) Option {
	return func(h *Handler) { h.metrics = metrics }
}

// WithClock overrides the time source used to measure encoding.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler constructs the HTTP handler over repo.
func NewHandler(repo domain.Repository, opts ...Option) *Handler {
	h := &Handler{repo: repo, logger: nopLogger{}, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	h.router = h.routes()
	return h
}

func (h *Handler) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/person", h.handleListPeople).Methods(http.MethodGet)
	r.HandleFunc("/person", h.handleCreatePerson).Methods(http.MethodPost)
	r.HandleFunc("/person/limit/{n:[0-9]+}", h.handleListPeopleLimit).Methods(http.MethodGet)
	r.HandleFunc("/person/{id:-?[0-9]+}", h.handleGetPerson).Methods(http.MethodGet)
	r.HandleFunc("/organization", h.handleListOrganizations).Methods(http.MethodGet)
	r.HandleFunc("/organization", h.handleCreateOrganization).Methods(http.MethodPost)
	r.HandleFunc("/organization/{id:-?[0-9]+}/ceo", h.handleGetOrganizationCEO).Methods(http.MethodGet)
	if h.metrics != nil {
		r.Handle("/metrics", h.metrics).Methods(http.MethodGet)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) handleListPeople(w http.ResponseWriter, r *http.Request) {
	people, err := h.repo.ListPeople(r.Context())
	if err != nil {
		h.writeRepoError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, people)
}

func (h *Handler) handleListPeopleLimit(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.ParseInt(mux.Vars(r)["n"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "limit out of range")
		return
	}
	people, err := h.repo.ListPeopleLimit(r.Context(), n)
	if err != nil {
		h.writeRepoError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, people)
}

func (h *Handler) handleGetPerson(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	person, err := h.repo.GetPerson(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, person)
}

func (h *Handler) handleGetOrganizationCEO(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ceo, err := h.repo.GetOrganizationCEO(r.Context(), id)
	if err != nil {
		h.writeRepoError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, ceo)
}

func (h *Handler) handleCreatePerson(w http.ResponseWriter, r *http.Request) {
	var input personRequest
	if !decodeBody(w, r, &input) {
		return
	}
	created, err := h.repo.InsertPerson(r.Context(), input.toDomain())
	if err != nil {
		h.writeRepoError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, created)
}

func (h *Handler) handleListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.repo.ListOrganizationsWithCEO(r.Context())
	if err != nil {
		h.writeRepoError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, orgs)
}

func (h *Handler) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	var input organizationRequest
	if !decodeBody(w, r, &input) {
		return
	}
	created, err := h.repo.InsertOrganization(r.Context(), input.toDomain())
	if err != nil {
		h.writeRepoError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, created)
}

func pathID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id out of range")
		return 0, false
	}
	return int32(id), true
}

type requiredFields interface {
	missing() []string
}

// decodeBody reads exactly one JSON object into dst. Trailing data after the
// object and absent fields are both rejected with 400.
func decodeBody(w http.ResponseWriter, r *http.Request, dst requiredFields) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read request body: "+err.Error())
		return false
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		writeError(w, http.StatusBadRequest, "empty request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	if missing := dst.missing(); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return false
	}
	return true
}

func (h *Handler) writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrPoolExhausted):
		h.logger.Warn("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "database busy, retry later")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.logger.Warn("request abandoned", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON encodes payload up front so encoding time is measured apart from
// the network write.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	start := h.now()
	body, err := json.Marshal(payload)
	elapsed := h.now().Sub(start)
	if err != nil {
		h.logger.Error("encode response", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	h.logger.Info("encoded response", "path", r.URL.Path, "bytes", len(body), "elapsed", elapsed)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(map[string]string{"error": message})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/uakit/pkg/enrich"
	"github.com/dmitrymomot/uakit/pkg/event"
	"github.com/dmitrymomot/uakit/pkg/logger"
)

// DefaultMaxBodyBytes limits request bodies unless WithMaxBodyBytes says otherwise.
const DefaultMaxBodyBytes = 1 << 20

// Engine is the enrichment engine the handlers delegate to.
// *enrich.Engine implements it.
type Engine interface {
	Classify(ctx context.Context, source any) (enrich.Fields, bool)
	Apply(ctx context.Context, rec enrich.Record) bool
}

// CheckFunc reports whether a dependency is ready.
type CheckFunc func(context.Context) error

// HandlerOption configures NewHandler.
type HandlerOption func(*handler)

// WithLogger sets the logger for access and error logs.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *handler) { h.log = logger.OrDiscard(l) }
}

// WithMetrics mounts m at GET /metrics.
func WithMetrics(m http.Handler) HandlerOption {
	return func(h *handler) { h.metrics = m }
}

// WithReadiness adds checks run by GET /readyz.
func WithReadiness(checks ...CheckFunc) HandlerOption {
	return func(h *handler) {
		for _, c := range checks {
			if c != nil {
				h.checks = append(h.checks, c)
			}
		}
	}
}

// WithMaxBodyBytes sets the request body limit.
func WithMaxBodyBytes(n int64) HandlerOption {
	return func(h *handler) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

type handler struct {
	engine  Engine
	log     *slog.Logger
	metrics http.Handler
	checks  []CheckFunc
	maxBody int64
}

// NewHandler returns the API router for engine.
func NewHandler(engine Engine, opts ...HandlerOption) http.Handler {
	h := &handler{
		engine:  engine,
		log:     logger.Discard(),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(accessLog(h.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.liveness)
	r.Get("/readyz", h.readiness)
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/classify", h.classifyQuery)
		r.Post("/classify", h.classifyBody)
		r.Post("/enrich", h.enrich)
	})

	return r
}

func (h *handler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ALIVE")
}

func (h *handler) readiness(w http.ResponseWriter, r *http.Request) {
	for _, check := range h.checks {
		if err := check(r.Context()); err != nil {
			h.log.ErrorContext(r.Context(), "readiness check failed", logger.Component("httpapi"), logger.Error(err))
			writeText(w, http.StatusServiceUnavailable, "NOT_READY")
			return
		}
	}
	writeText(w, http.StatusOK, "READY")
}

func (h *handler) classifyQuery(w http.ResponseWriter, r *http.Request) {
	h.classify(w, r, r.URL.Query().Get("ua"))
}

type classifyRequest struct {
	UserAgent string `json:"user_agent"`
}

func (h *handler) classifyBody(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	h.classify(w, r, req.UserAgent)
}

func (h *handler) classify(w http.ResponseWriter, r *http.Request, ua string) {
	fields, ok := h.engine.Classify(r.Context(), ua)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, fields)
}

// enrich accepts one event object or an array of them and answers with the
// same shape. Events without a classifiable source are returned unchanged.
func (h *handler) enrich(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := h.decode(w, r, &raw); err != nil {
		writeError(w, err)
		return
	}

	if trimmed := bytes.TrimLeft(raw, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			writeError(w, errors.Join(ErrInvalidBody, err))
			return
		}
		events := make([]*event.Event, 0, len(items))
		for _, item := range items {
			ev, err := event.Parse(item)
			if err != nil {
				writeError(w, errors.Join(ErrInvalidBody, err))
				return
			}
			h.engine.Apply(r.Context(), ev)
			events = append(events, ev)
		}
		writeJSON(w, http.StatusOK, events)
		return
	}

	ev, err := event.Parse(raw)
	if err != nil {
		writeError(w, errors.Join(ErrInvalidBody, err))
		return
	}
	h.engine.Apply(r.Context(), ev)
	writeJSON(w, http.StatusOK, ev)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, h.maxBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return errors.Join(ErrInvalidBody, errors.New("empty body"))
		}
		return errors.Join(ErrInvalidBody, err)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	if errors.Is(err, ErrBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

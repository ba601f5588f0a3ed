package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/keyframe"
	"github.com/aretw0/keyframe/internal/logging"
	"github.com/aretw0/keyframe/internal/presentation/graph"
	"github.com/aretw0/keyframe/pkg/domain"
	"github.com/aretw0/keyframe/pkg/observability"
	"github.com/aretw0/keyframe/pkg/runner"
	"github.com/aretw0/keyframe/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Catalog is the read side of the definition registry.
type Catalog interface {
	Names() []string
	Get(name string) (*domain.AnimatorData, bool)
}

// Server serves inspection and simulation endpoints over a Catalog.
type Server struct {
	Catalog   Catalog
	Streams   *StreamManager
	Logger    *slog.Logger
	Metrics   *observability.Metrics
	Gatherer  prometheus.Gatherer
	MaxFrames int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetrics records lifecycle metrics of simulated animators.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.Metrics = m
	}
}

// WithGatherer exposes g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithMaxFrames bounds the updates of one simulation request.
func WithMaxFrames(n int) Option {
	return func(s *Server) {
		s.MaxFrames = n
	}
}

// NewServer creates a Server with the given options.
func NewServer(catalog Catalog, opts ...Option) *Server {
	s := &Server{
		Catalog:   catalog,
		Streams:   NewStreamManager(),
		Logger:    logging.NewNop(),
		MaxFrames: runner.DefaultMaxFrames,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the catalog.
func NewHandler(catalog Catalog, opts ...Option) http.Handler {
	return NewServer(catalog, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/animators", func(r chi.Router) {
		r.Get("/", s.ListAnimators)
		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", s.GetAnimator)
			r.Get("/graph", s.GetGraph)
			r.Get("/validate", s.Validate)
			r.Post("/simulate", s.Simulate)
		})
	})

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*domain.AnimatorData, bool) {
	name := chi.URLParam(r, "name")
	def, ok := s.Catalog.Get(name)
	if !ok {
		http.Error(w, fmt.Sprintf("%v: %s", domain.ErrAnimatorNotFound, name), http.StatusNotFound)
		return nil, false
	}
	return def, true
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":       "keyframe-http",
		"version":   strings.TrimSpace(keyframe.Version),
		"animators": len(s.Catalog.Names()),
	})
}

// ListAnimators handles the GET /animators request.
func (s *Server) ListAnimators(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Catalog.Names())
}

// GetAnimator handles the GET /animators/{name} request.
func (s *Server) GetAnimator(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, def)
}

// GetGraph handles the GET /animators/{name}/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(graph.GenerateMermaid(def, nil)))
}

// ValidationResponse is the body of GET /animators/{name}/validate.
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// Validate handles the GET /animators/{name}/validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}

	resp := ValidationResponse{Errors: []string{}, Warnings: []string{}}
	for _, err := range schema.ValidationErrors(schema.Validate(def)) {
		resp.Errors = append(resp.Errors, err.Error())
	}
	for _, warn := range schema.Lint(def) {
		resp.Warnings = append(resp.Warnings, warn.Error())
	}
	resp.Valid = len(resp.Errors) == 0
	s.writeJSON(w, http.StatusOK, resp)
}

// Simulate handles the POST /animators/{name}/simulate request. The body is
// a runner.Script; the response is the resulting runner.Trace. Failed
// expectations are reported in the trace, not as an HTTP error.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	def, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Simulate: invalid request body", "error", err)
		return
	}
	script, err := runner.DecodeScript(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := []keyframe.Option{keyframe.WithLogger(s.Logger)}
	if s.Metrics != nil {
		opts = append(opts, keyframe.WithHooks(s.Metrics.Hooks(def.Name)))
	}
	anim, err := keyframe.New(*def, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	trace, err := runner.NewRunner(runner.WithLogger(s.Logger), runner.WithMaxFrames(s.MaxFrames)).Run(r.Context(), anim, script)
	switch {
	case err == nil, errors.Is(err, runner.ErrExpectationFailed):
		s.writeJSON(w, http.StatusOK, trace)
	case errors.Is(err, runner.ErrTooManyFrames):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, fmt.Sprintf("Simulate error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("Simulate failed", "error", err, "animator", def.Name)
	}
}

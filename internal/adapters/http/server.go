package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/picograph/internal/cartridge"
	presentation "github.com/aretw0/picograph/internal/presentation/graph"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/aretw0/picograph/pkg/graph"
	"github.com/aretw0/picograph/pkg/registry"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// DefaultMaxBodyBytes bounds graph documents accepted by POST handlers.
const DefaultMaxBodyBytes = 4 << 20

// Engine defines the compiler surface the server exposes.
type Engine interface {
	Compile(ctx context.Context, g domain.Graph) (string, error)
	Validate(g domain.Graph) error
	Catalogue() *registry.Registry
}

// Server serves the compile API.
type Server struct {
	Engine       Engine
	Version      string
	Metrics      http.Handler
	Logger       *slog.Logger
	MaxBodyBytes int64
}

type Option func(*Server)

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithMaxBodyBytes overrides DefaultMaxBodyBytes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		s.MaxBodyBytes = n
	}
}

// CompileResponse is the body of a successful POST /compile.
type CompileResponse struct {
	RequestID string `json:"request_id"`
	Source    string `json:"source"`
	Cartridge string `json:"cartridge,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Node      string `json:"node,omitempty"`
}

type requestIDKey struct{}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{
		Engine:       engine,
		Version:      "dev",
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/nodes", s.ListNodes)
	r.Post("/compile", s.Compile)
	r.Post("/validate", s.Validate)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":     "picograph-http",
		"version": s.Version,
		"nodes":   s.Engine.Catalogue().Len(),
	})
}

// ListNodes handles GET /nodes.
func (s *Server) ListNodes(w http.ResponseWriter, r *http.Request) {
	modules := s.Engine.Catalogue().List()
	defs := make([]domain.NodeDefinition, 0, len(modules))
	for _, m := range modules {
		defs = append(defs, m.Definition)
	}
	s.writeJSON(w, http.StatusOK, defs)
}

// Compile handles POST /compile. ?format=cart also returns a .p8 cartridge.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}

	src, err := s.Engine.Compile(r.Context(), g)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := CompileResponse{RequestID: requestIDFrom(r.Context()), Source: src}
	if r.URL.Query().Get("format") == "cart" {
		cart, err := cartridge.Merge(nil, src)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Cartridge = string(cart)
	}
	s.Logger.Info("graph compiled", "request_id", resp.RequestID, "nodes", len(g.Nodes), "bytes", len(src))
	s.writeJSON(w, http.StatusOK, resp)
}

// Validate handles POST /validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	g, ok := s.readGraph(w, r)
	if !ok {
		return
	}
	if err := s.Engine.Validate(g); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (domain.Graph, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				RequestID: requestIDFrom(r.Context()),
				Error:     fmt.Sprintf("graph document exceeds %d bytes", tooLarge.Limit),
				Kind:      "invalid_graph",
			})
			return domain.Graph{}, false
		}
		s.writeError(w, r, err)
		return domain.Graph{}, false
	}

	g, err := graph.Decode(data)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %w", domain.ErrInvalidGraph, err))
		return domain.Graph{}, false
	}
	return g, true
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.ErrorKind(err)
	status := http.StatusUnprocessableEntity
	switch kind {
	case "internal":
		status = http.StatusInternalServerError
		s.Logger.Error("request failed", "request_id", requestIDFrom(r.Context()), "error", err)
	case "invalid_graph":
		status = http.StatusBadRequest
	default:
		s.Logger.Warn("graph rejected", "request_id", requestIDFrom(r.Context()), "kind", kind, "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{
		RequestID: requestIDFrom(r.Context()),
		Error:     err.Error(),
		Kind:      kind,
		Node:      presentation.FailedNode(err),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}

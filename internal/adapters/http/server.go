package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/parseropts"
	"github.com/aretw0/graft/pkg/plugins"
	"github.com/aretw0/graft/pkg/ports"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 8 << 20

// Engine defines the transformation core the server drives.
type Engine interface {
	Transform(ctx context.Context, source string, refs []plugins.Ref) (*ast.Node, error)
	TransformWithOptions(ctx context.Context, source string, refs []plugins.Ref, base parseropts.Options) (*ast.Node, error)
	Catalog() *plugins.Catalog
	HostVersion() int
	ParserOptions() parseropts.Options
	ReplacementLimit() int
}

// Pinger is implemented by caches that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TransformRequest is the body of POST /v1/transform.
type TransformRequest struct {
	Source  string              `json:"source"`
	Plugins []plugins.Ref       `json:"plugins"`
	Parser  *parseropts.Options `json:"parser,omitempty"`
}

// TransformResponse is the success body of POST /v1/transform.
type TransformResponse struct {
	AST    json.RawMessage `json:"ast"`
	Cached bool            `json:"cached"`
}

// PluginInfo describes a catalog entry for GET /v1/plugins.
type PluginInfo struct {
	Name               string   `json:"name"`
	RequiredAPIVersion int      `json:"requiredApiVersion"`
	Options            []string `json:"options,omitempty"`
	Description        string   `json:"description,omitempty"`
}

// Server serves the transform API.
type Server struct {
	Engine  Engine
	Cache   ports.ResultCache
	Metrics http.Handler
	Logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithCache enables result caching.
func WithCache(c ports.ResultCache) Option {
	return func(s *Server) { s.Cache = c }
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.Metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.Logger = l }
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{Engine: engine}
	for _, opt := range opts {
		opt(s)
	}
	if s.Logger == nil {
		s.Logger = logging.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.Health)
	r.Get("/v1/plugins", s.ListPlugins)
	r.Post("/v1/transform", s.Transform)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	return r
}

// Transform handles the POST /v1/transform request.
func (s *Server) Transform(w http.ResponseWriter, r *http.Request) {
	var req TransformRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error(), Kind: "request"})
		return
	}

	ctx := r.Context()
	key := s.cacheKey(req)
	if key != "" {
		if data, ok, err := s.Cache.Get(ctx, key); err != nil {
			s.Logger.Warn("cache read failed", "err", err)
		} else if ok {
			writeJSON(w, http.StatusOK, TransformResponse{AST: data, Cached: true})
			return
		}
	}

	var (
		root *ast.Node
		err  error
	)
	if req.Parser != nil {
		root, err = s.Engine.TransformWithOptions(ctx, req.Source, req.Plugins, *req.Parser)
	} else {
		root, err = s.Engine.Transform(ctx, req.Source, req.Plugins)
	}
	if err != nil {
		status, body := mapError(err)
		s.Logger.Info("transform rejected", "status", status, "kind", body.Kind, "err", err,
			"request_id", middleware.GetReqID(ctx))
		writeJSON(w, status, body)
		return
	}

	data, err := json.Marshal(root)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Kind: "encode"})
		return
	}
	if key != "" {
		if err := s.Cache.Set(ctx, key, data); err != nil {
			s.Logger.Warn("cache write failed", "err", err)
		}
	}
	writeJSON(w, http.StatusOK, TransformResponse{AST: data})
}

// cacheKey returns "" when caching is disabled or the request cannot be hashed.
func (s *Server) cacheKey(req TransformRequest) string {
	if s.Cache == nil {
		return ""
	}
	key, err := ports.Digest(struct {
		Host  int                `json:"host"`
		Base  parseropts.Options `json:"base"`
		Limit int                `json:"limit"`
		TransformRequest
	}{s.Engine.HostVersion(), s.Engine.ParserOptions(), s.Engine.ReplacementLimit(), req})
	if err != nil {
		s.Logger.Warn("request not cacheable", "err", err)
		return ""
	}
	return key
}

// ListPlugins handles the GET /v1/plugins request.
func (s *Server) ListPlugins(w http.ResponseWriter, r *http.Request) {
	decls := s.Engine.Catalog().All()
	out := make([]PluginInfo, 0, len(decls))
	for _, d := range decls {
		out = append(out, PluginInfo{
			Name:               d.Name,
			RequiredAPIVersion: d.RequiredAPIVersion,
			Options:            d.OptionsSchema.Describe(),
			Description:        d.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Health handles the GET /healthz request.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.Cache.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "cache": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "hostVersion": s.Engine.HostVersion()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "err", err)
	}
}

package graft

import (
	"context"
	"log/slog"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/internal/runtime"
	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/parser"
	"github.com/aretw0/graft/pkg/parseropts"
	"github.com/aretw0/graft/pkg/plugins"
	"github.com/aretw0/graft/pkg/traverse"
	"github.com/aretw0/graft/pkg/version"
)

// Engine is the high-level entry point for the graft library.
// It wraps the internal pipeline and resolves plugins by name through a catalog.
type Engine struct {
	pipeline      *runtime.Pipeline
	parser        parser.Parser
	catalog       *plugins.Catalog
	hooks         domain.LifecycleHooks
	logger        *slog.Logger
	parserOptions parseropts.Options
	hostVersion   int
	limit         int
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithParser replaces the default serialized-tree parser.
func WithParser(p parser.Parser) Option {
	return func(e *Engine) {
		e.parser = p
	}
}

// WithCatalog sets the catalog plugin names are resolved against (default: plugins.Default()).
func WithCatalog(c *plugins.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithParserOptions sets the base parser options plugins build upon.
func WithParserOptions(opts parseropts.Options) Option {
	return func(e *Engine) {
		e.parserOptions = opts
	}
}

// WithHostVersion overrides the API version reported to plugins (default: version.Host).
func WithHostVersion(v int) Option {
	return func(e *Engine) {
		e.hostVersion = v
	}
}

// WithReplacementLimit bounds node replacements per node type in one run.
func WithReplacementLimit(limit int) Option {
	return func(e *Engine) {
		e.limit = limit
	}
}

// New initializes a new graft Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{hostVersion: version.Host}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.parser == nil {
		eng.parser = parser.NewTreeParser()
	}
	if eng.catalog == nil {
		eng.catalog = plugins.Default()
	}
	// Ensure logger is initialized so the pipeline never logs to a nil handler.
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	eng.pipeline = eng.newPipeline(eng.parserOptions)

	return eng
}

func (e *Engine) newPipeline(base parseropts.Options) *runtime.Pipeline {
	opts := []runtime.PipelineOption{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithParserOptions(base),
	}
	if e.limit > 0 {
		opts = append(opts, runtime.WithReplacementLimit(e.limit))
	}
	return runtime.NewPipeline(e.parser, opts...)
}

// Transform resolves refs through the catalog and runs them, in order, over source.
func (e *Engine) Transform(ctx context.Context, source string, refs []plugins.Ref) (*ast.Node, error) {
	decls, err := e.catalog.Resolve(refs)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, source, decls)
}

// TransformWithOptions is Transform with base parser options replacing the
// engine's for this call only.
func (e *Engine) TransformWithOptions(ctx context.Context, source string, refs []plugins.Ref, base parseropts.Options) (*ast.Node, error) {
	decls, err := e.catalog.Resolve(refs)
	if err != nil {
		return nil, err
	}
	return e.newPipeline(base).Run(ctx, source, decls, e.hostVersion)
}

// Run executes declarations that are not in the catalog.
func (e *Engine) Run(ctx context.Context, source string, decls []domain.PluginDeclaration) (*ast.Node, error) {
	return e.pipeline.Run(ctx, source, decls, e.hostVersion)
}

// Check initializes refs and merges their visitors without parsing anything.
// It returns the parser options the plugins would parse with.
func (e *Engine) Check(ctx context.Context, refs []plugins.Ref) (parseropts.Options, error) {
	decls, err := e.catalog.Resolve(refs)
	if err != nil {
		return parseropts.Options{}, err
	}
	prep, err := e.pipeline.Prepare(ctx, decls, e.hostVersion)
	if err != nil {
		return parseropts.Options{}, err
	}
	if _, err := prep.Registry(); err != nil {
		return parseropts.Options{}, err
	}
	return prep.ParserOptions, nil
}

// Parse parses source with the engine's base parser options and no plugins.
func (e *Engine) Parse(source string) (*ast.Node, error) {
	root, err := e.parser.Parse(source, e.parserOptions)
	if err != nil {
		return nil, parser.AsSyntaxError(err)
	}
	return root, nil
}

// Catalog returns the catalog used to resolve plugin names.
func (e *Engine) Catalog() *plugins.Catalog {
	return e.catalog
}

// HostVersion returns the API version reported to plugins.
func (e *Engine) HostVersion() int {
	return e.hostVersion
}

// ParserOptions returns a copy of the base parser options plugins build upon.
func (e *Engine) ParserOptions() parseropts.Options {
	return e.parserOptions.Clone()
}

// ReplacementLimit returns the per node type replacement bound in effect.
func (e *Engine) ReplacementLimit() int {
	if e.limit > 0 {
		return e.limit
	}
	return traverse.DefaultReplacementLimit
}

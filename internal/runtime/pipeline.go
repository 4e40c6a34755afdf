// Package runtime composes plugins into a single transformation run:
// initialization, parser configuration, parsing, visitor merging and traversal.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/parser"
	"github.com/aretw0/graft/pkg/parseropts"
	"github.com/aretw0/graft/pkg/schema"
	"github.com/aretw0/graft/pkg/traverse"
	"github.com/aretw0/graft/pkg/version"
	"github.com/aretw0/graft/pkg/visitor"
)

// Pipeline runs ordered plugin lists against source text.
// It holds configuration only and is safe for concurrent use.
type Pipeline struct {
	parser      parser.Parser
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	baseOptions parseropts.Options
	limit       int
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the structured logger. A nil logger is ignored.
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithLifecycleHooks installs observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) PipelineOption {
	return func(p *Pipeline) { p.hooks = hooks }
}

// WithParserOptions sets the options plugins mutate before parsing.
func WithParserOptions(opts parseropts.Options) PipelineOption {
	return func(p *Pipeline) { p.baseOptions = opts.Clone() }
}

// WithReplacementLimit overrides traverse.DefaultReplacementLimit.
func WithReplacementLimit(limit int) PipelineOption {
	return func(p *Pipeline) { p.limit = limit }
}

// NewPipeline creates a pipeline that parses with p.
func NewPipeline(p parser.Parser, opts ...PipelineOption) *Pipeline {
	pl := &Pipeline{
		parser: p,
		logger: logging.NewNop(),
		limit:  traverse.DefaultReplacementLimit,
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// Prepared is the result of initializing a plugin list: the definitions in
// declaration order and the parser options they produced.
type Prepared struct {
	Definitions   []*domain.PluginDefinition
	ParserOptions parseropts.Options

	pipeline *Pipeline
}

// Run executes the full pipeline and returns the transformed tree.
// hostVersion is the API version reported to plugins; zero means version.Host.
func (p *Pipeline) Run(ctx context.Context, source string, plugins []domain.PluginDeclaration, hostVersion int) (*ast.Node, error) {
	start := time.Now()
	root, prep, err := p.run(ctx, source, plugins, hostVersion)
	p.done(ctx, start, len(plugins), prep, err)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (p *Pipeline) run(ctx context.Context, source string, plugins []domain.PluginDeclaration, hostVersion int) (*ast.Node, *Prepared, error) {
	prep, err := p.Prepare(ctx, plugins, hostVersion)
	if err != nil {
		return nil, nil, err
	}

	root, err := p.parse(ctx, source, prep.ParserOptions)
	if err != nil {
		return nil, prep, err
	}

	root, err = prep.Transform(ctx, root)
	return root, prep, err
}

// Prepare runs version checks, option normalization and Init for every plugin,
// then applies their parser mutations. It fails fast on the first plugin that
// cannot be initialized, before any source is parsed.
func (p *Pipeline) Prepare(ctx context.Context, plugins []domain.PluginDeclaration, hostVersion int) (*Prepared, error) {
	if hostVersion <= 0 {
		hostVersion = version.Host
	}
	api := domain.API{Version: hostVersion}

	seen := make(map[string]bool, len(plugins))
	defs := make([]*domain.PluginDefinition, 0, len(plugins))
	var mutations []parseropts.Mutation

	for _, decl := range plugins {
		if seen[decl.Name] {
			return nil, &PluginError{Plugin: decl.Name, Phase: PhaseInit, Err: domain.ErrDuplicatePlugin}
		}
		seen[decl.Name] = true

		def, err := p.initPlugin(ctx, api, decl)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
		mutations = append(mutations, def.ParserOptionMutations...)
	}

	opts := parseropts.Apply(p.baseOptions, mutations)
	p.logger.Debug("parser options resolved", "extensions", opts.Extensions, "source_type", opts.SourceType)

	return &Prepared{Definitions: defs, ParserOptions: opts, pipeline: p}, nil
}

func (p *Pipeline) initPlugin(ctx context.Context, api domain.API, decl domain.PluginDeclaration) (*domain.PluginDefinition, error) {
	fail := func(phase Phase, err error) error {
		p.logger.Warn("plugin rejected", "plugin", decl.Name, "phase", phase, "err", err)
		if p.hooks.OnPluginInit != nil {
			p.hooks.OnPluginInit(ctx, &domain.PluginEvent{
				EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPluginInit},
				Plugin:    decl.Name,
				Err:       err,
			})
		}
		return &PluginError{Plugin: decl.Name, Phase: phase, Err: err}
	}

	if err := version.AssertPlugin(decl.Name, decl.RequiredAPIVersion, api.Version); err != nil {
		return nil, fail(PhaseVersion, err)
	}

	options, err := schema.Normalize(decl.OptionsSchema, decl.Options)
	if err != nil {
		var invalid *schema.InvalidOptionsError
		if errors.As(err, &invalid) {
			invalid.Plugin = decl.Name
		}
		return nil, fail(PhaseOptions, err)
	}

	if decl.Init == nil {
		return nil, fail(PhaseInit, domain.ErrNilInit)
	}
	def, err := decl.Init(api, options)
	if err != nil {
		return nil, fail(PhaseInit, err)
	}
	if def == nil {
		def = &domain.PluginDefinition{}
	}
	if def.Name == "" {
		def.Name = decl.Name
	}

	p.logger.Debug("plugin initialized", "plugin", def.Name, "visitors", len(def.Visitors), "mutations", len(def.ParserOptionMutations))
	if p.hooks.OnPluginInit != nil {
		p.hooks.OnPluginInit(ctx, &domain.PluginEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventPluginInit},
			Plugin:    def.Name,
			Visitors:  len(def.Visitors),
		})
	}
	return def, nil
}

func (p *Pipeline) parse(ctx context.Context, source string, opts parseropts.Options) (*ast.Node, error) {
	start := time.Now()
	root, err := p.parser.Parse(source, opts)
	if err == nil && root == nil {
		err = errors.New("parser returned no tree")
	}
	if p.hooks.OnParse != nil {
		p.hooks.OnParse(ctx, &domain.RunEvent{
			EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventParse},
			Extensions: opts.Extensions,
			Duration:   time.Since(start),
			Err:        err,
		})
	}
	if err != nil {
		se := parser.AsSyntaxError(err)
		p.logger.Debug("parse failed", "err", se)
		return nil, se
	}
	return root, nil
}

// Registry merges the visitors of every definition, in declaration order, into
// a frozen registry. A plugin listing the same node type twice fails with a
// *visitor.DuplicateVisitorError wrapped in a *PluginError.
func (pr *Prepared) Registry() (*visitor.Registry, error) {
	reg := visitor.NewRegistry()
	for _, def := range pr.Definitions {
		for _, v := range def.Visitors {
			if err := reg.RegisterVisitor(v, def.Name); err != nil {
				return nil, &PluginError{Plugin: def.Name, Phase: PhaseVisitors, Err: err}
			}
		}
	}
	reg.Freeze()
	return reg, nil
}

// Transform merges visitors and traverses root, mutating it in place.
// The returned node differs from root only when a visitor replaced the root.
func (pr *Prepared) Transform(ctx context.Context, root *ast.Node) (*ast.Node, error) {
	reg, err := pr.Registry()
	if err != nil {
		return nil, err
	}

	p := pr.pipeline
	eng := traverse.New(traverse.WithLimit(p.limit), traverse.WithObserver(p.observer(ctx)))
	p.logger.Debug("traversal started", "node_types", reg.NodeTypes(), "limit", eng.Limit())

	out, err := eng.Run(root, reg)
	if err != nil {
		p.logger.Debug("traversal aborted", "err", err)
		return nil, err
	}
	return out, nil
}

func (p *Pipeline) observer(ctx context.Context) traverse.Observer {
	h := p.hooks
	var obs traverse.Observer
	if h.OnNodeEnter != nil || h.OnNodeExit != nil {
		obs.OnHook = func(phase traverse.Phase, nodeType, plugin string) {
			ev := &domain.NodeEvent{
				EventBase: domain.EventBase{Timestamp: time.Now()},
				Plugin:    plugin,
				NodeType:  nodeType,
			}
			switch {
			case phase == traverse.PhaseEnter && h.OnNodeEnter != nil:
				ev.Type = domain.EventNodeEnter
				h.OnNodeEnter(ctx, ev)
			case phase == traverse.PhaseExit && h.OnNodeExit != nil:
				ev.Type = domain.EventNodeExit
				h.OnNodeExit(ctx, ev)
			}
		}
	}
	if h.OnReplace != nil {
		obs.OnReplace = func(from, to, plugin string) {
			h.OnReplace(ctx, &domain.NodeEvent{
				EventBase:   domain.EventBase{Timestamp: time.Now(), Type: domain.EventReplace},
				Plugin:      plugin,
				NodeType:    from,
				Replacement: to,
			})
		}
	}
	return obs
}

func (p *Pipeline) done(ctx context.Context, start time.Time, plugins int, prep *Prepared, err error) {
	ev := &domain.RunEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunDone},
		Plugins:   plugins,
		Duration:  time.Since(start),
		Err:       err,
	}
	if prep != nil {
		ev.Extensions = prep.ParserOptions.Extensions
	}

	if err != nil {
		p.logger.Warn("transform failed", "plugins", plugins, "duration", ev.Duration, "err", err)
	} else {
		p.logger.Debug("transform complete", "plugins", plugins, "duration", ev.Duration)
	}
	if p.hooks.OnRunDone != nil {
		p.hooks.OnRunDone(ctx, ev)
	}
}

// String describes the pipeline configuration for logs.
func (p *Pipeline) String() string {
	return fmt.Sprintf("pipeline(limit=%d, extensions=%v)", p.limit, p.baseOptions.Extensions)
}

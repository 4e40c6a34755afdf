// Package traverse walks a syntax tree depth-first and invokes the hooks held
// in a visitor.Registry.
package traverse

import (
	"errors"

	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/visitor"
)

// DefaultReplacementLimit bounds node replacements per node type per run.
const DefaultReplacementLimit = 1000

// ErrNilRoot is returned when Run is called without a tree.
var ErrNilRoot = errors.New("traverse: nil root node")

// Phase names the hook kind being invoked.
type Phase string

const (
	PhaseEnter Phase = "enter"
	PhaseExit  Phase = "exit"
)

// Observer receives traversal events. Nil fields are ignored.
type Observer struct {
	OnHook    func(phase Phase, nodeType, plugin string)
	OnReplace func(fromType, toType, plugin string)
}

// Engine runs traversals. It holds configuration only; every Run gets fresh state.
type Engine struct {
	limit    int
	observer Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithLimit sets the replacement ceiling. Values below 1 keep the default.
func WithLimit(limit int) Option {
	return func(e *Engine) {
		if limit > 0 {
			e.limit = limit
		}
	}
}

// WithObserver installs traversal callbacks.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{limit: DefaultReplacementLimit}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Limit returns the configured replacement ceiling.
func (e *Engine) Limit() int { return e.limit }

type phase int

const (
	entering phase = iota
	visitingChildren
	exiting
)

// frame is one node on the traversal stack.
type frame struct {
	node     *ast.Node
	slot     *ast.Slot // nil for the root
	phase    phase
	children []ast.Slot
	next     int
}

// run is the per-traversal state.
type run struct {
	engine       *Engine
	registry     *visitor.Registry
	state        *visitor.State
	path         []*ast.Node
	replacements map[string]int
}

// Run walks the tree rooted at root and returns the root after traversal,
// which differs from root when a hook replaced it.
//
// Each node goes through Entering, VisitingChildren and Exiting. Enter and
// exit hooks both run in registration order. An enter hook that sets
// SkipChildren sends the node straight to Exiting once the remaining enter
// hooks ran. An enter hook that returns a different node swaps it into the
// parent slot and the replacement is entered from the start.
func (e *Engine) Run(root *ast.Node, reg *visitor.Registry) (*ast.Node, error) {
	if root == nil {
		return nil, ErrNilRoot
	}
	if reg == nil {
		reg = visitor.NewRegistry()
	}

	r := &run{
		engine:       e,
		registry:     reg,
		state:        &visitor.State{},
		replacements: make(map[string]int),
	}

	stack := []*frame{{node: root, phase: entering}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]

		switch top.phase {
		case entering:
			replaced, err := r.enter(top)
			if err != nil {
				return nil, err
			}
			if replaced {
				continue
			}
			if r.state.SkipChildren {
				top.phase = exiting
				continue
			}
			top.children = top.node.Children()
			top.phase = visitingChildren

		case visitingChildren:
			if top.next >= len(top.children) {
				top.phase = exiting
				continue
			}
			slot := top.children[top.next]
			top.next++
			child := slot.Node()
			if child == nil {
				continue
			}
			r.path = append(r.path, top.node)
			stack = append(stack, &frame{node: child, slot: &slot, phase: entering})

		case exiting:
			if err := r.exit(top); err != nil {
				return nil, err
			}
			stack = stack[:len(stack)-1]
			if len(r.path) > 0 {
				r.path = r.path[:len(r.path)-1]
			}
			if len(stack) == 0 {
				root = top.node
			}
		}
	}

	return root, nil
}

func (r *run) prepareState(plugin string) *visitor.State {
	r.state.Path = r.path[:len(r.path):len(r.path)]
	r.state.Plugin = plugin
	return r.state
}

func (r *run) enter(top *frame) (bool, error) {
	r.state.SkipChildren = false
	node := top.node

	for _, entry := range r.registry.Get(node.Type) {
		if entry.Enter == nil {
			continue
		}
		out, err := entry.Enter(node, r.prepareState(entry.Plugin))
		if hook := r.engine.observer.OnHook; hook != nil {
			hook(PhaseEnter, node.Type, entry.Plugin)
		}
		if err != nil {
			return false, &HookError{Plugin: entry.Plugin, NodeType: node.Type, Phase: PhaseEnter, Err: err}
		}
		if out == nil || out == node {
			continue
		}

		r.replacements[node.Type]++
		if r.replacements[node.Type] > r.engine.limit {
			return false, &TraversalLimitExceededError{NodeType: node.Type, Limit: r.engine.limit, Plugin: entry.Plugin}
		}
		if hook := r.engine.observer.OnReplace; hook != nil {
			hook(node.Type, out.Type, entry.Plugin)
		}
		if top.slot != nil {
			top.slot.Replace(out)
		}
		top.node = out
		return true, nil
	}
	return false, nil
}

func (r *run) exit(top *frame) error {
	node := top.node
	for _, entry := range r.registry.Get(node.Type) {
		if entry.Exit == nil {
			continue
		}
		err := entry.Exit(node, r.prepareState(entry.Plugin))
		if hook := r.engine.observer.OnHook; hook != nil {
			hook(PhaseExit, node.Type, entry.Plugin)
		}
		if err != nil {
			return &HookError{Plugin: entry.Plugin, NodeType: node.Type, Phase: PhaseExit, Err: err}
		}
	}
	return nil
}

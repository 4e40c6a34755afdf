package visitor

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrRegistryFrozen is returned when registering after Freeze.
var ErrRegistryFrozen = errors.New("visitor registry is frozen")

// DuplicateVisitorError reports a plugin registering twice for one node type.
type DuplicateVisitorError struct {
	Plugin   string
	NodeType string
}

func (e *DuplicateVisitorError) Error() string {
	return fmt.Sprintf("plugin %q registered more than one visitor for %q", e.Plugin, e.NodeType)
}

// Entry is one plugin's hooks for a node type.
type Entry struct {
	Plugin string
	Hooks
}

// Registry maps node types to the hooks registered for them, in registration order.
// It is append-only until Freeze, and read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	frozen  bool
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string][]Entry),
	}
}

// Register appends hooks for nodeType on behalf of plugin.
// Different plugins may register for the same type; the same plugin may not.
func (r *Registry) Register(nodeType string, hooks Hooks, plugin string) error {
	if nodeType == "" {
		return fmt.Errorf("plugin %q: visitor node type is empty", plugin)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return ErrRegistryFrozen
	}
	for _, e := range r.entries[nodeType] {
		if e.Plugin == plugin {
			return &DuplicateVisitorError{Plugin: plugin, NodeType: nodeType}
		}
	}
	r.entries[nodeType] = append(r.entries[nodeType], Entry{Plugin: plugin, Hooks: hooks})
	return nil
}

// RegisterVisitor registers v for every alias in its "|"-separated node type.
func (r *Registry) RegisterVisitor(v Visitor, plugin string) error {
	for _, nodeType := range strings.Split(v.NodeType, "|") {
		if err := r.Register(strings.TrimSpace(nodeType), v.Hooks, plugin); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the hooks for nodeType in registration order.
// The result is never nil.
func (r *Registry) Get(nodeType string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.entries[nodeType]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// NodeTypes returns the registered node types, sorted.
func (r *Registry) NodeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// Len returns the total number of entries across all node types.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, e := range r.entries {
		n += len(e)
	}
	return n
}

// Package plugins provides the catalog that resolves plugin names to
// declarations, and the built-in plugins shipped with graft.
package plugins

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/graft/pkg/domain"
)

// Ref names a plugin and the options to instantiate it with,
// as written in configuration files and requests.
type Ref struct {
	Name    string         `json:"name" yaml:"name" koanf:"name" mapstructure:"name"`
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty" koanf:"options" mapstructure:"options"`
}

// Catalog manages the available plugin declarations.
type Catalog struct {
	mu    sync.RWMutex
	decls map[string]domain.PluginDeclaration
}

// NewCatalog creates a new empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		decls: make(map[string]domain.PluginDeclaration),
	}
}

// Default returns a catalog holding the built-in plugins.
func Default() *Catalog {
	c := NewCatalog()
	for _, d := range Builtins() {
		// Built-in names are unique.
		_ = c.Register(d)
	}
	return c
}

// Register adds a declaration. Names must be non-empty and unique.
func (c *Catalog) Register(d domain.PluginDeclaration) error {
	if d.Name == "" {
		return fmt.Errorf("plugin declaration has no name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.decls[d.Name]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicatePlugin, d.Name)
	}
	c.decls[d.Name] = d
	return nil
}

// Lookup returns the declaration registered under name.
func (c *Catalog) Lookup(name string) (domain.PluginDeclaration, error) {
	c.mu.RLock()
	d, ok := c.decls[name]
	c.mu.RUnlock()

	if !ok {
		return domain.PluginDeclaration{}, fmt.Errorf("%w: %s", domain.ErrPluginNotFound, name)
	}
	return d, nil
}

// Resolve turns refs into declarations carrying their options, keeping order.
func (c *Catalog) Resolve(refs []Ref) ([]domain.PluginDeclaration, error) {
	out := make([]domain.PluginDeclaration, 0, len(refs))
	for _, ref := range refs {
		d, err := c.Lookup(ref.Name)
		if err != nil {
			return nil, err
		}
		out = append(out, d.WithOptions(ref.Options))
	}
	return out, nil
}

// Names returns the registered plugin names, sorted.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.decls))
	for name := range c.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every declaration sorted by name.
func (c *Catalog) All() []domain.PluginDeclaration {
	names := c.Names()

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]domain.PluginDeclaration, 0, len(names))
	for _, name := range names {
		if d, ok := c.decls[name]; ok {
			out = append(out, d)
		}
	}
	return out
}

package domain

import (
	"maps"

	"github.com/aretw0/graft/pkg/parseropts"
	"github.com/aretw0/graft/pkg/schema"
	"github.com/aretw0/graft/pkg/version"
	"github.com/aretw0/graft/pkg/visitor"
)

// InitFunc builds a plugin's definition from the host API and normalized options.
// It is called exactly once per pipeline run.
type InitFunc func(api API, options map[string]any) (*PluginDefinition, error)

// PluginDeclaration is what a plugin author provides.
// It is a value: WithOptions returns a copy, leaving registered declarations untouched.
type PluginDeclaration struct {
	Name               string
	RequiredAPIVersion int
	OptionsSchema      schema.Schema
	Init               InitFunc

	// Description is markdown shown by the CLI.
	Description string
	// Options are the user-supplied options validated against OptionsSchema.
	Options map[string]any
}

// WithOptions returns a copy of the declaration carrying options.
func (d PluginDeclaration) WithOptions(options map[string]any) PluginDeclaration {
	d.Options = maps.Clone(options)
	return d
}

// PluginDefinition is produced by Init for a single run.
type PluginDefinition struct {
	Name                  string
	ParserOptionMutations []parseropts.Mutation
	Visitors              []visitor.Visitor
}

// API is the capability handle passed to Init.
type API struct {
	Version int
}

// AssertVersion fails with *version.IncompatiblePluginError when the host
// API is older than required.
func (a API) AssertVersion(required int) error {
	return version.AssertVersion(required, a.Version)
}

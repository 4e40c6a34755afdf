// Package parseropts holds the options handed to the parser and applies the
// ordered, add-only mutations plugins contribute to them.
package parseropts

import (
	"maps"
	"slices"
)

// Source types understood by the tree parser.
const (
	SourceModule = "module"
	SourceScript = "script"
)

// Options configures the external parser.
type Options struct {
	// SourceType is "module" or "script".
	SourceType string `json:"sourceType,omitempty" yaml:"source_type,omitempty" koanf:"source_type"`
	// Extensions lists the enabled optional syntax extensions, e.g. "jsx".
	Extensions []string `json:"plugins,omitempty" yaml:"extensions,omitempty" koanf:"extensions"`
	// Extra carries parser-specific settings graft does not interpret.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty" koanf:"extra"`
}

// Mutation edits the options before parsing.
// Mutations may append extensions; removals are discarded by Apply.
type Mutation func(*Options)

// Enable appends flags that are not already present.
func (o *Options) Enable(flags ...string) {
	for _, f := range flags {
		if f != "" && !slices.Contains(o.Extensions, f) {
			o.Extensions = append(o.Extensions, f)
		}
	}
}

// Has reports whether the extension flag is enabled.
func (o Options) Has(flag string) bool {
	return slices.Contains(o.Extensions, flag)
}

// Clone returns a copy that shares no mutable state with o.
func (o Options) Clone() Options {
	out := Options{SourceType: o.SourceType}
	if o.Extensions != nil {
		out.Extensions = slices.Clone(o.Extensions)
	}
	if o.Extra != nil {
		out.Extra = maps.Clone(o.Extra)
	}
	return out
}

// Apply runs the mutations in order against a copy of base and returns the result.
//
// The extension list is add-only: after each mutation, every flag present
// before it keeps its original position, and flags the mutation introduced are
// appended once in first-insertion order. A mutation that removes or reorders
// earlier flags has no effect on them. Other fields are left as the mutation set them.
func Apply(base Options, mutations []Mutation) Options {
	opts := base.Clone()
	opts.Extensions = dedupe(opts.Extensions)

	for _, mutate := range mutations {
		if mutate == nil {
			continue
		}
		before := slices.Clone(opts.Extensions)
		mutate(&opts)
		opts.Extensions = reconcile(before, opts.Extensions)
	}
	return opts
}

func reconcile(before, after []string) []string {
	out := before
	if out == nil && len(after) > 0 {
		out = make([]string, 0, len(after))
	}
	for _, f := range after {
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func dedupe(flags []string) []string {
	if flags == nil {
		return nil
	}
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

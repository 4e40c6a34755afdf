package schema

import (
	"fmt"
	"sort"

	"github.com/mitchellh/copystructure"
)

// Field declares one option: its type, whether it must be supplied,
// and the value used when it is absent.
type Field struct {
	Type       Type
	Required   bool
	Default    any
	HasDefault bool
}

// Optional declares an option that may be omitted and has no default.
func Optional(t Type) Field { return Field{Type: t} }

// Required declares an option that must be supplied.
func Required(t Type) Field { return Field{Type: t, Required: true} }

// WithDefault declares an option that takes def when omitted.
func WithDefault(t Type, def any) Field {
	return Field{Type: t, Default: def, HasDefault: true}
}

// Schema maps option names to their declarations.
// Example: {"callees": Optional(Slice(String())), "strict": WithDefault(Bool(), false)}
type Schema map[string]Field

// Normalize validates options against the schema and returns a new map with
// defaults filled in. Every violation is collected before returning, so the
// error lists all failing keys. Options not declared by a non-empty schema
// are rejected; a nil or empty schema accepts anything.
func Normalize(s Schema, options map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(options)+len(s))
	for k, v := range options {
		out[k] = v
	}
	if len(s) == 0 {
		return out, nil
	}

	var violations []*ValidationError

	for key := range options {
		if _, declared := s[key]; !declared {
			violations = append(violations, &ValidationError{Key: key, Reason: "unknown option"})
		}
	}

	for key, field := range s {
		value, present := options[key]
		if !present {
			switch {
			case field.HasDefault:
				def, err := copystructure.Copy(field.Default)
				if err != nil {
					return nil, fmt.Errorf("option %q: copy default: %w", key, err)
				}
				out[key] = def
			case field.Required:
				violations = append(violations, &ValidationError{Key: key, Reason: "required"})
			}
			continue
		}
		if field.Type == nil {
			continue
		}
		if err := field.Type.Validate(value); err != nil {
			violations = append(violations, &ValidationError{Key: key, Reason: err.Error(), Value: value})
		}
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool { return violations[i].Key < violations[j].Key })
		return nil, &InvalidOptionsError{Violations: violations}
	}
	return out, nil
}

// Validate checks options against the schema without producing normalized output.
func Validate(s Schema, options map[string]any) error {
	_, err := Normalize(s, options)
	return err
}

// Describe returns "key: type" lines for the schema, sorted by key, with
// required and default markers. Used by plugin documentation.
func (s Schema) Describe() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		f := s[k]
		name := "any"
		if f.Type != nil {
			name = f.Type.Name()
		}
		line := fmt.Sprintf("%s: %s", k, name)
		switch {
		case f.Required:
			line += " (required)"
		case f.HasDefault:
			line += fmt.Sprintf(" (default %v)", f.Default)
		}
		lines = append(lines, line)
	}
	return lines
}

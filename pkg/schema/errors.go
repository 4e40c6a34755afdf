package schema

import (
	"fmt"
	"strings"
)

// ValidationError represents a single option validation failure.
type ValidationError struct {
	Key    string // Option name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("option %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("option %q: %s (got %T)", e.Key, e.Reason, e.Value)
}

// InvalidOptionsError lists every option that failed validation for a plugin.
type InvalidOptionsError struct {
	Plugin     string
	Violations []*ValidationError
}

func (e *InvalidOptionsError) Error() string {
	var b strings.Builder
	if e.Plugin != "" {
		fmt.Fprintf(&b, "plugin %q: ", e.Plugin)
	}
	if len(e.Violations) == 1 {
		b.WriteString("invalid options: ")
		b.WriteString(e.Violations[0].Error())
		return b.String()
	}
	fmt.Fprintf(&b, "%d invalid options:", len(e.Violations))
	for i, v := range e.Violations {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, v.Error())
	}
	return b.String()
}

// Keys returns the names of the failing options in order.
func (e *InvalidOptionsError) Keys() []string {
	keys := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		keys[i] = v.Key
	}
	return keys
}

// Errors returns the violations as plain errors.
func (e *InvalidOptionsError) Errors() []error {
	errs := make([]error, len(e.Violations))
	for i, v := range e.Violations {
		errs[i] = v
	}
	return errs
}

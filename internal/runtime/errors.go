package runtime

import "fmt"

// Phase names the pipeline step a plugin failed in.
type Phase string

const (
	PhaseVersion  Phase = "version"
	PhaseOptions  Phase = "options"
	PhaseInit     Phase = "init"
	PhaseVisitors Phase = "visitors"
)

// PluginError attributes a pipeline failure to a plugin.
// It unwraps to the underlying typed error (version, options, init or registry).
type PluginError struct {
	Plugin string
	Phase  Phase
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %q failed during %s: %v", e.Plugin, e.Phase, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

package traverse

import "fmt"

// TraversalLimitExceededError reports a runaway replacement loop.
type TraversalLimitExceededError struct {
	NodeType string
	Limit    int
	Plugin   string
}

func (e *TraversalLimitExceededError) Error() string {
	return fmt.Sprintf("traversal limit exceeded: %q nodes replaced more than %d times (last by plugin %q)", e.NodeType, e.Limit, e.Plugin)
}

// HookError records which hook failed. It unwraps to the error the hook returned.
type HookError struct {
	Plugin   string
	NodeType string
	Phase    Phase
	Err      error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("plugin %q %s %s: %v", e.Plugin, e.Phase, e.NodeType, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

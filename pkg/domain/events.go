package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventPluginInit EventType = "plugin_init"
	EventParse      EventType = "parse"
	EventNodeEnter  EventType = "node_enter"
	EventNodeExit   EventType = "node_exit"
	EventReplace    EventType = "node_replace"
	EventRunDone    EventType = "run_done"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// PluginEvent reports a plugin finishing initialization.
type PluginEvent struct {
	EventBase
	Plugin   string `json:"plugin"`
	Visitors int    `json:"visitors"`
	Err      error  `json:"-"`
}

// NodeEvent reports a hook invocation or a replacement.
type NodeEvent struct {
	EventBase
	Plugin   string `json:"plugin"`
	NodeType string `json:"node_type"`
	// Replacement is the new node type for EventReplace.
	Replacement string `json:"replacement,omitempty"`
}

// RunEvent reports the end of a pipeline run, successful or not.
type RunEvent struct {
	EventBase
	Plugins    int           `json:"plugins"`
	Extensions []string      `json:"extensions,omitempty"`
	Duration   time.Duration `json:"duration"`
	Err        error         `json:"-"`
}

// LifecycleHooks defines callbacks for pipeline observability. Nil fields are skipped.
type LifecycleHooks struct {
	OnPluginInit func(context.Context, *PluginEvent)
	OnParse      func(context.Context, *RunEvent)
	OnNodeEnter  func(context.Context, *NodeEvent)
	OnNodeExit   func(context.Context, *NodeEvent)
	OnReplace    func(context.Context, *NodeEvent)
	OnRunDone    func(context.Context, *RunEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnPluginInit: chain(h.OnPluginInit, other.OnPluginInit),
		OnParse:      chain(h.OnParse, other.OnParse),
		OnNodeEnter:  chain(h.OnNodeEnter, other.OnNodeEnter),
		OnNodeExit:   chain(h.OnNodeExit, other.OnNodeExit),
		OnReplace:    chain(h.OnReplace, other.OnReplace),
		OnRunDone:    chain(h.OnRunDone, other.OnRunDone),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

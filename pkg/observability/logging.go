package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/graft/pkg/domain"
)

// LogHooks logs plugin initialization and run completion.
// Replacements are logged at Debug.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPluginInit: func(ctx context.Context, e *domain.PluginEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "plugin_init", "plugin", e.Plugin, "err", e.Err)
				return
			}
			logger.InfoContext(ctx, "plugin_init", "plugin", e.Plugin, "visitors", e.Visitors)
		},
		OnReplace: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_replace", "plugin", e.Plugin, "from", e.NodeType, "to", e.Replacement)
		},
		OnRunDone: func(ctx context.Context, e *domain.RunEvent) {
			logger.InfoContext(ctx, "run_done",
				"plugins", e.Plugins,
				"extensions", e.Extensions,
				"duration", e.Duration,
				"ok", e.Err == nil,
			)
		},
	}
}

// Package cli wires configuration into the engine, cache and logger used by
// the graft command.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/adapters/memory"
	"github.com/aretw0/graft/internal/adapters/redis"
	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/aretw0/graft/pkg/ports"
)

// NewLogger configures the application logger from cfg.
// Logs always go to stderr so stdout carries only command output.
func NewLogger(cfg config.LogConfig) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.JSON {
		return logging.NewJSON(os.Stderr, level), nil
	}
	return logging.New(level), nil
}

// NewEngine initializes an engine with the settings from cfg.
// Extra hooks are merged after the logging hooks.
func NewEngine(cfg config.Config, logger *slog.Logger, hooks ...domain.LifecycleHooks) *graft.Engine {
	all := observability.LogHooks(logger)
	for _, h := range hooks {
		all = all.Merge(h)
	}
	return graft.New(
		graft.WithLogger(logger),
		graft.WithLifecycleHooks(all),
		graft.WithParserOptions(cfg.Parser),
		graft.WithHostVersion(cfg.HostVersion),
		graft.WithReplacementLimit(cfg.ReplacementLimit),
	)
}

// NewCache creates the result cache selected by cfg.Backend.
// The returned closer is never nil. A nil cache means caching is disabled.
// Redis is pinged up front so a bad address fails at startup.
func NewCache(ctx context.Context, cfg config.CacheConfig) (ports.ResultCache, io.Closer, error) {
	switch cfg.Backend {
	case config.CacheNone:
		return nil, nopCloser{}, nil
	case config.CacheRedis:
		c := redis.New(cfg.RedisAddr, "", cfg.RedisDB, redis.WithTTL(cfg.TTL))
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, nopCloser{}, fmt.Errorf("redis cache at %s: %w", cfg.RedisAddr, err)
		}
		return c, c, nil
	case config.CacheMemory, "":
		return memory.NewCache(cfg.Size, cfg.TTL), nopCloser{}, nil
	}
	return nil, nopCloser{}, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package config loads graft settings from a YAML file, a .env file and
// GRAFT__ environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/parseropts"
	"github.com/aretw0/graft/pkg/plugins"
	"github.com/aretw0/graft/pkg/traverse"
	"github.com/aretw0/graft/pkg/version"
)

// EnvPrefix is stripped from environment variables; "__" separates nesting levels,
// e.g. GRAFT__SERVER__CACHE__BACKEND=redis.
const EnvPrefix = "GRAFT__"

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type CacheConfig struct {
	Backend   string        `koanf:"backend"` // memory|redis|none
	Size      int           `koanf:"size"`
	TTL       time.Duration `koanf:"ttl"`
	RedisAddr string        `koanf:"redis_addr"`
	RedisDB   int           `koanf:"redis_db"`
}

type ServerConfig struct {
	Addr  string      `koanf:"addr"`
	Cache CacheConfig `koanf:"cache"`
}

type Config struct {
	HostVersion      int                `koanf:"host_version"`
	ReplacementLimit int                `koanf:"replacement_limit"`
	Parser           parseropts.Options `koanf:"parser"`
	Plugins          []plugins.Ref      `koanf:"plugins"`
	Log              LogConfig          `koanf:"log"`
	Server           ServerConfig       `koanf:"server"`
}

// Load merges the YAML file at path (if present) with environment variables.
// When dotenv is non-empty that file is loaded into the process environment
// first; a missing file is not an error. Variables already set win over .env.
func Load(path, dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, cfg.Validate()
}

// envKey turns GRAFT__SERVER__CACHE__TTL into server.cache.ttl.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

func applyDefaults(c *Config) {
	if c.HostVersion == 0 {
		c.HostVersion = version.Host
	}
	if c.ReplacementLimit == 0 {
		c.ReplacementLimit = traverse.DefaultReplacementLimit
	}
	if c.Parser.SourceType == "" {
		c.Parser.SourceType = parseropts.SourceModule
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Cache.Backend == "" {
		c.Server.Cache.Backend = CacheMemory
	}
	if c.Server.Cache.Size == 0 {
		c.Server.Cache.Size = 256
	}
	if c.Server.Cache.TTL == 0 {
		c.Server.Cache.TTL = 10 * time.Minute
	}
	if c.Server.Cache.RedisAddr == "" {
		c.Server.Cache.RedisAddr = "localhost:6379"
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.HostVersion < 1 {
		errs = append(errs, fmt.Errorf("host_version must be positive, got %d", c.HostVersion))
	}
	if c.ReplacementLimit < 1 {
		errs = append(errs, fmt.Errorf("replacement_limit must be positive, got %d", c.ReplacementLimit))
	}
	switch c.Parser.SourceType {
	case parseropts.SourceModule, parseropts.SourceScript:
	default:
		errs = append(errs, fmt.Errorf("parser.source_type must be %q or %q, got %q",
			parseropts.SourceModule, parseropts.SourceScript, c.Parser.SourceType))
	}
	switch c.Server.Cache.Backend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		errs = append(errs, fmt.Errorf("server.cache.backend must be memory, redis or none, got %q", c.Server.Cache.Backend))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	for i, ref := range c.Plugins {
		if ref.Name == "" {
			errs = append(errs, fmt.Errorf("plugins[%d]: name is required", i))
		}
	}
	return errors.Join(errs...)
}

// Resolve looks up the configured plugins in catalog, keeping their order.
func (c Config) Resolve(catalog *plugins.Catalog) ([]domain.PluginDeclaration, error) {
	return catalog.Resolve(c.Plugins)
}

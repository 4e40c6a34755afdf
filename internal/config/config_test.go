package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/internal/config"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/plugins"
	"github.com/aretw0/graft/pkg/traverse"
	"github.com/aretw0/graft/pkg/version"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, err)

	assert.Equal(t, version.Host, cfg.HostVersion)
	assert.Equal(t, traverse.DefaultReplacementLimit, cfg.ReplacementLimit)
	assert.Equal(t, "module", cfg.Parser.SourceType)
	assert.Equal(t, config.CacheMemory, cfg.Server.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Server.Cache.TTL)
	assert.Empty(t, cfg.Plugins)
}

const sample = `
host_version: 7
replacement_limit: 50
parser:
  source_type: script
  extensions: [flow]
plugins:
  - name: syntax-jsx
  - name: inline-env
    options:
      env:
        API_URL: https://api
log:
  level: debug
server:
  addr: ":9000"
  cache:
    backend: redis
    ttl: 30s
`

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeFile(t, "graft.yaml", sample)
	t.Setenv("GRAFT__REPLACEMENT_LIMIT", "75")
	t.Setenv("GRAFT__SERVER__CACHE__REDIS_ADDR", "redis:6380")

	cfg, err := config.Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 75, cfg.ReplacementLimit, "environment wins over the file")
	assert.Equal(t, "script", cfg.Parser.SourceType)
	assert.Equal(t, []string{"flow"}, cfg.Parser.Extensions)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, config.CacheRedis, cfg.Server.Cache.Backend)
	assert.Equal(t, 30*time.Second, cfg.Server.Cache.TTL)
	assert.Equal(t, "redis:6380", cfg.Server.Cache.RedisAddr)

	require.Len(t, cfg.Plugins, 2)
	assert.Equal(t, "syntax-jsx", cfg.Plugins[0].Name)
	assert.Equal(t, "inline-env", cfg.Plugins[1].Name)
	assert.Equal(t, map[string]any{"API_URL": "https://api"}, cfg.Plugins[1].Options["env"])

	decls, err := cfg.Resolve(plugins.Default())
	require.NoError(t, err)
	assert.Equal(t, "inline-env", decls[1].Name)
	assert.NotNil(t, decls[1].Options)
}

func TestLoad_DotEnv(t *testing.T) {
	dotenv := writeFile(t, ".env", "GRAFT__LOG__LEVEL=warn\n")
	t.Setenv("GRAFT__LOG__LEVEL", "")
	os.Unsetenv("GRAFT__LOG__LEVEL")

	cfg, err := config.Load("", dotenv)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	os.Unsetenv("GRAFT__LOG__LEVEL")

	_, err = config.Load("", filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err, "a missing .env file is ignored")
}

func TestLoad_Invalid(t *testing.T) {
	path := writeFile(t, "bad.yaml", `
replacement_limit: -1
parser: {source_type: commonjs}
log: {level: loud}
server: {cache: {backend: disk}}
plugins:
  - options: {a: 1}
`)

	_, err := config.Load(path, "")
	require.Error(t, err)
	for _, want := range []string{"replacement_limit", "parser.source_type", "log.level", "server.cache.backend", "plugins[0]"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestResolve_UnknownPlugin(t *testing.T) {
	cfg := config.Config{Plugins: []plugins.Ref{{Name: "missing"}}}
	_, err := cfg.Resolve(plugins.Default())
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)
}

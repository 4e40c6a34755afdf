package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/internal/testutils"
	"github.com/aretw0/graft/pkg/plugins"
)

const program = `{"type":"Program","body":[
  {"type":"ExpressionStatement","expression":{
    "type":"CallExpression","callee":{"type":"Identifier","name":"f"},"arguments":[]}},
  {"type":"DebuggerStatement"}
]}`

// execute runs the root command against an isolated config directory.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	base := []string{
		"--config", filepath.Join(dir, "graft.yaml"),
		"--env-file", filepath.Join(dir, ".env"),
	}
	if len(args) > 0 && args[0] == "--config" {
		base = base[2:]
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(base, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun(t *testing.T) {
	src := writeFile(t, "prog.json", program)

	out, err := execute(t, "", "run", src, "--plugin", "add-pure-comment", "--plugin", "strip-debugger")
	require.NoError(t, err)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	body := tree["body"].([]any)
	assert.Equal(t, "EmptyStatement", body[1].(map[string]any)["type"])
	call := body[0].(map[string]any)["expression"].(map[string]any)
	assert.Contains(t, call, "leadingComments")
}

func TestRun_Stdin(t *testing.T) {
	out, err := execute(t, program, "run", "-", "--indent")
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"body\": [")
}

func TestRun_PluginsFromConfig(t *testing.T) {
	cfg := writeFile(t, "graft.yaml", `
plugins:
  - name: inline-env
    options:
      env:
        MODE: prod
`)
	src := `{"type":"Program","body":[{"type":"ExpressionStatement","expression":
  {"type":"MemberExpression","computed":false,
   "object":{"type":"MemberExpression","computed":false,
     "object":{"type":"Identifier","name":"process"},"property":{"type":"Identifier","name":"env"}},
   "property":{"type":"Identifier","name":"MODE"}}}]}`

	out, err := execute(t, src, "--config", cfg, "--env-file", filepath.Join(t.TempDir(), ".env"), "run", "-")
	require.NoError(t, err)
	assert.Contains(t, out, `{"type":"StringLiteral","value":"prod"}`)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown plugin", []string{"run", "-", "-p", "nope"}, "nope"},
		{"bad options", []string{"run", "-", "-p", "inline-env={env: [}"}, "invalid options"},
		{"missing name", []string{"run", "-", "-p", "={}"}, "missing name"},
		{"invalid plugin options", []string{"run", "-", "-p", "inline-env={bogus: 1}"}, "bogus"},
		{"missing file", []string{"run", "does-not-exist.json"}, "read source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, program, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	t.Run("syntax", func(t *testing.T) {
		_, err := execute(t, "{", "run", "-")
		assert.ErrorContains(t, err, "syntax error")
	})
}

func TestCheck(t *testing.T) {
	out, err := execute(t, "", "check", "-p", "syntax-jsx", "-p", "syntax-typescript={isTSX: true}")
	require.NoError(t, err)
	assert.Contains(t, out, "ok: 2 plugin(s)")
	assert.Contains(t, out, "sourceType: module")
	assert.Contains(t, out, "extensions: [jsx typescript]")
}

func TestPrint(t *testing.T) {
	src := writeFile(t, "prog.json", program)

	t.Run("Tree", func(t *testing.T) {
		out, err := execute(t, "", "print", src)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "Program\n"))
		assert.Contains(t, out, "callee")
		assert.Contains(t, out, `"f"`)
	})

	t.Run("Mermaid With Trace", func(t *testing.T) {
		out, err := execute(t, "", "print", src, "-f", "mermaid", "-p", "add-pure-comment")
		require.NoError(t, err)
		assert.Contains(t, out, "graph TD")
		assert.Contains(t, out, "DebuggerStatement")
		assert.Contains(t, out, "class n2 visited;")
	})

	t.Run("Unknown Format", func(t *testing.T) {
		_, err := execute(t, "", "print", src, "-f", "dot")
		assert.ErrorContains(t, err, `"dot"`)
	})
}

func TestPluginsAndExplain(t *testing.T) {
	out, err := execute(t, "", "plugins")
	require.NoError(t, err)
	for _, d := range plugins.Builtins() {
		assert.Contains(t, out, d.Name)
	}
	assert.Contains(t, out, "env: {string} (required)")

	out, err = execute(t, "", "explain", "inline-env", "--raw")
	require.NoError(t, err)
	assert.Contains(t, out, "## Options")

	out, err = execute(t, "", "explain", "strip-debugger")
	require.NoError(t, err)
	assert.Contains(t, out, "strip-debugger")

	_, err = execute(t, "", "explain", "unknown")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "graft version dev (plugin API 7)\n", out)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "", "--log-level", "loud", "plugins")
	assert.ErrorContains(t, err, "loud")
}

func TestNewServer(t *testing.T) {
	a := &app{configPath: filepath.Join(t.TempDir(), "none.yaml")}
	require.NoError(t, a.load())
	a.cfg.Server.Cache.Backend = "memory"

	srv, closer, err := a.newServer(context.Background())
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, ":8080", srv.Addr)

	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	body := `{"source":` + testutils.MustJSON(t, program) + `,"plugins":[{"name":"strip-debugger"}]}`
	resp, err := http.Post(ts.URL+"/v1/transform", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var metrics bytes.Buffer
	_, _ = metrics.ReadFrom(resp.Body)
	assert.Contains(t, metrics.String(), "graft_runs_total")
}

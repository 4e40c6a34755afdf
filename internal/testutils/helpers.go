// Package testutils holds helpers shared by graft's tests.
package testutils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/parser"
	"github.com/aretw0/graft/pkg/parseropts"
)

// MustJSON encodes v, failing the test immediately on error.
func MustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to encode JSON")
	return string(data)
}

// MustParse parses a serialized tree with every default extension enabled.
func MustParse(t *testing.T, source string) *ast.Node {
	t.Helper()
	var opts parseropts.Options
	for _, r := range parser.DefaultExtensionRules {
		opts.Enable(r.Extension)
	}
	root, err := parser.NewTreeParser().Parse(source, opts)
	require.NoError(t, err, "Failed to parse source")
	return root
}

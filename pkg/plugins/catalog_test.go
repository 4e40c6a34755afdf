package plugins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/plugins"
)

func TestCatalog_RegisterAndLookup(t *testing.T) {
	c := plugins.NewCatalog()
	require.NoError(t, c.Register(domain.PluginDeclaration{Name: "a"}))

	assert.ErrorIs(t, c.Register(domain.PluginDeclaration{Name: "a"}), domain.ErrDuplicatePlugin)
	assert.Error(t, c.Register(domain.PluginDeclaration{}))

	d, err := c.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, "a", d.Name)

	_, err = c.Lookup("missing")
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)
}

func TestCatalog_ResolveKeepsOrderAndOptions(t *testing.T) {
	c := plugins.Default()
	decls, err := c.Resolve([]plugins.Ref{
		{Name: "strip-debugger"},
		{Name: "add-pure-comment", Options: map[string]any{"callees": []any{"f"}}},
	})
	require.NoError(t, err)
	require.Len(t, decls, 2)
	assert.Equal(t, "strip-debugger", decls[0].Name)
	assert.Equal(t, map[string]any{"callees": []any{"f"}}, decls[1].Options)

	again, err := c.Lookup("add-pure-comment")
	require.NoError(t, err)
	assert.Nil(t, again.Options, "resolving does not touch the registered declaration")

	_, err = c.Resolve([]plugins.Ref{{Name: "nope"}})
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)
}

func TestDefault_Builtins(t *testing.T) {
	c := plugins.Default()
	assert.Equal(t, []string{
		"add-pure-comment",
		"inline-env",
		"strip-debugger",
		"syntax-decorators",
		"syntax-jsx",
		"syntax-typescript",
	}, c.Names())

	for _, d := range c.All() {
		assert.NotEmpty(t, d.Description, d.Name)
		assert.NotNil(t, d.Init, d.Name)
	}
}

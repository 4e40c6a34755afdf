package graft_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/runtime"
	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/parser"
	"github.com/aretw0/graft/pkg/parseropts"
	"github.com/aretw0/graft/pkg/plugins"
	"github.com/aretw0/graft/pkg/traverse"
	"github.com/aretw0/graft/pkg/version"
	"github.com/aretw0/graft/pkg/visitor"
)

func TestEngine_UnknownPlugin(t *testing.T) {
	_, err := graft.New().Transform(context.Background(), `{"type":"Program"}`, []plugins.Ref{{Name: "nope"}})
	assert.ErrorIs(t, err, domain.ErrPluginNotFound)
}

func TestEngine_HostVersion(t *testing.T) {
	eng := graft.New(graft.WithHostVersion(6))
	assert.Equal(t, 6, eng.HostVersion())
	assert.Equal(t, version.Host, graft.New().HostVersion())

	_, err := eng.Transform(context.Background(), `{"type":"Program"}`, []plugins.Ref{{Name: "strip-debugger"}})
	var incompatible *version.IncompatiblePluginError
	require.ErrorAs(t, err, &incompatible)
	assert.Equal(t, 7, incompatible.Required)
	assert.Equal(t, 6, incompatible.Host)
}

func TestEngine_ParserOptionsAndParse(t *testing.T) {
	src := `{"type":"Program","body":[{"type":"JSXElement"}]}`

	_, err := graft.New().Parse(src)
	assert.ErrorAs(t, err, new(*parser.SyntaxError))

	eng := graft.New(graft.WithParserOptions(parseropts.Options{Extensions: []string{"jsx"}}))
	root, err := eng.Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "Program", root.Type)
}

func TestEngine_CheckDetectsDuplicateVisitors(t *testing.T) {
	noop := func(*ast.Node, *visitor.State) (*ast.Node, error) { return nil, nil }
	c := plugins.NewCatalog()
	require.NoError(t, c.Register(domain.PluginDeclaration{
		Name: "twice",
		Init: func(domain.API, map[string]any) (*domain.PluginDefinition, error) {
			return &domain.PluginDefinition{Visitors: []visitor.Visitor{
				visitor.Enter("Identifier", noop),
				visitor.Enter("Identifier", noop),
			}}, nil
		},
	}))

	_, err := graft.New(graft.WithCatalog(c)).Check(context.Background(), []plugins.Ref{{Name: "twice"}})
	var dup *visitor.DuplicateVisitorError
	require.ErrorAs(t, err, &dup)

	var pluginErr *runtime.PluginError
	require.ErrorAs(t, err, &pluginErr)
	assert.Equal(t, runtime.PhaseVisitors, pluginErr.Phase)
}

func TestEngine_ReplacementLimit(t *testing.T) {
	loop := domain.PluginDeclaration{
		Name: "loop",
		Init: func(domain.API, map[string]any) (*domain.PluginDefinition, error) {
			return &domain.PluginDefinition{Visitors: []visitor.Visitor{
				visitor.Enter("Identifier", func(*ast.Node, *visitor.State) (*ast.Node, error) {
					return ast.New("Identifier", ast.F("name", "again")), nil
				}),
			}}, nil
		},
	}

	_, err := graft.New(graft.WithReplacementLimit(2)).Run(context.Background(), `{"type":"Identifier","name":"a"}`, []domain.PluginDeclaration{loop})
	var limitErr *traverse.TraversalLimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 2, limitErr.Limit)
}

func TestEngine_LifecycleHooks(t *testing.T) {
	var done int
	eng := graft.New(graft.WithLifecycleHooks(domain.LifecycleHooks{
		OnRunDone: func(context.Context, *domain.RunEvent) { done++ },
	}))

	_, err := eng.Transform(context.Background(), `{"type":"DebuggerStatement"}`, []plugins.Ref{{Name: "strip-debugger"}})
	require.NoError(t, err)
	assert.Equal(t, 1, done)
}

func TestEngine_Settings(t *testing.T) {
	eng := graft.New()
	assert.Equal(t, traverse.DefaultReplacementLimit, eng.ReplacementLimit())
	assert.Empty(t, eng.ParserOptions().Extensions)

	eng = graft.New(
		graft.WithReplacementLimit(5),
		graft.WithParserOptions(parseropts.Options{Extensions: []string{"jsx"}}),
	)
	assert.Equal(t, 5, eng.ReplacementLimit())

	opts := eng.ParserOptions()
	opts.Enable("flow")
	assert.Equal(t, []string{"jsx"}, eng.ParserOptions().Extensions, "returned options are a copy")
}

package traverse_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/traverse"
	"github.com/aretw0/graft/pkg/visitor"
)

func ident(name string) *ast.Node {
	return ast.New("Identifier", ast.F("name", name))
}

func program() *ast.Node {
	return ast.New("Program", ast.F("body", []any{
		ast.New("ExpressionStatement", ast.F("expression",
			ast.New("CallExpression",
				ast.F("callee", ident("f")),
				ast.F("arguments", []any{ident("x")}),
			),
		)),
		ast.New("ExpressionStatement", ast.F("expression", ident("y"))),
	}))
}

// recorder registers enter/exit hooks that log "<plugin>:<phase>:<type>[:name]".
type recorder struct{ calls []string }

func (r *recorder) label(plugin, phase string, n *ast.Node) string {
	s := plugin + ":" + phase + ":" + n.Type
	if name := n.Str("name"); name != "" {
		s += ":" + name
	}
	return s
}

func (r *recorder) hooks(plugin string) visitor.Hooks {
	return visitor.Hooks{
		Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
			r.calls = append(r.calls, r.label(plugin, "enter", n))
			return nil, nil
		},
		Exit: func(n *ast.Node, _ *visitor.State) error {
			r.calls = append(r.calls, r.label(plugin, "exit", n))
			return nil
		},
	}
}

func TestEngine_DepthFirstOrder(t *testing.T) {
	rec := &recorder{}
	reg := visitor.NewRegistry()
	for _, typ := range []string{"Program", "ExpressionStatement", "CallExpression", "Identifier"} {
		require.NoError(t, reg.Register(typ, rec.hooks("p"), "p"))
	}

	_, err := traverse.New().Run(program(), reg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"p:enter:Program",
		"p:enter:ExpressionStatement",
		"p:enter:CallExpression",
		"p:enter:Identifier:f",
		"p:exit:Identifier:f",
		"p:enter:Identifier:x",
		"p:exit:Identifier:x",
		"p:exit:CallExpression",
		"p:exit:ExpressionStatement",
		"p:enter:ExpressionStatement",
		"p:enter:Identifier:y",
		"p:exit:Identifier:y",
		"p:exit:ExpressionStatement",
		"p:exit:Program",
	}, rec.calls)
}

func TestEngine_ExitOrderIsNotReversed(t *testing.T) {
	rec := &recorder{}
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("CallExpression", rec.hooks("A"), "A"))
	require.NoError(t, reg.Register("CallExpression", rec.hooks("B"), "B"))

	_, err := traverse.New().Run(program(), reg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"A:enter:CallExpression",
		"B:enter:CallExpression",
		"A:exit:CallExpression",
		"B:exit:CallExpression",
	}, rec.calls)
}

func TestEngine_SkipChildren(t *testing.T) {
	rec := &recorder{}
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("CallExpression", visitor.Hooks{
		Enter: func(n *ast.Node, st *visitor.State) (*ast.Node, error) {
			st.Skip()
			return nil, nil
		},
	}, "skipper"))
	require.NoError(t, reg.Register("CallExpression", rec.hooks("after"), "after"))
	require.NoError(t, reg.Register("Identifier", rec.hooks("ids"), "ids"))

	_, err := traverse.New().Run(program(), reg)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"after:enter:CallExpression",
		"after:exit:CallExpression",
		"ids:enter:Identifier:y",
		"ids:exit:Identifier:y",
	}, rec.calls, "remaining enter hooks run, children are pruned, exit still fires")
}

func TestEngine_ReplacementIsVisitedFresh(t *testing.T) {
	var seen []string
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("Identifier", visitor.Hooks{
		Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
			seen = append(seen, n.Str("name"))
			if n.Str("name") == "x" {
				return ast.New("StringLiteral", ast.F("value", "x")), nil
			}
			return n, nil
		},
	}, "rename"))
	var literals int
	require.NoError(t, reg.Register("StringLiteral", visitor.Hooks{
		Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
			literals++
			return nil, nil
		},
	}, "count"))

	root := program()
	out, err := traverse.New().Run(root, reg)
	require.NoError(t, err)
	assert.Same(t, root, out)

	assert.Equal(t, []string{"f", "x", "y"}, seen, "the replaced node is not re-entered")
	assert.Equal(t, 1, literals)

	call := root.List("body")[0].(*ast.Node).Child("expression")
	arg := call.List("arguments")[0].(*ast.Node)
	assert.Equal(t, "StringLiteral", arg.Type)
}

func TestEngine_ReplaceRoot(t *testing.T) {
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("Program", visitor.Hooks{
		Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
			return ast.New("File", ast.F("program", ast.New("Module"))), nil
		},
	}, "wrap"))

	out, err := traverse.New().Run(program(), reg)
	require.NoError(t, err)
	assert.Equal(t, "File", out.Type)
}

func TestEngine_ReplacementLimit(t *testing.T) {
	tests := []struct {
		name  string
		opts  []traverse.Option
		limit int
	}{
		{"default", nil, traverse.DefaultReplacementLimit},
		{"configured", []traverse.Option{traverse.WithLimit(5)}, 5},
		{"invalid keeps default", []traverse.Option{traverse.WithLimit(0)}, traverse.DefaultReplacementLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			reg := visitor.NewRegistry()
			require.NoError(t, reg.Register("Identifier", visitor.Hooks{
				Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
					calls++
					return ident("again"), nil
				},
			}, "forever"))

			_, err := traverse.New(tt.opts...).Run(ident("start"), reg)

			var limitErr *traverse.TraversalLimitExceededError
			require.ErrorAs(t, err, &limitErr)
			assert.Equal(t, "Identifier", limitErr.NodeType)
			assert.Equal(t, tt.limit, limitErr.Limit)
			assert.Equal(t, "forever", limitErr.Plugin)
			assert.Equal(t, tt.limit+1, calls, "fails on the first replacement past the ceiling")
		})
	}
}

func TestEngine_ReplacementsUnderLimitSucceed(t *testing.T) {
	remaining := 5
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("Identifier", visitor.Hooks{
		Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
			if remaining == 0 {
				return nil, nil
			}
			remaining--
			return ident("next"), nil
		},
	}, "bounded"))

	out, err := traverse.New(traverse.WithLimit(5)).Run(ident("start"), reg)
	require.NoError(t, err)
	assert.Equal(t, "next", out.Str("name"))
}

func TestEngine_HookErrorAborts(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{}
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("CallExpression", visitor.Hooks{
		Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) { return nil, boom },
	}, "bad"))
	require.NoError(t, reg.Register("CallExpression", rec.hooks("later"), "later"))
	require.NoError(t, reg.Register("Identifier", rec.hooks("ids"), "ids"))

	out, err := traverse.New().Run(program(), reg)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, boom)

	var hookErr *traverse.HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, "bad", hookErr.Plugin)
	assert.Equal(t, traverse.PhaseEnter, hookErr.Phase)
	assert.Empty(t, rec.calls, "traversal stops at the failing hook")
}

func TestEngine_ExitErrorAborts(t *testing.T) {
	boom := errors.New("exit failed")
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("Identifier", visitor.Hooks{
		Exit: func(n *ast.Node, _ *visitor.State) error { return boom },
	}, "bad"))

	_, err := traverse.New().Run(program(), reg)
	var hookErr *traverse.HookError
	require.ErrorAs(t, err, &hookErr)
	assert.Equal(t, traverse.PhaseExit, hookErr.Phase)
	assert.ErrorIs(t, err, boom)
}

func TestEngine_StatePath(t *testing.T) {
	var parents []string
	var depths []int
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("Identifier", visitor.Hooks{
		Enter: func(n *ast.Node, st *visitor.State) (*ast.Node, error) {
			parents = append(parents, st.Parent().Type)
			depths = append(depths, st.Depth())
			assert.Equal(t, "Program", st.Path[0].Type)
			assert.Equal(t, "path", st.Plugin)
			return nil, nil
		},
	}, "path"))

	_, err := traverse.New().Run(program(), reg)
	require.NoError(t, err)
	assert.Equal(t, []string{"CallExpression", "CallExpression", "ExpressionStatement"}, parents)
	assert.Equal(t, []int{3, 3, 2}, depths)
}

func TestEngine_EachNodeVisitedOnce(t *testing.T) {
	visits := map[*ast.Node]int{}
	reg := visitor.NewRegistry()
	count := visitor.Hooks{Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
		visits[n]++
		return nil, nil
	}}
	for _, typ := range []string{"Program", "ExpressionStatement", "CallExpression", "Identifier"} {
		require.NoError(t, reg.Register(typ, count, "count"))
	}

	_, err := traverse.New().Run(program(), reg)
	require.NoError(t, err)
	assert.Len(t, visits, 7)
	for n, c := range visits {
		assert.Equal(t, 1, c, "node %s visited %d times", n.Type, c)
	}
}

func TestEngine_Observer(t *testing.T) {
	var hooks, replaces int
	reg := visitor.NewRegistry()
	require.NoError(t, reg.Register("Identifier", visitor.Hooks{
		Enter: func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
			if n.Str("name") == "y" {
				return ident("z"), nil
			}
			return nil, nil
		},
	}, "obs"))

	eng := traverse.New(traverse.WithObserver(traverse.Observer{
		OnHook:    func(traverse.Phase, string, string) { hooks++ },
		OnReplace: func(from, to, plugin string) { replaces++ },
	}))
	_, err := eng.Run(program(), reg)
	require.NoError(t, err)
	assert.Equal(t, 4, hooks, "f, x, y and the replacement z")
	assert.Equal(t, 1, replaces)
}

func TestEngine_NilInputs(t *testing.T) {
	_, err := traverse.New().Run(nil, visitor.NewRegistry())
	assert.ErrorIs(t, err, traverse.ErrNilRoot)

	out, err := traverse.New().Run(program(), nil)
	require.NoError(t, err)
	assert.Equal(t, "Program", out.Type)
}

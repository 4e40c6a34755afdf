package plugins

import (
	"slices"
	"strings"

	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/schema"
	"github.com/aretw0/graft/pkg/visitor"
)

// PureAnnotation is the block comment body minifiers read as "call has no side effects".
const PureAnnotation = " #__PURE__ "

type pureOptions struct {
	Callees []string `mapstructure:"callees"`
}

// AddPureComment marks call and new expressions with a leading pure annotation.
func AddPureComment() domain.PluginDeclaration {
	return domain.PluginDeclaration{
		Name:               "add-pure-comment",
		RequiredAPIVersion: 7,
		OptionsSchema: schema.Schema{
			"callees": schema.Optional(schema.Slice(schema.String())),
		},
		Description: `# add-pure-comment

Prepends a ` + "`/* #__PURE__ */`" + ` block comment to every call and ` + "`new`" + `
expression so minifiers may drop unused results.

Running the plugin twice leaves a single annotation.

## Options

- ` + "`callees`" + ` *(list of strings)*: only annotate calls whose callee name is listed.
`,
		Init: func(api domain.API, options map[string]any) (*domain.PluginDefinition, error) {
			var opts pureOptions
			if err := schema.Decode(options, &opts); err != nil {
				return nil, err
			}
			return &domain.PluginDefinition{
				Visitors: []visitor.Visitor{
					visitor.Enter("CallExpression|NewExpression", annotatePure(opts.Callees)),
				},
			}, nil
		},
	}
}

func annotatePure(callees []string) visitor.EnterFunc {
	return func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
		if len(callees) > 0 && !slices.Contains(callees, calleeName(n.Child("callee"))) {
			return nil, nil
		}
		if n.HasLeadingComment(isPure) {
			return nil, nil
		}
		n.PrependComment(ast.Comment{Type: ast.CommentBlock, Value: PureAnnotation})
		return nil, nil
	}
}

func isPure(c ast.Comment) bool {
	return strings.Contains(c.Value, "#__PURE__") || strings.Contains(c.Value, "@__PURE__")
}

// calleeName returns the identifier a callee resolves to: "f" for f() and
// "g" for a.b.g().
func calleeName(callee *ast.Node) string {
	switch {
	case callee == nil:
		return ""
	case callee.Is("Identifier"):
		return callee.Str("name")
	case callee.Is("MemberExpression"):
		return calleeName(callee.Child("property"))
	}
	return ""
}

package plugins

import (
	"slices"

	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/schema"
	"github.com/aretw0/graft/pkg/visitor"
)

type envOptions struct {
	Env     map[string]string `mapstructure:"env"`
	Exclude []string          `mapstructure:"exclude"`
}

// InlineEnv replaces process.env.NAME reads with string literals.
func InlineEnv() domain.PluginDeclaration {
	return domain.PluginDeclaration{
		Name:               "inline-env",
		RequiredAPIVersion: 7,
		OptionsSchema: schema.Schema{
			"env":     schema.Required(schema.Map(schema.String())),
			"exclude": schema.Optional(schema.Slice(schema.String())),
		},
		Description: `# inline-env

Replaces ` + "`process.env.NAME`" + ` and ` + "`process.env[\"NAME\"]`" + ` with the
configured value as a string literal. Names without a value are left untouched.

## Options

- ` + "`env`" + ` *(map of strings, required)*: the values to inline.
- ` + "`exclude`" + ` *(list of strings)*: names that are never inlined.
`,
		Init: func(api domain.API, options map[string]any) (*domain.PluginDefinition, error) {
			var opts envOptions
			if err := schema.Decode(options, &opts); err != nil {
				return nil, err
			}
			return &domain.PluginDefinition{
				Visitors: []visitor.Visitor{visitor.Enter("MemberExpression", opts.inline)},
			}, nil
		},
	}
}

func (o envOptions) inline(n *ast.Node, st *visitor.State) (*ast.Node, error) {
	if !isProcessEnv(n.Child("object")) || isWriteTarget(n, st.Parent()) {
		return nil, nil
	}
	name := memberKey(n)
	if name == "" || slices.Contains(o.Exclude, name) {
		return nil, nil
	}
	value, ok := o.Env[name]
	if !ok {
		return nil, nil
	}

	lit := ast.New("StringLiteral", ast.F("value", value))
	lit.LeadingComments = n.LeadingComments
	lit.TrailingComments = n.TrailingComments
	return lit, nil
}

// isWriteTarget reports whether n is assigned to or updated by parent,
// as in process.env.X = "y" or process.env.N++.
func isWriteTarget(n, parent *ast.Node) bool {
	switch {
	case parent.Is("AssignmentExpression"):
		return parent.Child("left") == n
	case parent.Is("UpdateExpression"):
		return parent.Child("argument") == n
	}
	return false
}

func isProcessEnv(n *ast.Node) bool {
	if !n.Is("MemberExpression") {
		return false
	}
	obj := n.Child("object")
	return obj.Is("Identifier") && obj.Str("name") == "process" && memberKey(n) == "env"
}

// memberKey returns the static property name of a member expression.
func memberKey(n *ast.Node) string {
	prop := n.Child("property")
	computed, _ := n.Get("computed")
	switch {
	case prop.Is("Identifier") && computed != true:
		return prop.Str("name")
	case prop.Is("StringLiteral"):
		return prop.Str("value")
	}
	return ""
}

package plugins

import (
	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/visitor"
)

// StripDebugger turns debugger statements into empty statements.
func StripDebugger() domain.PluginDeclaration {
	return domain.PluginDeclaration{
		Name:               "strip-debugger",
		RequiredAPIVersion: 7,
		Description:        "# strip-debugger\n\nReplaces every `debugger;` statement with an empty statement.\n",
		Init: func(domain.API, map[string]any) (*domain.PluginDefinition, error) {
			return &domain.PluginDefinition{
				Visitors: []visitor.Visitor{
					visitor.Enter("DebuggerStatement", func(n *ast.Node, _ *visitor.State) (*ast.Node, error) {
						empty := ast.New("EmptyStatement")
						empty.LeadingComments = n.LeadingComments
						return empty, nil
					}),
				},
			}, nil
		},
	}
}

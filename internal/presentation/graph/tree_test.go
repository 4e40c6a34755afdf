package graph_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/graft/internal/presentation/graph"
	"github.com/aretw0/graft/internal/testutils"
	"github.com/aretw0/graft/pkg/ast"
)

func sample() *ast.Node {
	call := ast.New("CallExpression",
		ast.F("callee", ast.New("Identifier", ast.F("name", "f"))),
		ast.F("arguments", []any{ast.New("NumericLiteral", ast.F("value", 1))}),
	)
	call.LeadingComments = []ast.Comment{{Type: ast.CommentBlock, Value: " #__PURE__ "}}
	return ast.New("Program", ast.F("body", []any{
		ast.New("ExpressionStatement", ast.F("expression", call)),
	}))
}

func TestTreePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := graph.NewTreePrinter(&buf, termenv.WithProfile(termenv.Ascii))
	require.NoError(t, p.Print(sample()))

	want := `Program
└─ body[0]: ExpressionStatement
   └─ expression: /* #__PURE__ */ CallExpression
      ├─ callee: Identifier
      │  └─ name = "f"
      └─ arguments[0]: NumericLiteral
         └─ value = 1
`
	assert.Equal(t, want, buf.String())
}

func TestTreePrinter_NoScalars(t *testing.T) {
	var buf bytes.Buffer
	p := graph.NewTreePrinter(&buf, termenv.WithProfile(termenv.Ascii))
	p.Scalars = false
	require.NoError(t, p.Print(ast.New("Identifier", ast.F("name", "x"))))
	assert.Equal(t, "Identifier\n", buf.String())
}

func TestTreePrinter_ParsedSource(t *testing.T) {
	root := testutils.MustParse(t, "type: Program\nbody:\n  - type: JSXElement\n    children: []\n")

	var buf bytes.Buffer
	require.NoError(t, graph.NewTreePrinter(&buf, termenv.WithProfile(termenv.Ascii)).Print(root))
	assert.Equal(t, "Program\n└─ body[0]: JSXElement\n", buf.String())
}

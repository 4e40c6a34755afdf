package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/graft/pkg/ast"
)

// Overlay contains traversal data to visualize on the graph.
type Overlay struct {
	// Highlight lists node types drawn with the "visited" style.
	Highlight []string
}

// GenerateMermaid produces a Mermaid flowchart syntax string for a syntax tree.
// Edges are labeled with the field (and list index) holding the child.
// It applies semantic styling:
// - Root: ((Circle))
// - Literals and identifiers: ([Stadium])
// - Default: [Rectangle]
// It also applies overlay styles if provided.
func GenerateMermaid(root *ast.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := map[*ast.Node]string{}
	var order []*ast.Node
	var visit func(n *ast.Node)
	visit = func(n *ast.Node) {
		id := fmt.Sprintf("n%d", len(order))
		ids[n] = id
		order = append(order, n)

		opener, closer := "[", "]"
		switch {
		case n == root:
			opener, closer = "((", "))"
		case n.Is("Identifier") || strings.HasSuffix(n.Type, "Literal"):
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, nodeLabel(n), closer))

		for _, slot := range n.Children() {
			child := slot.Node()
			edge := slot.Key
			if slot.Index >= 0 {
				edge = fmt.Sprintf("%s[%d]", slot.Key, slot.Index)
			}
			visit(child)
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", id, edge, ids[child]))
		}
	}
	visit(root)

	if overlay != nil && len(overlay.Highlight) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		for _, n := range order {
			if slices.Contains(overlay.Highlight, n.Type) {
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", ids[n]))
			}
		}
	}

	return sb.String()
}

func nodeLabel(n *ast.Node) string {
	label := n.Type
	if label == "" {
		label = "{}"
	}
	switch {
	case n.Str("name") != "":
		label += " " + n.Str("name")
	case n.Is("StringLiteral"):
		label += " '" + n.Str("value") + "'"
	default:
		if v, ok := n.Get("value"); ok && v != nil {
			label += fmt.Sprintf(" %v", v)
		}
	}
	// Escape double quotes for Mermaid labels
	return strings.ReplaceAll(label, `"`, "'")
}

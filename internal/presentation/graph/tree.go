package graph

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/graft/pkg/ast"
)

// TreePrinter writes an indented, colored outline of a syntax tree.
type TreePrinter struct {
	out *termenv.Output
	// Scalars includes non-node fields such as names and literal values.
	Scalars bool
}

// NewTreePrinter creates a printer for w. The color profile is detected from w
// unless opts override it (e.g. termenv.WithProfile(termenv.Ascii) in tests).
func NewTreePrinter(w io.Writer, opts ...termenv.OutputOption) *TreePrinter {
	return &TreePrinter{out: termenv.NewOutput(w, opts...), Scalars: true}
}

// Print writes root and its descendants.
func (p *TreePrinter) Print(root *ast.Node) error {
	if _, err := fmt.Fprintln(p.out, p.label(root)); err != nil {
		return err
	}
	return p.children(root, "")
}

func (p *TreePrinter) children(n *ast.Node, indent string) error {
	type line struct {
		key   string
		value any
	}
	var lines []line
	for _, f := range n.Fields() {
		switch v := f.Value.(type) {
		case *ast.Node:
			lines = append(lines, line{f.Key, v})
		case []any:
			for i, item := range v {
				if child, ok := item.(*ast.Node); ok && child != nil {
					lines = append(lines, line{f.Key + "[" + strconv.Itoa(i) + "]", child})
				}
			}
		default:
			if p.Scalars {
				lines = append(lines, line{f.Key, v})
			}
		}
	}

	for i, l := range lines {
		branch, next := "├─ ", "│  "
		if i == len(lines)-1 {
			branch, next = "└─ ", "   "
		}
		key := p.out.String(l.key).Foreground(p.out.Color("#94a3b8"))

		child, isNode := l.value.(*ast.Node)
		if !isNode {
			val := p.out.String(scalar(l.value)).Foreground(p.out.Color("#fbbf24"))
			if _, err := fmt.Fprintf(p.out, "%s%s%s = %s\n", indent, branch, key, val); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(p.out, "%s%s%s: %s\n", indent, branch, key, p.label(child)); err != nil {
			return err
		}
		if err := p.children(child, indent+next); err != nil {
			return err
		}
	}
	return nil
}

func (p *TreePrinter) label(n *ast.Node) string {
	typ := n.Type
	if typ == "" {
		typ = "{}"
	}
	s := p.out.String(typ).Foreground(p.out.Color("#818cf8")).Bold().String()
	var comments []string
	for _, c := range n.LeadingComments {
		comments = append(comments, commentText(c))
	}
	if len(comments) > 0 {
		s = p.out.String(strings.Join(comments, " ")).Foreground(p.out.Color("#4ade80")).String() + " " + s
	}
	return s
}

func commentText(c ast.Comment) string {
	if c.Type == ast.CommentLine {
		return "//" + c.Value
	}
	return "/*" + c.Value + "*/"
}

func scalar(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	}
	return fmt.Sprint(v)
}

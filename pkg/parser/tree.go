package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/parseropts"
)

// ExtensionRule ties node types to the syntax extension that must be enabled
// for them to parse. Match is an exact type name, or a prefix when Prefix is set.
type ExtensionRule struct {
	Match     string
	Prefix    bool
	Extension string
}

// DefaultExtensionRules mirrors the syntax plugins of Babel-style parsers.
var DefaultExtensionRules = []ExtensionRule{
	{Match: "JSX", Prefix: true, Extension: "jsx"},
	{Match: "TS", Prefix: true, Extension: "typescript"},
	{Match: "Decorator", Extension: "decorators"},
	{Match: "TypeCastExpression", Extension: "flow"},
	{Match: "DoExpression", Extension: "doExpressions"},
	{Match: "TopicReference", Extension: "pipelineOperator"},
	{Match: "ImportAttribute", Extension: "importAttributes"},
}

var moduleOnly = map[string]bool{
	"ImportDeclaration":        true,
	"ExportNamedDeclaration":   true,
	"ExportDefaultDeclaration": true,
	"ExportAllDeclaration":     true,
}

// TreeParser parses serialized syntax trees. Sources starting with "{" are
// read as JSON, anything else as YAML; both keep field order and record node
// positions. The tree is then checked against the enabled extensions and the
// source type.
type TreeParser struct {
	rules []ExtensionRule
}

// TreeOption configures a TreeParser.
type TreeOption func(*TreeParser)

// WithExtensionRules replaces the extension gating rules.
func WithExtensionRules(rules []ExtensionRule) TreeOption {
	return func(p *TreeParser) { p.rules = rules }
}

// NewTreeParser creates a parser with DefaultExtensionRules.
func NewTreeParser(opts ...TreeOption) *TreeParser {
	p := &TreeParser{rules: DefaultExtensionRules}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse implements Parser.
func (p *TreeParser) Parse(source string, opts parseropts.Options) (*ast.Node, error) {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return nil, &SyntaxError{Message: "empty source"}
	}

	var (
		root *ast.Node
		err  error
	)
	if strings.HasPrefix(trimmed, "{") {
		root, err = parseJSON(source)
	} else {
		root, err = parseYAML(source)
	}
	if err != nil {
		return nil, err
	}
	if root.Type == "" {
		return nil, syntaxAt(root, "root node has no type")
	}
	if err := p.check(root, opts); err != nil {
		return nil, err
	}
	return root, nil
}

func parseJSON(source string) (*ast.Node, error) {
	data := []byte(source)
	root, err := ast.DecodeJSON(data, true)
	if err == nil {
		return root, nil
	}

	var (
		syntaxErr *json.SyntaxError
		offErr    *ast.OffsetError
	)
	switch {
	case errors.As(err, &syntaxErr):
		pos := ast.Locate(data, syntaxErr.Offset)
		return nil, &SyntaxError{Message: syntaxErr.Error(), Line: pos.Line, Column: pos.Column, Err: err}
	case errors.As(err, &offErr):
		pos := ast.Locate(data, offErr.Offset)
		return nil, &SyntaxError{Message: offErr.Msg, Line: pos.Line, Column: pos.Column, Err: err}
	default:
		pos := ast.Locate(data, int64(len(data)))
		return nil, &SyntaxError{Message: err.Error(), Line: pos.Line, Column: pos.Column, Err: err}
	}
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

func parseYAML(source string) (*ast.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(source), &doc); err != nil {
		se := &SyntaxError{Message: strings.TrimPrefix(err.Error(), "yaml: "), Err: err}
		if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
			se.Line, _ = strconv.Atoi(m[1])
		}
		return nil, se
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &SyntaxError{Message: "empty document"}
	}
	v, err := fromYAML(doc.Content[0])
	if err != nil {
		return nil, err
	}
	root, ok := v.(*ast.Node)
	if !ok {
		top := doc.Content[0]
		return nil, &SyntaxError{Message: "root must be a mapping", Line: top.Line, Column: top.Column}
	}
	return root, nil
}

// maxAliasExpansions bounds how many alias references one document may expand,
// so a small document cannot fan out into an enormous tree.
const maxAliasExpansions = 1000

// yamlReader converts yaml.v3 nodes into a tree. Aliases are expanded in place;
// an alias that refers to a node it is nested in is rejected.
type yamlReader struct {
	active  map[*yaml.Node]bool
	aliases int
}

func fromYAML(y *yaml.Node) (any, error) {
	r := &yamlReader{active: map[*yaml.Node]bool{}}
	return r.read(y, 0)
}

func (r *yamlReader) read(y *yaml.Node, depth int) (any, error) {
	if depth >= ast.MaxDepth {
		return nil, &SyntaxError{Message: fmt.Sprintf("exceeded max depth of %d", ast.MaxDepth), Line: y.Line, Column: y.Column}
	}

	switch y.Kind {
	case yaml.AliasNode:
		if y.Alias == nil {
			return nil, &SyntaxError{Message: "unknown alias", Line: y.Line, Column: y.Column}
		}
		if r.active[y.Alias] {
			return nil, &SyntaxError{Message: fmt.Sprintf("alias *%s refers to its own ancestor", y.Value), Line: y.Line, Column: y.Column}
		}
		r.aliases++
		if r.aliases > maxAliasExpansions {
			return nil, &SyntaxError{Message: fmt.Sprintf("document expands more than %d aliases", maxAliasExpansions), Line: y.Line, Column: y.Column}
		}
		return r.read(y.Alias, depth+1)

	case yaml.MappingNode:
		r.active[y] = true
		defer delete(r.active, y)

		n := &ast.Node{Loc: &ast.Position{Line: y.Line, Column: y.Column}}
		for i := 0; i+1 < len(y.Content); i += 2 {
			key, val := y.Content[i], y.Content[i+1]
			switch key.Value {
			case ast.KeyType:
				if err := val.Decode(&n.Type); err != nil {
					return nil, yamlError(val, err)
				}
			case ast.KeyLeadingComments:
				n.LeadingComments = []ast.Comment{}
				if err := val.Decode(&n.LeadingComments); err != nil {
					return nil, yamlError(val, err)
				}
			case ast.KeyTrailingComments:
				n.TrailingComments = []ast.Comment{}
				if err := val.Decode(&n.TrailingComments); err != nil {
					return nil, yamlError(val, err)
				}
			default:
				v, err := r.read(val, depth+1)
				if err != nil {
					return nil, err
				}
				n.Set(key.Value, v)
			}
		}
		return n, nil

	case yaml.SequenceNode:
		r.active[y] = true
		defer delete(r.active, y)

		list := make([]any, 0, len(y.Content))
		for _, c := range y.Content {
			v, err := r.read(c, depth+1)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil

	default:
		var v any
		if err := y.Decode(&v); err != nil {
			return nil, yamlError(y, err)
		}
		return v, nil
	}
}

func yamlError(y *yaml.Node, err error) error {
	return &SyntaxError{Message: err.Error(), Line: y.Line, Column: y.Column, Err: err}
}

func syntaxAt(n *ast.Node, msg string) *SyntaxError {
	se := &SyntaxError{Message: msg}
	if n.Loc != nil {
		se.Line, se.Column = n.Loc.Line, n.Loc.Column
	}
	return se
}

// check walks the tree and rejects syntax the options do not enable.
func (p *TreeParser) check(n *ast.Node, opts parseropts.Options) error {
	if ext := p.requiredExtension(n.Type); ext != "" && !opts.Has(ext) {
		return syntaxAt(n, fmt.Sprintf("this experimental syntax requires enabling the parser plugin: %q", ext))
	}
	if opts.SourceType == parseropts.SourceScript && moduleOnly[n.Type] {
		return syntaxAt(n, `'import' and 'export' may appear only with 'sourceType: "module"'`)
	}
	for _, slot := range n.Children() {
		if err := p.check(slot.Node(), opts); err != nil {
			return err
		}
	}
	return nil
}

func (p *TreeParser) requiredExtension(nodeType string) string {
	if nodeType == "" {
		return ""
	}
	for _, r := range p.rules {
		if r.Prefix && strings.HasPrefix(nodeType, r.Match) {
			return r.Extension
		}
		if !r.Prefix && nodeType == r.Match {
			return r.Extension
		}
	}
	return ""
}

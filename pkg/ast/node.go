package ast

import "slices"

// Comment kinds as produced by Babel-compatible parsers.
const (
	CommentBlock = "CommentBlock"
	CommentLine  = "CommentLine"
)

// Comment is a source comment attached to a node.
type Comment struct {
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Position is a 1-based line/column location reported by the parser.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Field is a single named property of a node.
// Value is a scalar (string, int, float64, bool, nil), a *Node, or a []any list.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for building a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Node is a syntax tree node.
// Fields keep their source order, which is the order children are traversed in.
// A Node with an empty Type is a structural object (e.g. "loc") and is never
// dispatched to visitors, though its children are.
type Node struct {
	Type             string
	LeadingComments  []Comment
	TrailingComments []Comment
	Loc              *Position

	fields []Field
}

// New creates a node of the given type with the fields in order.
func New(typ string, fields ...Field) *Node {
	n := &Node{Type: typ}
	for _, f := range fields {
		n.Set(f.Key, f.Value)
	}
	return n
}

// Get returns the value stored under key.
func (n *Node) Get(key string) (any, bool) {
	if i := n.index(key); i >= 0 {
		return n.fields[i].Value, true
	}
	return nil, false
}

// Child returns the node stored under key, or nil when the field is absent or not a node.
func (n *Node) Child(key string) *Node {
	v, _ := n.Get(key)
	child, _ := v.(*Node)
	return child
}

// List returns the list stored under key, or nil.
func (n *Node) List(key string) []any {
	v, _ := n.Get(key)
	list, _ := v.([]any)
	return list
}

// Str returns the string stored under key, or "" when absent or not a string.
func (n *Node) Str(key string) string {
	v, _ := n.Get(key)
	s, _ := v.(string)
	return s
}

// Set stores value under key. Existing keys keep their position; new keys are appended.
func (n *Node) Set(key string, value any) {
	if i := n.index(key); i >= 0 {
		n.fields[i].Value = value
		return
	}
	n.fields = append(n.fields, Field{Key: key, Value: value})
}

// Delete removes key and reports whether it was present.
func (n *Node) Delete(key string) bool {
	i := n.index(key)
	if i < 0 {
		return false
	}
	n.fields = slices.Delete(n.fields, i, i+1)
	return true
}

// Keys returns the field names in order.
func (n *Node) Keys() []string {
	keys := make([]string, len(n.fields))
	for i, f := range n.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the ordered fields.
func (n *Node) Fields() []Field {
	return slices.Clone(n.fields)
}

// Is reports whether the node is non-nil and has the given type.
func (n *Node) Is(typ string) bool {
	return n != nil && n.Type == typ
}

// HasLeadingComment reports whether any leading comment satisfies match.
func (n *Node) HasLeadingComment(match func(Comment) bool) bool {
	return slices.ContainsFunc(n.LeadingComments, match)
}

// PrependComment inserts c before the existing leading comments.
func (n *Node) PrependComment(c Comment) {
	n.LeadingComments = append([]Comment{c}, n.LeadingComments...)
}

func (n *Node) index(key string) int {
	for i, f := range n.fields {
		if f.Key == key {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the subtree rooted at n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{
		Type:             n.Type,
		LeadingComments:  cloneComments(n.LeadingComments),
		TrailingComments: cloneComments(n.TrailingComments),
	}
	if n.Loc != nil {
		loc := *n.Loc
		out.Loc = &loc
	}
	out.fields = make([]Field, len(n.fields))
	for i, f := range n.fields {
		out.fields[i] = Field{Key: f.Key, Value: cloneValue(f.Value)}
	}
	return out
}

func cloneComments(c []Comment) []Comment {
	if c == nil {
		return nil
	}
	return slices.Clone(c)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case *Node:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

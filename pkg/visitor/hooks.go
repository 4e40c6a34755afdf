// Package visitor holds the hooks plugins register per node type and the
// registry that orders them for traversal.
package visitor

import "github.com/aretw0/graft/pkg/ast"

// EnterFunc runs when traversal reaches a node.
// Returning a non-nil node other than n replaces n in its parent slot; the
// replacement is then entered from scratch. Returning nil or n keeps n.
type EnterFunc func(n *ast.Node, st *State) (*ast.Node, error)

// ExitFunc runs after a node's children have been visited.
type ExitFunc func(n *ast.Node, st *State) error

// Hooks is an optional enter/exit pair.
type Hooks struct {
	Enter EnterFunc
	Exit  ExitFunc
}

// Visitor binds hooks to a node type. NodeType may list aliases separated by
// "|" (e.g. "CallExpression|NewExpression").
type Visitor struct {
	NodeType string
	Hooks
}

// Enter builds a visitor with only an enter hook.
func Enter(nodeType string, fn EnterFunc) Visitor {
	return Visitor{NodeType: nodeType, Hooks: Hooks{Enter: fn}}
}

// Exit builds a visitor with only an exit hook.
func Exit(nodeType string, fn ExitFunc) Visitor {
	return Visitor{NodeType: nodeType, Hooks: Hooks{Exit: fn}}
}

// State is the traversal state handed to hooks. It is created fresh for each
// run and must not be retained after the hook returns.
type State struct {
	// Path holds the ancestors of the current node, root first.
	Path []*ast.Node
	// SkipChildren, when set by an enter hook, prunes descent into the current node.
	SkipChildren bool
	// Plugin is the name of the plugin whose hook is running.
	Plugin string
}

// Parent returns the closest ancestor, or nil at the root.
func (s *State) Parent() *ast.Node {
	if len(s.Path) == 0 {
		return nil
	}
	return s.Path[len(s.Path)-1]
}

// Depth is the number of ancestors of the current node.
func (s *State) Depth() int { return len(s.Path) }

// Skip prunes descent into the current node.
func (s *State) Skip() { s.SkipChildren = true }

// Package ast defines the generic syntax tree traversed and rewritten by graft.
//
// A Node carries a Type, leading and trailing comments, and an ordered list of
// fields. Field values are scalars, child nodes or lists, which keeps the model
// independent of any language grammar while preserving the natural field order
// the traversal relies on. Nodes are owned by their tree; visitors mutate them
// in place or hand back a replacement.
//
//	call := ast.New("CallExpression",
//	    ast.F("callee", ast.New("Identifier", ast.F("name", "make"))),
//	    ast.F("arguments", []any{}),
//	)
//	call.PrependComment(ast.Comment{Type: ast.CommentBlock, Value: " #__PURE__ "})
package ast

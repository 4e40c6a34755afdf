// Package parser defines the parser collaborator graft hands source text to,
// and ships a parser for serialized trees (JSON or YAML).
package parser

import (
	"errors"
	"fmt"

	"github.com/aretw0/graft/pkg/ast"
	"github.com/aretw0/graft/pkg/parseropts"
)

// Parser turns source text into a syntax tree.
// Failures should be reported as *SyntaxError.
type Parser interface {
	Parse(source string, opts parseropts.Options) (*ast.Node, error)
}

// Func adapts a function to the Parser interface.
type Func func(source string, opts parseropts.Options) (*ast.Node, error)

func (f Func) Parse(source string, opts parseropts.Options) (*ast.Node, error) {
	return f(source, opts)
}

// SyntaxError is a parse failure. Line and Column are 1-based and zero when unknown.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
	Err     error
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("syntax error: %s (%d:%d)", e.Message, e.Line, e.Column)
	}
	return "syntax error: " + e.Message
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// AsSyntaxError returns err as a *SyntaxError, wrapping foreign errors without position.
func AsSyntaxError(err error) *SyntaxError {
	if err == nil {
		return nil
	}
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr
	}
	return &SyntaxError{Message: err.Error(), Err: err}
}

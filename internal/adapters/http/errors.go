package http

import (
	"errors"
	"net/http"

	"github.com/aretw0/graft/internal/runtime"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/parser"
	"github.com/aretw0/graft/pkg/schema"
	"github.com/aretw0/graft/pkg/traverse"
	"github.com/aretw0/graft/pkg/version"
	"github.com/aretw0/graft/pkg/visitor"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Plugin string `json:"plugin,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
	// Options lists the failing option keys for kind "options".
	Options []string `json:"options,omitempty"`
}

// mapError picks the status code and body for a pipeline error.
func mapError(err error) (int, ErrorResponse) {
	body := ErrorResponse{Error: err.Error()}

	var pluginErr *runtime.PluginError
	if errors.As(err, &pluginErr) {
		body.Plugin = pluginErr.Plugin
	}

	var (
		syntaxErr    *parser.SyntaxError
		limitErr     *traverse.TraversalLimitExceededError
		hookErr      *traverse.HookError
		invalid      *schema.InvalidOptionsError
		incompatible *version.IncompatiblePluginError
		dupVisitor   *visitor.DuplicateVisitorError
	)
	switch {
	case errors.As(err, &syntaxErr):
		body.Kind = "syntax"
		body.Line, body.Column = syntaxErr.Line, syntaxErr.Column
		return http.StatusBadRequest, body

	case errors.Is(err, domain.ErrPluginNotFound):
		body.Kind = "not_found"
		return http.StatusNotFound, body

	case errors.As(err, &limitErr):
		body.Kind = "traversal_limit"
		body.Plugin = limitErr.Plugin
		return http.StatusInternalServerError, body

	case errors.As(err, &hookErr):
		body.Kind = "hook"
		body.Plugin = hookErr.Plugin
		return http.StatusInternalServerError, body

	case errors.As(err, &invalid):
		body.Kind = "options"
		body.Plugin = invalid.Plugin
		body.Options = invalid.Keys()
		return http.StatusUnprocessableEntity, body

	case errors.As(err, &incompatible):
		body.Kind = "version"
		return http.StatusUnprocessableEntity, body

	case errors.Is(err, domain.ErrDuplicatePlugin), errors.As(err, &dupVisitor):
		body.Kind = "duplicate"
		return http.StatusUnprocessableEntity, body

	case pluginErr != nil:
		body.Kind = "plugin"
		return http.StatusUnprocessableEntity, body
	}

	body.Kind = "internal"
	return http.StatusInternalServerError, body
}

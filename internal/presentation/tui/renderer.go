package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/aretw0/graft/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// Without options it detects a light or dark background.
func NewRenderer(opts ...glamour.TermRendererOption) (func(string) (string, error), error) {
	if len(opts) == 0 {
		opts = []glamour.TermRendererOption{glamour.WithAutoStyle()}
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}

// ExplainMarkdown documents a plugin declaration: its description, the host
// API it requires and its options.
func ExplainMarkdown(d domain.PluginDeclaration) string {
	var sb strings.Builder
	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		desc = "# " + d.Name
	}
	sb.WriteString(desc)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Requires host API version **%d**.\n\n", d.RequiredAPIVersion)

	lines := d.OptionsSchema.Describe()
	if len(lines) == 0 {
		sb.WriteString("This plugin takes no options.\n")
		return sb.String()
	}
	sb.WriteString("## Options\n\n")
	for _, l := range lines {
		fmt.Fprintf(&sb, "- `%s`\n", l)
	}
	return sb.String()
}

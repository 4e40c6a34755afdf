package plugins

import "github.com/aretw0/graft/pkg/domain"

// Builtins returns the plugins shipped with graft.
func Builtins() []domain.PluginDeclaration {
	return []domain.PluginDeclaration{
		AddPureComment(),
		SyntaxJSX(),
		SyntaxTypeScript(),
		SyntaxDecorators(),
		InlineEnv(),
		StripDebugger(),
	}
}

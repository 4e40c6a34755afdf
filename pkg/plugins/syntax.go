package plugins

import (
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/parseropts"
	"github.com/aretw0/graft/pkg/schema"
)

// syntaxPlugin declares a plugin whose only effect is enabling parser extensions.
func syntaxPlugin(name, description string, flags ...string) domain.PluginDeclaration {
	return domain.PluginDeclaration{
		Name:               name,
		RequiredAPIVersion: 7,
		Description:        description,
		Init: func(domain.API, map[string]any) (*domain.PluginDefinition, error) {
			return &domain.PluginDefinition{
				ParserOptionMutations: []parseropts.Mutation{enable(flags...)},
			}, nil
		},
	}
}

func enable(flags ...string) parseropts.Mutation {
	return func(o *parseropts.Options) { o.Enable(flags...) }
}

func SyntaxJSX() domain.PluginDeclaration {
	return syntaxPlugin("syntax-jsx", "# syntax-jsx\n\nEnables parsing of JSX elements and fragments.\n", "jsx")
}

func SyntaxDecorators() domain.PluginDeclaration {
	return syntaxPlugin("syntax-decorators", "# syntax-decorators\n\nEnables parsing of class and member decorators.\n", "decorators")
}

type typescriptOptions struct {
	IsTSX bool `mapstructure:"isTSX"`
}

// SyntaxTypeScript enables TypeScript syntax, plus JSX when isTSX is set.
func SyntaxTypeScript() domain.PluginDeclaration {
	d := syntaxPlugin("syntax-typescript", `# syntax-typescript

Enables parsing of TypeScript type annotations and declarations.

## Options

- `+"`isTSX`"+` *(bool, default false)*: also enable JSX, as for `+"`.tsx`"+` files.
`)
	d.OptionsSchema = schema.Schema{
		"isTSX": schema.WithDefault(schema.Bool(), false),
	}
	d.Init = func(_ domain.API, options map[string]any) (*domain.PluginDefinition, error) {
		var opts typescriptOptions
		if err := schema.Decode(options, &opts); err != nil {
			return nil, err
		}
		flags := []string{"typescript"}
		if opts.IsTSX {
			flags = append(flags, "jsx")
		}
		return &domain.PluginDefinition{
			ParserOptionMutations: []parseropts.Mutation{enable(flags...)},
		}, nil
	}
	return d
}

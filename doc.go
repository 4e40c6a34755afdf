/*
Package graft is a plugin-driven engine for transforming syntax trees.

A transformation is an ordered list of plugins. Each plugin declares the host
API version it needs and the options it accepts, and its Init returns a
definition: mutations to the parser options and visitors keyed by node type.
graft checks every plugin, initializes all of them, parses the source once with
the merged options, and walks the tree a single time calling every plugin's
hooks in declaration order.

# Concept

  - Version gating: a plugin requiring a newer host API is rejected before anything runs.
  - Option schemas: all invalid options of a plugin are reported together.
  - Add-only parser options: a plugin can enable syntax extensions but never disable one.
  - Single traversal: plugins share one depth-first walk; enter hooks may replace nodes.

# Usage

	eng := graft.New()
	tree, err := eng.Transform(ctx, source, []plugins.Ref{
		{Name: "syntax-jsx"},
		{Name: "add-pure-comment"},
	})
	if err != nil {
		log.Fatal(err)
	}
	out, _ := json.Marshal(tree)
	fmt.Println(string(out))

Sources are serialized trees (JSON or YAML) by default; use WithParser to plug
in a parser for real source text.
*/
package graft

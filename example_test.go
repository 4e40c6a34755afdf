package graft_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/pkg/plugins"
)

// ExampleEngine_Transform annotates a call expression through a built-in plugin.
func ExampleEngine_Transform() {
	src := `{"type":"CallExpression","callee":{"type":"Identifier","name":"f"},"arguments":[]}`

	eng := graft.New()
	tree, err := eng.Transform(context.Background(), src, []plugins.Ref{{Name: "add-pure-comment"}})
	if err != nil {
		log.Fatal(err)
	}

	out, err := json.Marshal(tree)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
	// Output:
	// {"type":"CallExpression","callee":{"type":"Identifier","name":"f"},"arguments":[],"leadingComments":[{"type":"CommentBlock","value":" #__PURE__ "}]}
}

// ExampleEngine_Check reports the parser options a plugin list resolves to.
func ExampleEngine_Check() {
	eng := graft.New()
	opts, err := eng.Check(context.Background(), []plugins.Ref{
		{Name: "syntax-typescript", Options: map[string]any{"isTSX": true}},
		{Name: "syntax-decorators"},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(opts.Extensions)
	// Output:
	// [typescript jsx decorators]
}

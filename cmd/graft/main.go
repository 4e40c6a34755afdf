// Command graft runs source-transformation plugins over serialized syntax
// trees, from the shell or as an HTTP service.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

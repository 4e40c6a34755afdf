package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		pluginFlags []string
		indent      bool
	)
	cmd := &cobra.Command{
		Use:   "run <file|->",
		Short: "Transform a syntax tree and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			refs, err := a.refs(pluginFlags)
			if err != nil {
				return err
			}

			engine := cli.NewEngine(a.cfg, a.logger)
			root, err := engine.Transform(cmd.Context(), source, refs)
			if err != nil {
				return err
			}

			var out []byte
			if indent {
				out, err = json.MarshalIndent(root, "", "  ")
			} else {
				out, err = json.Marshal(root)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&pluginFlags, "plugin", "p", nil, "Plugin to apply, as name or name=<options>; repeatable, replaces configured plugins")
	cmd.Flags().BoolVar(&indent, "indent", false, "Indent the JSON output")
	return cmd
}

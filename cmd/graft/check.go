package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
)

func newCheckCmd(a *app) *cobra.Command {
	var pluginFlags []string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the plugin list without parsing any source",
		Long: `Runs version checks, option validation and Init for every plugin, merges their
visitors and prints the parser options they produce.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := a.refs(pluginFlags)
			if err != nil {
				return err
			}
			opts, err := cli.NewEngine(a.cfg, a.logger).Check(cmd.Context(), refs)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ok: %d plugin(s)\n", len(refs))
			fmt.Fprintf(out, "sourceType: %s\n", opts.SourceType)
			fmt.Fprintf(out, "extensions: %v\n", opts.Extensions)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&pluginFlags, "plugin", "p", nil, "Plugin to check, as name or name=<options>; repeatable")
	return cmd
}

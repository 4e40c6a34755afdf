package main

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/presentation/tui"
	"github.com/aretw0/graft/internal/cli"
)

func newExplainCmd(a *app) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "explain <plugin>",
		Short: "Describe a plugin and its options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decl, err := cli.NewEngine(a.cfg, a.logger).Catalog().Lookup(args[0])
			if err != nil {
				return err
			}
			md := tui.ExplainMarkdown(decl)
			if raw {
				_, err = fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}

			render, err := tui.NewRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
			if err != nil {
				return err
			}
			out, err := render(md)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown without rendering")
	return cmd
}

package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/graft/internal/cli"
)

func newPluginsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the available plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tAPI\tOPTIONS")
			for _, d := range cli.NewEngine(a.cfg, a.logger).Catalog().All() {
				opts := strings.Join(d.OptionsSchema.Describe(), ", ")
				if opts == "" {
					opts = "-"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", d.Name, d.RequiredAPIVersion, opts)
			}
			return w.Flush()
		},
	}
}

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/angeloszaimis/redirect-monitor/internal/registry"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes [path]",
		Short: "List the registered redirects, or the one registered under path",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			routes := registry.Default()

			if len(args) == 1 {
				route, ok := registry.Lookup(routes, args[0])
				if !ok {
					return fmt.Errorf("no redirect registered under %s", args[0])
				}
				routes = []registry.RedirectRoute{route}
			}

			printRoutes(cmd.OutOrStdout(), routes)
			return nil
		},
	}
}

func printRoutes(w io.Writer, routes []registry.RedirectRoute) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tDESTINATION")
	for _, r := range routes {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.Path, r.Destination)
	}
	tw.Flush()
}

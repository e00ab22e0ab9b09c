package main

import (
	"github.com/spf13/cobra"
)

type options struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "redirect-monitor",
		Short: "Monitor the health of legacy short-link redirects",
		Long: `redirect-monitor serves the site's legacy short-link redirects and
periodically checks that every external destination still answers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default is ./config/config.yaml)")

	root.AddCommand(
		newServeCmd(opts),
		newCheckCmd(opts),
		newRoutesCmd(),
	)

	return root
}

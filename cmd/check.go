package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/angeloszaimis/redirect-monitor/config"
	"github.com/angeloszaimis/redirect-monitor/internal/cache"
	"github.com/angeloszaimis/redirect-monitor/internal/registry"
	"github.com/angeloszaimis/redirect-monitor/pkg/logger"
)

var errUnhealthy = errors.New("one or more redirects are unhealthy")

func newCheckCmd(opts *options) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate every redirect once and print the results",
		Long:  `Run a single validation pass and exit non-zero if any destination is unhealthy.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := logger.Discard()
			if verbose {
				log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, false, cfg.Server.Environment)
			}

			monitor := newMonitor(cfg, log, registry.Default(), nil, newBreakers(cfg.Alerting))

			results, err := monitor.Run(cmd.Context())
			if err != nil {
				return err
			}

			printResults(cmd.OutOrStdout(), results)

			for _, res := range results {
				if !res.IsHealthy {
					return errUnhealthy
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log probe details to stderr")

	return cmd
}

func printResults(w io.Writer, results []cache.ValidationResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tSTATUS\tHEALTH\tDETAIL")

	for _, res := range results {
		status := "-"
		if res.Status != nil {
			status = fmt.Sprint(*res.Status)
		}

		health := color.GreenString("healthy")
		if !res.IsHealthy {
			health = color.RedString("unhealthy")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", res.Route, status, health, res.Error)
	}

	tw.Flush()
}

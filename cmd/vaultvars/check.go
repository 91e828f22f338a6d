package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/vaultvars/engine"
	"github.com/jonwraymond/vaultvars/health"
)

var errUnhealthy = errors.New("backend check failed")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check backend reachability and token presence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(eng *engine.Engine) error {
				agg := health.NewAggregator(health.AggregatorConfig{Timeout: a.timeout * 2})
				for _, c := range eng.HealthCheckers() {
					agg.Register(c)
				}

				report := agg.CheckAll(cmd.Context())
				for _, r := range report.Results {
					fmt.Fprintf(a.stdout, "%-6s %-9s %s\n", r.Name, r.Result.Status, r.Result.Message)
				}
				fmt.Fprintf(a.stdout, "address: %s\n", eng.Address())

				if report.Status == health.StatusUnhealthy {
					return errUnhealthy
				}
				return nil
			})
		},
	}
}

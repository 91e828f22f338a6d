package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/vaultvars/engine"
	"github.com/jonwraymond/vaultvars/varsource"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <reference>...",
		Short: "Resolve references and print one value per line",
		Long: `Resolve each reference, e.g. vault:secret/app/db.password, and print its
value. Strings are printed as is, other values as JSON, and missing values
as null.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd.Context(), func(eng *engine.Engine) error {
				for _, raw := range args {
					v, err := eng.Resolve(cmd.Context(), raw)
					if err != nil {
						return err
					}
					s, err := varsource.Stringify(v)
					if err != nil {
						return err
					}
					if _, err := fmt.Fprintln(a.stdout, s); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

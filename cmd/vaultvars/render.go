package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/vaultvars/config"
	"github.com/jonwraymond/vaultvars/engine"
	"github.com/jonwraymond/vaultvars/varsource"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		output      string
		strict      bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Print a configuration document with every reference resolved",
		Long: `Load a YAML, JSON or HCL document, read vault_token and vault_address from
its custom section, resolve every ${vault:...} and ${env:...} reference
(vault() and env() calls in HCL) and print the result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()

			doc, err := config.Load(args[0])
			if err != nil {
				return err
			}

			format := doc.Format
			if output != "" {
				if format, err = config.ParseFormat(output); err != nil {
					return err
				}
			}

			envOnly := varsource.NewResolver([]varsource.Source{varsource.NewEnvSource(a.env)})
			custom, err := doc.Custom(ctx, envOnly)
			if err != nil {
				return err
			}

			obs, err := a.observer(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if serr := obs.Shutdown(ctx); serr != nil && err == nil {
					err = serr
				}
			}()

			reg := varsource.NewRegistry()
			if err := engine.Register(reg, a.engineConfig(), a.env, a.engineOptions(obs, a.logger())...); err != nil {
				return err
			}
			sources, err := reg.CreateAll(hostConfig(custom, a))
			if err != nil {
				return err
			}

			opts := []varsource.Option{varsource.WithConcurrency(concurrency)}
			if strict {
				opts = append(opts, varsource.WithStrict())
			}
			resolver := varsource.NewResolver(sources, opts...)
			defer func() { _ = resolver.Close() }()

			tree, err := doc.Render(ctx, resolver)
			if err != nil {
				return err
			}
			if err := config.Encode(a.stdout, tree, format); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: yaml|json (default: input format)")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a reference resolves to nothing")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "references resolved at once (0: default)")
	return cmd
}

// hostConfig layers explicit flags over the custom section settings.
func hostConfig(custom config.Custom, a *app) map[string]any {
	cfg := map[string]any{
		engine.ConfigToken:   custom.VaultToken,
		engine.ConfigAddress: custom.VaultAddress,
	}
	if a.token != "" {
		cfg[engine.ConfigToken] = a.token
	}
	if a.address != "" {
		cfg[engine.ConfigAddress] = a.address
	}
	return cfg
}

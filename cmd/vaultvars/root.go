package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/vaultvars/credentials"
	"github.com/jonwraymond/vaultvars/engine"
	"github.com/jonwraymond/vaultvars/observe"
	"github.com/jonwraymond/vaultvars/observe/exporters"
	"github.com/jonwraymond/vaultvars/resilience"
)

// app carries process dependencies so commands can run in tests.
type app struct {
	stdout io.Writer
	stderr io.Writer
	env    credentials.Environment

	httpClient *http.Client

	address         string
	token           string
	timeout         time.Duration
	trimTokenFile   bool
	maxConcurrent   int
	logLevel        string
	tracingExporter string
	metricsExporter string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "vaultvars",
		Short:         "Resolve vault: variable references",
		Long:          "Resolve vault: variable references against a Vault KV v2 backend and render configuration documents.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.address, "address", "", "backend address (default: VAULT_ADDR or "+credentials.DefaultAddress+")")
	flags.StringVar(&a.token, "token", "", "access token (default: VAULT_TOKEN or ~/.vault-token)")
	flags.DurationVar(&a.timeout, "timeout", resilience.DefaultTimeout, "per-request timeout")
	flags.BoolVar(&a.trimTokenFile, "trim-token-file", false, "strip trailing whitespace from the token file")
	flags.IntVar(&a.maxConcurrent, "max-concurrent", 0, "maximum backend requests in flight (0 = unlimited)")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	flags.StringVar(&a.tracingExporter, "tracing-exporter", "none", "tracing exporter: stdout|otlp|jaeger|none")
	flags.StringVar(&a.metricsExporter, "metrics-exporter", "none", "metrics exporter: stdout|otlp|prometheus|none")

	root.AddCommand(newResolveCmd(a), newRenderCmd(a), newCheckCmd(a))
	return root
}

func (a *app) logger() observe.Logger {
	return observe.NewLoggerWithWriter(a.logLevel, a.stderr)
}

// observer builds the telemetry pipeline selected by flags.
func (a *app) observer(ctx context.Context) (observe.Observer, error) {
	exporters.ConsoleWriter = a.stderr
	return observe.NewObserver(ctx, observe.Config{
		ServiceName: "vaultvars",
		Version:     version,
		Tracing: observe.TracingConfig{
			Enabled:   enabled(a.tracingExporter),
			Exporter:  a.tracingExporter,
			SamplePct: observe.MaxSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  enabled(a.metricsExporter),
			Exporter: a.metricsExporter,
		},
	})
}

func enabled(exporter string) bool {
	return exporter != "" && exporter != "none"
}

// engineConfig returns the engine settings from flags. Host config values
// are layered on by callers.
func (a *app) engineConfig() engine.Config {
	return engine.Config{
		VaultToken:           a.token,
		VaultAddress:         a.address,
		Env:                  a.env,
		TrimTokenFile:        a.trimTokenFile,
		Timeout:              a.timeout,
		MaxConcurrentFetches: a.maxConcurrent,
	}
}

func (a *app) engineOptions(obs observe.Observer, logger observe.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithObserver(obs),
		engine.WithCoalescing(),
	}
	if a.httpClient != nil {
		opts = append(opts, engine.WithHTTPClient(a.httpClient))
	}
	return opts
}

// withEngine runs fn with an engine built from flags and shuts telemetry
// down afterwards.
func (a *app) withEngine(ctx context.Context, fn func(*engine.Engine) error) (err error) {
	obs, err := a.observer(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if serr := obs.Shutdown(context.WithoutCancel(ctx)); serr != nil && err == nil {
			err = serr
		}
	}()

	logger := a.logger()
	eng := engine.New(a.engineConfig(), a.engineOptions(obs, logger)...)
	defer func() {
		stats := eng.CacheStats()
		logger.Debug(ctx, "document cache", observe.F("hits", stats.Hits), observe.F("misses", stats.Misses))
	}()
	return fn(eng)
}

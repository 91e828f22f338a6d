package observe

import (
	"context"
	"errors"
	"testing"
)

func TestConfigValidate_Valid(t *testing.T) {
	cfg := Config{
		ServiceName: "vaultvars",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "stdout"},
		Logging:     LoggingConfig{Enabled: true, Level: "info"},
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected nil error, got: %v", err)
	}
}

func TestConfigValidate_Errors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{
			name: "missing service name",
			cfg:  Config{},
			want: ErrMissingServiceName,
		},
		{
			name: "unknown tracing exporter",
			cfg:  Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, Exporter: "zipkin"}},
			want: ErrInvalidTracingExporter,
		},
		{
			name: "sample pct too high",
			cfg:  Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 1.5}},
			want: ErrInvalidSamplePct,
		},
		{
			name: "sample pct negative",
			cfg:  Config{ServiceName: "svc", Tracing: TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: -0.1}},
			want: ErrInvalidSamplePct,
		},
		{
			name: "unknown metrics exporter",
			cfg:  Config{ServiceName: "svc", Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"}},
			want: ErrInvalidMetricsExporter,
		},
		{
			name: "unknown log level",
			cfg:  Config{ServiceName: "svc", Logging: LoggingConfig{Enabled: true, Level: "trace"}},
			want: ErrInvalidLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate() error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestConfigValidate_DisabledSubsystemsIgnoreValues(t *testing.T) {
	cfg := Config{
		ServiceName: "svc",
		Tracing:     TracingConfig{Enabled: false, Exporter: "bogus"},
		Metrics:     MetricsConfig{Enabled: false, Exporter: "bogus"},
		Logging:     LoggingConfig{Enabled: false, Level: "bogus"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestNewObserver_DisabledNoop(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "svc"})
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if obs.Tracer() == nil || obs.Meter() == nil || obs.Logger() == nil {
		t.Fatal("expected non-nil noop components")
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_EnabledStdout(t *testing.T) {
	cfg := Config{
		ServiceName: "svc",
		Version:     "1.0.0",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "warn"},
	}

	obs, err := NewObserver(context.Background(), cfg)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if _, ok := obs.Logger().(*structuredLogger); !ok {
		t.Errorf("Logger() = %T, want *structuredLogger", obs.Logger())
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("expected no shutdown error, got: %v", err)
	}
}

func TestNewObserver_InvalidConfigReturnsError(t *testing.T) {
	if _, err := NewObserver(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for invalid config, got nil")
	}
}

func TestNopObserver(t *testing.T) {
	obs := NopObserver()
	ctx, span := obs.Tracer().Start(context.Background(), "x")
	span.End()
	obs.Logger().Warn(ctx, "ignored")
	if err := obs.Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
}

func TestConfigValidate_ReportsEveryProblem(t *testing.T) {
	cfg := Config{
		Tracing: TracingConfig{Enabled: true, Exporter: "zipkin", SamplePct: 2},
		Metrics: MetricsConfig{Enabled: true, Exporter: "statsd"},
	}

	err := cfg.Validate()
	for _, want := range []error{ErrMissingServiceName, ErrInvalidTracingExporter, ErrInvalidSamplePct, ErrInvalidMetricsExporter} {
		if !errors.Is(err, want) {
			t.Errorf("Validate() error = %v, missing %v", err, want)
		}
	}
}

func TestObserver_ShutdownTwice(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "svc",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Fatalf("first Shutdown() error = %v", err)
	}
	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v, want nil", err)
	}
}

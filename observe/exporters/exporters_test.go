package exporters

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestExporter_InvalidName(t *testing.T) {
	_, err := NewTracingExporter(context.Background(), "invalid")
	if err == nil {
		t.Fatal("expected error for invalid exporter name")
	}
	if !strings.Contains(err.Error(), "unknown exporter") {
		t.Errorf("expected error to contain 'unknown exporter', got: %v", err)
	}
}

func TestExporter_StdoutTracing(t *testing.T) {
	exp, err := NewTracingExporter(context.Background(), "stdout")
	if err != nil {
		t.Fatalf("failed to create stdout tracing exporter: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

func TestExporter_NoneTracing(t *testing.T) {
	for _, name := range []string{"none", ""} {
		exp, err := NewTracingExporter(context.Background(), name)
		if err != nil || exp == nil {
			t.Fatalf("NewTracingExporter(%q) = %v, %v", name, exp, err)
		}
	}
}

func TestExporter_OtlpMissingEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")

	_, err := NewTracingExporter(context.Background(), "otlp")
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Fatalf("expected ErrEndpointNotConfigured, got: %v", err)
	}
}

func TestExporter_OtlpWithEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4317")

	exp, err := NewTracingExporter(context.Background(), "otlp")
	if err != nil {
		t.Fatalf("failed to create OTLP exporter with endpoint: %v", err)
	}
	if exp == nil {
		t.Fatal("expected non-nil exporter")
	}
}

func TestExporter_JaegerMissingEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_JAEGER_ENDPOINT", "")

	_, err := NewTracingExporter(context.Background(), "jaeger")
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Fatalf("expected ErrEndpointNotConfigured, got: %v", err)
	}
}

func TestExporter_JaegerDialsConfiguredEndpoint(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()

	accepted := make(chan struct{})
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		close(accepted)
		_ = conn.Close()
	}()

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_JAEGER_ENDPOINT", "http://"+ln.Addr().String())

	exp, err := NewTracingExporter(context.Background(), "jaeger")
	if err != nil {
		t.Fatalf("NewTracingExporter(jaeger) error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go func() {
		_ = exp.ExportSpans(ctx, []sdktrace.ReadOnlySpan{tracetest.SpanStub{Name: "x"}.Snapshot()})
	}()

	select {
	case <-accepted:
	case <-ctx.Done():
		t.Fatal("exporter did not connect to OTEL_EXPORTER_JAEGER_ENDPOINT")
	}
	shutdownCtx, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	_ = exp.Shutdown(shutdownCtx)
}

func TestMetricsReader_Names(t *testing.T) {
	for _, name := range []string{"stdout", "prometheus", "none", ""} {
		reader, err := NewMetricsReader(context.Background(), name)
		if err != nil {
			t.Fatalf("NewMetricsReader(%q) error = %v", name, err)
		}
		if reader == nil {
			t.Fatalf("NewMetricsReader(%q) returned nil reader", name)
		}
	}
}

func TestMetricsReader_Unknown(t *testing.T) {
	_, err := NewMetricsReader(context.Background(), "statsd")
	if err == nil || !strings.Contains(err.Error(), "unknown metrics exporter") {
		t.Fatalf("expected unknown metrics exporter error, got: %v", err)
	}
}

func TestMetricsReader_OtlpMissingEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", "")

	_, err := NewMetricsReader(context.Background(), "otlp")
	if !errors.Is(err, ErrEndpointNotConfigured) {
		t.Fatalf("expected ErrEndpointNotConfigured, got: %v", err)
	}
}

package observe

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func spanAttrs(attrs []attribute.KeyValue) map[string]attribute.Value {
	out := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		out[string(a.Key)] = a.Value
	}
	return out
}

func TestTracer_SpanAttributes(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	meta := &ResolutionMeta{Reference: "secret/app.db.password", Scheme: "vault"}
	_, span := tr.StartSpan(context.Background(), meta)
	meta.Document = "secret/app"
	meta.CacheHit = true
	meta.Outcome = OutcomeResolved
	tr.EndSpan(span, meta, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != SpanName {
		t.Errorf("span name = %q, want %q", spans[0].Name(), SpanName)
	}

	attrs := spanAttrs(spans[0].Attributes())
	if attrs["vault.reference"].AsString() != "secret/app.db.password" {
		t.Errorf("vault.reference = %v", attrs["vault.reference"])
	}
	if attrs["vault.document"].AsString() != "secret/app" {
		t.Errorf("vault.document = %v", attrs["vault.document"])
	}
	if !attrs["vault.cache_hit"].AsBool() {
		t.Errorf("vault.cache_hit = false, want true")
	}
	if attrs["vault.outcome"].AsString() != string(OutcomeResolved) {
		t.Errorf("vault.outcome = %v", attrs["vault.outcome"])
	}
	if spans[0].Status().Code != codes.Ok {
		t.Errorf("status = %v, want Ok", spans[0].Status().Code)
	}
}

func TestTracer_ErrorStatus(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tr := NewTracer(tp.Tracer("test"))

	meta := &ResolutionMeta{Reference: "secret/app.key"}
	_, span := tr.StartSpan(context.Background(), meta)
	meta.Outcome = OutcomeFailed
	tr.EndSpan(span, meta, errors.New("permission denied"))

	ended := recorder.Ended()[0]
	if ended.Status().Code != codes.Error {
		t.Errorf("status = %v, want Error", ended.Status().Code)
	}
	if ended.Status().Description != "permission denied" {
		t.Errorf("status description = %q", ended.Status().Description)
	}
	if len(ended.Events()) == 0 {
		t.Errorf("expected recorded error event")
	}
}

func TestNewTracer_NilFallsBackToNoop(t *testing.T) {
	tr := NewTracer(nil)
	meta := &ResolutionMeta{Reference: "a/b.c"}
	_, span := tr.StartSpan(context.Background(), meta)
	tr.EndSpan(span, meta, nil)
}

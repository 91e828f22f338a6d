package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// SpanName is the name of the span recorded around each resolution.
const SpanName = "vault.resolve"

// Outcome classifies a finished resolution.
type Outcome string

const (
	OutcomeResolved Outcome = "resolved"
	OutcomeMissing  Outcome = "missing"
	OutcomeInvalid  Outcome = "invalid"
	OutcomeFailed   Outcome = "failed"
)

// ResolutionMeta describes one resolution for telemetry purposes. The
// resolve function fills in Document, CacheHit and Outcome as it learns them.
type ResolutionMeta struct {
	Reference string // raw reference as given by the caller
	Scheme    string
	Document  string // joined document path, empty until parsed
	Mount     string // first document path segment, empty until parsed
	CacheHit  bool
	Outcome   Outcome
}

func (m *ResolutionMeta) attributes() []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("vault.reference", m.Reference),
	}
	if m.Scheme != "" {
		attrs = append(attrs, attribute.String("vault.scheme", m.Scheme))
	}
	if m.Document != "" {
		attrs = append(attrs, attribute.String("vault.document", m.Document))
	}
	return attrs
}

// Tracer wraps OpenTelemetry tracing with resolution span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for a resolution.
	StartSpan(ctx context.Context, meta *ResolutionMeta) (context.Context, trace.Span)

	// EndSpan records the final metadata and error, then ends the span.
	EndSpan(span trace.Span, meta *ResolutionMeta, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

// NewTracer wraps an OpenTelemetry tracer.
func NewTracer(t trace.Tracer) Tracer {
	if t == nil {
		return newNoopTracer()
	}
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta *ResolutionMeta) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, SpanName,
		trace.WithAttributes(meta.attributes()...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, meta *ResolutionMeta, err error) {
	span.SetAttributes(
		attribute.Bool("vault.cache_hit", meta.CacheHit),
		attribute.String("vault.outcome", string(meta.Outcome)),
	)
	if meta.Document != "" {
		span.SetAttributes(
			attribute.String("vault.document", meta.Document),
			attribute.String("vault.mount", meta.Mount),
		)
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta *ResolutionMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, SpanName)
}

func (t *noopTracer) EndSpan(span trace.Span, meta *ResolutionMeta, err error) {
	span.End()
}

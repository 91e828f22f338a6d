package observe

import (
	"context"
	"time"
)

// ResolveFunc is the signature wrapped by Middleware. Implementations update
// meta as the resolution progresses.
type ResolveFunc func(ctx context.Context, meta *ResolutionMeta) (any, error)

// Middleware wraps resolution with tracing, metrics and debug logging.
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe ResolveFunc.
//   - Errors: errors from the wrapped function are recorded and propagated unchanged.
//   - Ownership: resolved values pass through unmodified and are never logged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components are replaced with no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = newNoopTracer()
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps fn with tracing, metrics and logging.
func (m *Middleware) Wrap(fn ResolveFunc) ResolveFunc {
	return func(ctx context.Context, meta *ResolutionMeta) (any, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		value, err := fn(ctx, meta)

		duration := time.Since(start)
		if meta.Outcome == "" {
			if err != nil {
				meta.Outcome = OutcomeFailed
			} else {
				meta.Outcome = OutcomeResolved
			}
		}

		m.tracer.EndSpan(span, meta, err)
		m.metrics.RecordResolution(ctx, meta, duration, err)

		fields := []Field{
			F("reference", meta.Reference),
			F("outcome", string(meta.Outcome)),
			F("cache_hit", meta.CacheHit),
			F("duration_ms", float64(duration.Microseconds())/1000),
		}
		if err != nil {
			fields = append(fields, F("error", err.Error()))
		}
		m.logger.Debug(ctx, "variable resolution finished", fields...)

		return value, err
	}
}

// MiddlewareFromObserver creates a Middleware from an Observer. A non-nil
// logger replaces the observer's logger. When the metric instruments cannot
// be created, the returned Middleware still traces and logs, and the error
// is returned alongside it.
func MiddlewareFromObserver(obs Observer, logger Logger) (*Middleware, error) {
	if obs == nil {
		return NewMiddleware(nil, nil, logger), nil
	}
	if logger == nil {
		logger = obs.Logger()
	}
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return NewMiddleware(NewTracer(obs.Tracer()), nil, logger), err
	}
	return NewMiddleware(NewTracer(obs.Tracer()), metrics, logger), nil
}

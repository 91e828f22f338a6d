package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records resolution metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordResolution records one finished resolution.
	RecordResolution(ctx context.Context, meta *ResolutionMeta, duration time.Duration, err error)
}

type metricsImpl struct {
	totalCount   metric.Int64Counter
	errorCount   metric.Int64Counter
	missingCount metric.Int64Counter
	cacheHits    metric.Int64Counter
	durationHist metric.Float64Histogram
}

// NewMetrics creates the resolution instruments on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	totalCount, err := meter.Int64Counter(
		"vault.resolve.total",
		metric.WithDescription("Total number of variable resolutions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"vault.resolve.errors",
		metric.WithDescription("Resolutions that failed"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	missingCount, err := meter.Int64Counter(
		"vault.resolve.missing",
		metric.WithDescription("Resolutions whose field path resolved to null"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"vault.cache.hits",
		metric.WithDescription("Resolutions served from the document cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"vault.resolve.duration_ms",
		metric.WithDescription("Resolution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		totalCount:   totalCount,
		errorCount:   errorCount,
		missingCount: missingCount,
		cacheHits:    cacheHits,
		durationHist: durationHist,
	}, nil
}

func (m *metricsImpl) RecordResolution(ctx context.Context, meta *ResolutionMeta, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("vault.outcome", string(meta.Outcome)),
	}
	if meta.Document != "" {
		attrs = append(attrs, attribute.String("vault.document", meta.Document))
	}
	opt := metric.WithAttributes(attrs...)

	m.totalCount.Add(ctx, 1, opt)
	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}
	if meta.Outcome == OutcomeMissing {
		m.missingCount.Add(ctx, 1, opt)
	}
	if meta.CacheHit {
		m.cacheHits.Add(ctx, 1, opt)
	}
	m.durationHist.Record(ctx, float64(duration.Microseconds())/1000, opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordResolution(ctx context.Context, meta *ResolutionMeta, duration time.Duration, err error) {
}

// Package observe provides logging, tracing and metrics for variable
// resolution.
//
// It is a pure instrumentation library: no resolution, no transport, no I/O
// beyond exporter setup. The engine wraps each resolution with a Middleware
// built from an Observer; the default Observer is a no-op.
package observe

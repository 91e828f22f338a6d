package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrBulkheadFull is returned when no slot frees up within MaxWait.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation times out.
	ErrTimeout = errors.New("resilience: operation timed out")
)

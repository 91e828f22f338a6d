package varsource

import "context"

// Source resolves references by address.
//
// Implementations must be safe for concurrent use and must not log resolved
// values. A nil value with a nil error means the address resolved to
// nothing.
type Source interface {
	Name() string
	Resolve(ctx context.Context, address string) (any, error)
	Close() error
}

// SourceFunc adapts a function to Source.
type SourceFunc struct {
	name string
	fn   func(ctx context.Context, address string) (any, error)
}

// NewSourceFunc creates a Source named name backed by fn.
func NewSourceFunc(name string, fn func(ctx context.Context, address string) (any, error)) *SourceFunc {
	return &SourceFunc{name: name, fn: fn}
}

// Name returns the source name.
func (s *SourceFunc) Name() string { return s.name }

// Resolve calls the wrapped function.
func (s *SourceFunc) Resolve(ctx context.Context, address string) (any, error) {
	return s.fn(ctx, address)
}

// Close does nothing.
func (s *SourceFunc) Close() error { return nil }

package engine

import (
	"fmt"

	"github.com/jonwraymond/vaultvars/backend"
)

// ResolveError reports a failed fetch for one reference.
type ResolveError struct {
	// Reference is the raw reference as given to Resolve.
	Reference string

	// Address is the backend address in use.
	Address string

	// Err is the fetch failure.
	Err error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("error communicating with vault: %v for var: %s", e.Err, e.Reference)
}

// Unwrap exposes backend.ErrCommunication and the fetch failure.
func (e *ResolveError) Unwrap() []error {
	return []error{backend.ErrCommunication, e.Err}
}

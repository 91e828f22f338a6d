package reference

import (
	"errors"
	"fmt"
)

// ErrInvalidFormat is returned when a raw reference is malformed.
var ErrInvalidFormat = errors.New("reference: invalid format")

// FormatError reports the input that failed validation.
type FormatError struct {
	Input string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("reference: incorrect vault var format, expecting: some/var.a.b, got: %s", e.Input)
}

// Unwrap returns ErrInvalidFormat.
func (e *FormatError) Unwrap() error {
	return ErrInvalidFormat
}

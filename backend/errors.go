package backend

import (
	"errors"
	"fmt"
)

// ErrCommunication is matched by every fetch or ping failure.
var ErrCommunication = errors.New("backend: communication failed")

// Error describes a failed request to the secret backend.
type Error struct {
	// Message is a short human-readable cause.
	Message string

	// Address is the backend address the request was sent to.
	Address string

	// StatusCode is the HTTP status, or zero when no response arrived.
	StatusCode int

	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes both ErrCommunication and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCommunication}
	}
	return []error{ErrCommunication, e.Err}
}

func statusMessage(code int, details []string) string {
	msg := fmt.Sprintf("request failed with status code %d", code)
	for i, d := range details {
		if i == 0 {
			msg += ": " + d
		} else {
			msg += "; " + d
		}
	}
	return msg
}

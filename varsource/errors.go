package varsource

import "errors"

var (
	// ErrUnknownSource is returned for references to an unregistered source.
	ErrUnknownSource = errors.New("varsource: unknown source")

	// ErrMissingEnv is returned by the env source for unset variables.
	ErrMissingEnv = errors.New("varsource: environment variable not set")

	// ErrEmptyValue is returned in strict mode when a source yields nil.
	ErrEmptyValue = errors.New("varsource: source returned no value")

	// ErrInvalidRegistration is returned for an empty name or nil factory.
	ErrInvalidRegistration = errors.New("varsource: invalid registration")
)

package config

import "errors"

var (
	// ErrUnsupportedFormat is returned for unknown file extensions.
	ErrUnsupportedFormat = errors.New("config: unsupported format")

	// ErrNotObject is returned when a document's top level is not a mapping.
	ErrNotObject = errors.New("config: document is not an object")
)

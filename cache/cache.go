package cache

import (
	"context"
	"errors"
	"strings"

	"github.com/jonwraymond/vaultvars/document"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores documents by key.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (nil, false) on miss.
// - Lifetime: entries stay until the cache is dropped.
type Cache interface {
	// Get retrieves a cached document. Returns (nil, false) on miss.
	Get(ctx context.Context, key string) (document.Document, bool)

	// Set stores doc under key, replacing any previous entry.
	Set(ctx context.Context, key string, doc document.Document) error

	// Len returns the number of entries.
	Len() int
}

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

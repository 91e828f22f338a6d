package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Keyer derives a cache key from a document path.
//
// Contract:
// - Determinism: the same path always yields the same key.
// - Injectivity: distinct paths yield distinct keys.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	Key(documentPath []string) string
}

// PathKeyer joins path segments with "/". Paths whose joined form would
// exceed MaxKeyLength are replaced by "sha256:<hex digest>" of the joined
// form.
type PathKeyer struct{}

// NewPathKeyer creates a new path keyer.
func NewPathKeyer() *PathKeyer {
	return &PathKeyer{}
}

// Key returns the cache key for documentPath.
func (k *PathKeyer) Key(documentPath []string) string {
	key := strings.Join(documentPath, "/")
	if len(key) <= MaxKeyLength && !strings.ContainsAny(key, "\n\r") {
		return key
	}
	sum := sha256.Sum256([]byte(key))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Ensure PathKeyer implements Keyer
var _ Keyer = (*PathKeyer)(nil)

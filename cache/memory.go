package cache

import (
	"context"
	"sync"

	"github.com/jonwraymond/vaultvars/document"
)

// MemoryCache is an in-memory cache without expiry.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]document.Document
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]document.Document),
	}
}

// Get retrieves a document from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) (document.Document, bool) {
	c.mu.RLock()
	doc, ok := c.entries[key]
	c.mu.RUnlock()
	return doc, ok
}

// Set stores a document. Invalid keys are rejected.
func (c *MemoryCache) Set(_ context.Context, key string, doc document.Document) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = doc
	c.mu.Unlock()

	return nil
}

// Len returns the number of cached documents.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure MemoryCache implements Cache
var _ Cache = (*MemoryCache)(nil)

// Package cache holds fetched secret documents for the lifetime of a
// resolution engine.
//
// Entries never expire and are never evicted: once a document path has been
// fetched successfully, every later reference to the same path is answered
// from memory. Failed fetches are not stored, so the next reference retries.
//
// Loader combines a Cache with a fetch function into a read-through lookup
// and can optionally collapse concurrent misses for the same key into one
// fetch.
package cache

package cache

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/vaultvars/document"
)

// FetchFunc loads the document stored under documentPath.
type FetchFunc func(ctx context.Context, documentPath []string) (document.Document, error)

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCoalescing collapses concurrent misses for the same key into a single
// fetch whose result is shared by every waiter.
func WithCoalescing() LoaderOption {
	return func(l *Loader) {
		l.group = &singleflight.Group{}
	}
}

// WithKeyer replaces the default PathKeyer.
func WithKeyer(k Keyer) LoaderOption {
	return func(l *Loader) {
		if k != nil {
			l.keyer = k
		}
	}
}

// Loader is a read-through wrapper around a Cache.
type Loader struct {
	cache Cache
	keyer Keyer
	fetch FetchFunc
	group *singleflight.Group

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports loader counters.
type Stats struct {
	Hits   int64
	Misses int64
}

// NewLoader creates a loader. A nil cache gets a fresh MemoryCache.
func NewLoader(c Cache, fetch FetchFunc, opts ...LoaderOption) *Loader {
	if c == nil {
		c = NewMemoryCache()
	}
	l := &Loader{
		cache: c,
		keyer: NewPathKeyer(),
		fetch: fetch,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the document for documentPath. hit reports whether it was
// served from the cache. Fetch errors are returned unchanged and are not
// cached.
func (l *Loader) Load(ctx context.Context, documentPath []string) (doc document.Document, hit bool, err error) {
	key := l.keyer.Key(documentPath)

	if doc, ok := l.cache.Get(ctx, key); ok {
		l.hits.Add(1)
		return doc, true, nil
	}
	l.misses.Add(1)

	if l.group == nil {
		doc, err := l.fetchAndStore(ctx, key, documentPath)
		return doc, false, err
	}

	// The shared fetch outlives a cancelled caller so that other waiters
	// still get the document. The fetch timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		// A waiter that lost the race may find the entry already stored.
		if doc, ok := l.cache.Get(fetchCtx, key); ok {
			return doc, nil
		}
		return l.fetchAndStore(fetchCtx, key, documentPath)
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(document.Document), false, nil
	}
}

func (l *Loader) fetchAndStore(ctx context.Context, key string, documentPath []string) (document.Document, error) {
	doc, err := l.fetch(ctx, documentPath)
	if err != nil {
		return nil, err
	}
	_ = l.cache.Set(ctx, key, doc)
	return doc, nil
}

// Stats returns a snapshot of hit and miss counters.
func (l *Loader) Stats() Stats {
	return Stats{
		Hits:   l.hits.Load(),
		Misses: l.misses.Load(),
	}
}

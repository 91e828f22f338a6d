package engine

import (
	"net/http"

	"github.com/jonwraymond/vaultvars/cache"
	"github.com/jonwraymond/vaultvars/observe"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	logger     observe.Logger
	observer   observe.Observer
	fetch      cache.FetchFunc
	cache      cache.Cache
	coalesce   bool
	httpClient *http.Client
}

// WithLogger sets the logger. It takes precedence over the observer's
// logger.
func WithLogger(l observe.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver enables tracing and metrics for every resolution.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithFetcher replaces the backend client, mainly for tests.
func WithFetcher(fetch cache.FetchFunc) Option {
	return func(o *options) { o.fetch = fetch }
}

// WithCache replaces the default in-memory cache.
func WithCache(c cache.Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithCoalescing makes concurrent first references to the same document
// share one fetch.
func WithCoalescing() Option {
	return func(o *options) { o.coalesce = true }
}

// WithHTTPClient sets the HTTP client used by the backend client.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

package engine

import (
	"context"
	"time"

	"github.com/jonwraymond/vaultvars/backend"
	"github.com/jonwraymond/vaultvars/cache"
	"github.com/jonwraymond/vaultvars/credentials"
	"github.com/jonwraymond/vaultvars/document"
	"github.com/jonwraymond/vaultvars/health"
	"github.com/jonwraymond/vaultvars/observe"
	"github.com/jonwraymond/vaultvars/reference"
)

// Config holds the host-level settings of an Engine.
type Config struct {
	// VaultToken and VaultAddress are the explicitly configured values.
	// They take priority over the environment.
	VaultToken   string
	VaultAddress string

	// Env supplies VAULT_TOKEN, VAULT_ADDR and the home directory
	// variables. Nil disables those lookups.
	Env credentials.Environment

	// TrimTokenFile strips trailing whitespace from the token file.
	TrimTokenFile bool

	// Scheme is the reference prefix stripped before parsing.
	// Default: "vault"
	Scheme string

	// Timeout bounds each backend request.
	// Default: 1 second
	Timeout time.Duration

	// MaxConcurrentFetches caps backend requests in flight. Zero is
	// unlimited.
	MaxConcurrentFetches int
}

// Engine resolves references. It is safe for concurrent use.
type Engine struct {
	scheme  string
	creds   credentials.Credentials
	client  *backend.Client
	loader  *cache.Loader
	logger  observe.Logger
	resolve observe.ResolveFunc
}

// New builds an Engine. Credentials are resolved here, once.
func New(cfg Config, opts ...Option) *Engine {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if cfg.Scheme == "" {
		cfg.Scheme = reference.DefaultScheme
	}

	logger := o.logger
	if logger == nil && o.observer != nil {
		logger = o.observer.Logger()
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	creds := credentials.Resolve(credentials.Config{
		Token:         cfg.VaultToken,
		Address:       cfg.VaultAddress,
		Env:           cfg.Env,
		TrimTokenFile: cfg.TrimTokenFile,
	})

	e := &Engine{
		scheme: cfg.Scheme,
		creds:  creds,
		logger: logger,
	}

	e.client = backend.NewClient(backend.Config{
		Address:       creds.Address,
		Token:         creds.Token,
		Timeout:       cfg.Timeout,
		MaxConcurrent: cfg.MaxConcurrentFetches,
		HTTPClient:    o.httpClient,
		Logger:        logger,
	})

	fetch := o.fetch
	if fetch == nil {
		fetch = e.client.Fetch
	}
	var loaderOpts []cache.LoaderOption
	if o.coalesce {
		loaderOpts = append(loaderOpts, cache.WithCoalescing())
	}
	e.loader = cache.NewLoader(o.cache, fetch, loaderOpts...)

	ctx := context.Background()

	mw, err := observe.MiddlewareFromObserver(o.observer, logger)
	if err != nil {
		logger.Warn(ctx, "resolution metrics disabled", observe.F("error", err.Error()))
	}
	e.resolve = mw.Wrap(e.resolveRef)

	logger.Info(ctx, "Using vault address: "+creds.Address, creds.LogFields()...)
	if !creds.HasToken() {
		logger.Warn(ctx, "no vault token found; requests will be sent without a token",
			observe.F("token_source", string(creds.TokenSource)))
	}

	return e
}

// Resolve returns the value referenced by raw.
func (e *Engine) Resolve(ctx context.Context, raw string) (any, error) {
	meta := &observe.ResolutionMeta{Reference: raw, Scheme: e.scheme}
	return e.resolve(ctx, meta)
}

func (e *Engine) resolveRef(ctx context.Context, meta *observe.ResolutionMeta) (any, error) {
	raw := meta.Reference

	ref, err := reference.Parse(reference.StripScheme(raw, e.scheme))
	if err != nil {
		meta.Outcome = observe.OutcomeInvalid
		return nil, err
	}
	meta.Document = ref.Path()
	meta.Mount = ref.Mount()

	doc, hit, err := e.loader.Load(ctx, ref.DocumentPath())
	meta.CacheHit = hit
	if err != nil {
		return nil, &ResolveError{Reference: raw, Address: e.creds.Address, Err: err}
	}

	value, ok := doc.Lookup(ref.FieldPath())
	if !ok || value == nil {
		meta.Outcome = observe.OutcomeMissing
		e.logger.Warn(ctx, "value is null or undefined for "+raw,
			observe.F("reference", raw),
			observe.F("document", meta.Document),
			observe.F("field", ref.Field()),
		)
		return nil, nil
	}

	// Cached documents are shared; callers get their own copy.
	return document.Clone(value), nil
}

// Credentials returns the credentials resolved at construction.
func (e *Engine) Credentials() credentials.Credentials {
	return e.creds
}

// Address returns the backend address in use.
func (e *Engine) Address() string {
	return e.creds.Address
}

// Scheme returns the reference prefix this engine strips.
func (e *Engine) Scheme() string {
	return e.scheme
}

// CacheStats reports document cache hits and misses.
func (e *Engine) CacheStats() cache.Stats {
	return e.loader.Stats()
}

// HealthCheckers returns checks for backend reachability and token
// presence.
func (e *Engine) HealthCheckers() []health.Checker {
	token := health.NewCheckerFunc("token", func(context.Context) health.Result {
		details := map[string]any{"source": string(e.creds.TokenSource)}
		if !e.creds.HasToken() {
			return health.Degraded("no token found").WithDetails(details)
		}
		return health.Healthy("token found").WithDetails(details)
	})
	return []health.Checker{e.client.Checker(), token}
}

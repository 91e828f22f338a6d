package varsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel resolutions in ResolveTree.
const DefaultConcurrency = 8

// referencePattern matches ${source:address}.
var referencePattern = regexp.MustCompile(`\$\{([A-Za-z][A-Za-z0-9_-]*):([^}]+)\}`)

// Ref is one reference found in a document.
type Ref struct {
	Source  string
	Address string
}

// String returns the reference in ${source:address} form.
func (r Ref) String() string {
	return "${" + r.Source + ":" + r.Address + "}"
}

// ParseRef parses a string that is exactly one reference.
func ParseRef(value string) (Ref, bool) {
	m := referencePattern.FindStringSubmatchIndex(value)
	if m == nil || m[0] != 0 || m[1] != len(value) {
		return Ref{}, false
	}
	return Ref{Source: value[m[2]:m[3]], Address: value[m[4]:m[5]]}, true
}

// FindRefs returns every reference in value, in order of appearance.
func FindRefs(value string) []Ref {
	matches := referencePattern.FindAllStringSubmatch(value, -1)
	refs := make([]Ref, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Ref{Source: m[1], Address: m[2]})
	}
	return refs
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithStrict makes a nil value from a source an ErrEmptyValue error.
func WithStrict() Option {
	return func(r *Resolver) { r.strict = true }
}

// WithConcurrency sets how many references ResolveTree resolves at once.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// Resolver resolves references using registered sources.
type Resolver struct {
	mu          sync.RWMutex
	sources     map[string]Source
	strict      bool
	concurrency int
}

// NewResolver creates a resolver over sources.
func NewResolver(sources []Source, opts ...Option) *Resolver {
	r := &Resolver{
		sources:     make(map[string]Source),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, s := range sources {
		r.Register(s)
	}
	return r
}

// Register adds or replaces a source.
func (r *Resolver) Register(source Source) {
	if source == nil {
		return
	}
	r.mu.Lock()
	r.sources[source.Name()] = source
	r.mu.Unlock()
}

// Names returns the registered source names in sorted order.
func (r *Resolver) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a single reference.
func (r *Resolver) Resolve(ctx context.Context, ref Ref) (any, error) {
	r.mu.RLock()
	source, ok := r.sources[ref.Source]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q in %s", ErrUnknownSource, ref.Source, ref)
	}

	v, err := source.Resolve(ctx, ref.Address)
	if err != nil {
		return nil, err
	}
	if v == nil && r.strict {
		return nil, fmt.Errorf("%w: %s", ErrEmptyValue, ref)
	}
	return v, nil
}

// ResolveString resolves the references in value. A value that is exactly
// one reference yields the source's value unchanged; otherwise the result
// is a string with every reference replaced by its string form.
func (r *Resolver) ResolveString(ctx context.Context, value string) (any, error) {
	if ref, ok := ParseRef(value); ok {
		return r.Resolve(ctx, ref)
	}

	var firstErr error
	out := referencePattern.ReplaceAllStringFunc(value, func(match string) string {
		if firstErr != nil {
			return match
		}
		ref, _ := ParseRef(match)
		v, err := r.Resolve(ctx, ref)
		if err != nil {
			firstErr = err
			return match
		}
		s, err := Stringify(v)
		if err != nil {
			firstErr = err
			return match
		}
		return s
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// ResolveTree returns a copy of tree with every reference in its strings
// resolved. Each distinct reference is resolved once; distinct references
// are resolved in parallel.
func (r *Resolver) ResolveTree(ctx context.Context, tree any) (any, error) {
	seen := make(map[Ref]struct{})
	var refs []Ref
	collect(tree, func(ref Ref) {
		if _, ok := seen[ref]; !ok {
			seen[ref] = struct{}{}
			refs = append(refs, ref)
		}
	})

	values := make(map[Ref]any, len(refs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			v, err := r.Resolve(gctx, ref)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", ref, err)
			}
			mu.Lock()
			values[ref] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return substitute(tree, values)
}

// Close closes every registered source.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, s := range r.sources {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func collect(node any, add func(Ref)) {
	switch v := node.(type) {
	case string:
		for _, ref := range FindRefs(v) {
			add(ref)
		}
	case map[string]any:
		for _, item := range v {
			collect(item, add)
		}
	case []any:
		for _, item := range v {
			collect(item, add)
		}
	}
}

func substitute(node any, values map[Ref]any) (any, error) {
	switch v := node.(type) {
	case string:
		return substituteString(v, values)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			resolved, err := substitute(item, values)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			out[k] = resolved
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			resolved, err := substitute(item, values)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}

func substituteString(s string, values map[Ref]any) (any, error) {
	if ref, ok := ParseRef(s); ok {
		return values[ref], nil
	}
	if !strings.Contains(s, "${") {
		return s, nil
	}

	var firstErr error
	out := referencePattern.ReplaceAllStringFunc(s, func(match string) string {
		ref, _ := ParseRef(match)
		str, err := Stringify(values[ref])
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return str
	})
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// Stringify renders a resolved value for inline use. Strings are used as
// is; everything else, nil included, is rendered as JSON.
func Stringify(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("varsource: render value: %w", err)
	}
	return string(b), nil
}

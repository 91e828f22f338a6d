package engine

import (
	"context"
	"strings"

	"github.com/jonwraymond/vaultvars/credentials"
	"github.com/jonwraymond/vaultvars/reference"
	"github.com/jonwraymond/vaultvars/varsource"
)

// Host configuration keys read by Factory.
const (
	ConfigToken   = "vault_token"
	ConfigAddress = "vault_address"
)

// Source exposes the engine as a varsource.Source named after its scheme.
func (e *Engine) Source() varsource.Source {
	return &engineSource{engine: e}
}

type engineSource struct {
	engine *Engine
}

func (s *engineSource) Name() string { return s.engine.scheme }

// Resolve accepts addresses with or without the scheme prefix. Messages
// always show the prefixed form.
func (s *engineSource) Resolve(ctx context.Context, address string) (any, error) {
	raw := strings.TrimSpace(address)
	if prefix := s.engine.scheme + ":"; !strings.HasPrefix(raw, prefix) {
		raw = prefix + raw
	}
	return s.engine.Resolve(ctx, raw)
}

func (s *engineSource) Close() error { return nil }

// Factory returns a varsource.Factory that builds an engine from host
// configuration. The keys vault_token and vault_address override base;
// other keys are ignored.
func Factory(base Config, opts ...Option) varsource.Factory {
	return func(cfg map[string]any) (varsource.Source, error) {
		c := base
		if v, ok := cfg[ConfigToken].(string); ok && v != "" {
			c.VaultToken = v
		}
		if v, ok := cfg[ConfigAddress].(string); ok && v != "" {
			c.VaultAddress = v
		}
		return New(c, opts...).Source(), nil
	}
}

// Register adds the engine factory to reg under the configured scheme and
// the env source under "env".
func Register(reg *varsource.Registry, base Config, env credentials.Environment, opts ...Option) error {
	scheme := base.Scheme
	if scheme == "" {
		scheme = reference.DefaultScheme
	}
	if err := reg.Register(scheme, Factory(base, opts...)); err != nil {
		return err
	}
	return reg.Register(varsource.EnvSourceName, func(map[string]any) (varsource.Source, error) {
		return varsource.NewEnvSource(env), nil
	})
}

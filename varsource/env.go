package varsource

import (
	"context"
	"fmt"
	"strings"
)

// EnvSourceName is the name of the environment source.
const EnvSourceName = "env"

type envSource struct {
	lookup func(string) (string, bool)
}

// NewEnvSource creates a source that reads variables through lookup.
// Unset variables fail with ErrMissingEnv; set-but-empty ones resolve to "".
func NewEnvSource(lookup func(string) (string, bool)) Source {
	return &envSource{lookup: lookup}
}

func (s *envSource) Name() string { return EnvSourceName }

func (s *envSource) Resolve(_ context.Context, address string) (any, error) {
	name := strings.TrimSpace(address)
	if s.lookup == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, name)
	}
	v, ok := s.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, name)
	}
	return v, nil
}

func (s *envSource) Close() error { return nil }

package varsource

import (
	"context"
	"errors"
	"testing"
)

func TestEnvSource(t *testing.T) {
	vars := map[string]string{"USER": "alice", "EMPTY": ""}
	s := NewEnvSource(func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	})

	if s.Name() != EnvSourceName {
		t.Errorf("Name() = %q, want %q", s.Name(), EnvSourceName)
	}

	got, err := s.Resolve(context.Background(), "USER")
	if err != nil || got != "alice" {
		t.Errorf("Resolve(USER) = (%v, %v), want alice", got, err)
	}

	got, err = s.Resolve(context.Background(), "EMPTY")
	if err != nil || got != "" {
		t.Errorf("Resolve(EMPTY) = (%v, %v), want empty string", got, err)
	}

	if _, err := s.Resolve(context.Background(), "MISSING"); !errors.Is(err, ErrMissingEnv) {
		t.Errorf("Resolve(MISSING) error = %v, want ErrMissingEnv", err)
	}
}

func TestEnvSource_NilLookup(t *testing.T) {
	if _, err := NewEnvSource(nil).Resolve(context.Background(), "X"); !errors.Is(err, ErrMissingEnv) {
		t.Errorf("Resolve() error = %v, want ErrMissingEnv", err)
	}
}

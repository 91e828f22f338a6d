package health

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"ErrCheckTimeout", ErrCheckTimeout, "health: check timeout"},
		{"ErrCheckerNotFound", ErrCheckerNotFound, "health: checker not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMsg {
				t.Errorf("%s.Error() = %q, want %q", tt.name, got, tt.wantMsg)
			}
		})
	}

	if errors.Is(ErrCheckTimeout, ErrCheckerNotFound) {
		t.Error("sentinel errors should be distinct")
	}
}

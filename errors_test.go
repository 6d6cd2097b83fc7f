// Sentinel error tests.
//
// cowolf defines a set of named errors that callers match with
// errors.Is to decide how to handle a failure. If
// two errors shared a message or one were nil, errors.Is checks elsewhere
// in the package would misbehave silently.
package cowolf

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsDefinedAndDistinct(t *testing.T) {
	errs := []error{
		ErrNotFound,
		ErrCorrupt,
		ErrNameTooLong,
		ErrStaleLowerDRM,
		ErrNotEligible,
		ErrExists,
	}

	for i, err := range errs {
		if err == nil {
			t.Errorf("error at index %d is nil", i)
		}
	}

	seen := make(map[string]int)
	for i, err := range errs {
		msg := err.Error()
		if prev, ok := seen[msg]; ok {
			t.Errorf("error at index %d has same message as index %d: %q", i, prev, msg)
		}
		seen[msg] = i
	}
}

func TestErrorsAreErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrCorrupt", ErrCorrupt},
		{"ErrNameTooLong", ErrNameTooLong},
		{"ErrStaleLowerDRM", ErrStaleLowerDRM},
		{"ErrNotEligible", ErrNotEligible},
		{"ErrExists", ErrExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.err) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.err)
			}
		})
	}
}

// TestWrappedErrorsUnwrap verifies that errors produced by the store
// layer (which wrap a sentinel with %w) still satisfy errors.Is against
// the sentinel.
func TestWrappedErrorsUnwrap(t *testing.T) {
	wrapped := fmt.Errorf("%w: size 17 is not a multiple of 16", ErrCorrupt)
	if !errors.Is(wrapped, ErrCorrupt) {
		t.Error("wrapped error should satisfy errors.Is against ErrCorrupt")
	}
}

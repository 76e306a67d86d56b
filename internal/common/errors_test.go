package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinels_MatchThroughWrapping(t *testing.T) {
	sentinels := []error{
		ErrorNotFound,
		ErrorAlreadyExists,
		ErrorAuthenticationFailed,
		ErrorInvalidSession,
		ErrorStorage,
		ErrorValidation,
	}
	for _, s := range sentinels {
		wrapped := fmt.Errorf("add_user: %w", s)
		if !errors.Is(wrapped, s) {
			t.Fatalf("errors.Is lost %v through wrapping", s)
		}
		for _, other := range sentinels {
			if other != s && errors.Is(wrapped, other) {
				t.Fatalf("%v unexpectedly matches %v", s, other)
			}
		}
	}
}

package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	t.Run("DirectFailure", func(t *testing.T) {
		err := NewFailure(FailureQuotaExceeded, "quota exceeded")
		if got := KindOf(err); got != FailureQuotaExceeded {
			t.Errorf("Expected kind %q, got %q", FailureQuotaExceeded, got)
		}
	})

	t.Run("WrappedFailure", func(t *testing.T) {
		inner := WrapFailure(FailureResponseFormat, "invalid recipe format", errors.New("unexpected token"))
		err := fmt.Errorf("generation failed: %w", inner)
		if got := KindOf(err); got != FailureResponseFormat {
			t.Errorf("Expected kind %q, got %q", FailureResponseFormat, got)
		}
	})

	t.Run("PlainError", func(t *testing.T) {
		if got := KindOf(errors.New("boom")); got != FailureUnknown {
			t.Errorf("Expected kind %q, got %q", FailureUnknown, got)
		}
	})
}

func TestUserMessage(t *testing.T) {
	t.Run("Failure", func(t *testing.T) {
		err := WrapFailure(FailureContentBlocked, "content blocked by safety settings", errors.New("SAFETY"))
		if got := UserMessage(err); got != "content blocked by safety settings" {
			t.Errorf("Expected failure message, got %q", got)
		}
	})

	t.Run("PlainError", func(t *testing.T) {
		if got := UserMessage(errors.New("boom")); got != "boom" {
			t.Errorf("Expected raw error text, got %q", got)
		}
	})
}

func TestFailureError(t *testing.T) {
	f := WrapFailure(FailureUnknown, "recipe generation failed", errors.New("transport closed"))
	want := "unknown: recipe generation failed: transport closed"
	if f.Error() != want {
		t.Errorf("Expected %q, got %q", want, f.Error())
	}

	if !errors.Is(f, f.Err) {
		t.Error("Expected Unwrap to expose the underlying error")
	}
}

package errs

import (
	"errors"
	"testing"
)

func TestError_UnwrapReachesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(KindProvider, "PROVIDER_TIMEOUT", "provider call failed", cause)

	if !errors.Is(err, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
	if err.Kind != KindProvider {
		t.Errorf("expected KindProvider, got %s", err.Kind)
	}
}

func TestError_WithCorrelationIDDoesNotMutateOriginal(t *testing.T) {
	base := New(KindValidation, "BAD_REQUEST", "missing entity_id")
	tagged := base.WithCorrelationID("corr-1")

	if base.CorrelationID != "" {
		t.Error("expected original Error to remain untagged")
	}
	if tagged.CorrelationID != "corr-1" {
		t.Errorf("expected tagged correlation id, got %q", tagged.CorrelationID)
	}
}

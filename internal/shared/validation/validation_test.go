package validation

import (
	"errors"
	"fmt"
	"testing"
)

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("submit: %w", New("Sleep hours must be between 0 and 16"))

	ve, ok := As(wrapped)
	if !ok {
		t.Fatal("As() did not find wrapped validation error")
	}
	if ve.Message != "Sleep hours must be between 0 and 16" {
		t.Errorf("Message = %q", ve.Message)
	}

	if _, ok := As(errors.New("connection refused")); ok {
		t.Error("As() matched a plain error")
	}
}

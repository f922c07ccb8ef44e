package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAs(t *testing.T) {
	base := Gone(errors.New("participant missing"), "Could not find survey for abc.")
	wrapped := fmt.Errorf("sync: %w", base)

	got, ok := As(wrapped)
	if !ok {
		t.Fatalf("As: expected match")
	}
	if got.Status != http.StatusGone {
		t.Fatalf("Status: want=%d got=%d", http.StatusGone, got.Status)
	}
	if got.Error() != "Could not find survey for abc." {
		t.Fatalf("Error: got=%q", got.Error())
	}
	if _, ok := As(errors.New("plain")); ok {
		t.Fatalf("As: expected no match for plain error")
	}
}

func TestErrorFallbacks(t *testing.T) {
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("Error: got=%q", got)
	}
	if got := New(0, "validation", nil).Error(); got != "validation" {
		t.Fatalf("Error: got=%q", got)
	}
	var nilErr *Error
	if nilErr.Error() != "" {
		t.Fatalf("nil Error: want empty")
	}
}

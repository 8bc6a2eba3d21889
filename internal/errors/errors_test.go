package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "test API error", `{"error":{}}`)

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "API error [400]: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	// Without a status code the prefix is dropped
	bare := NewAPIError(0, "no status", "")
	if bare.Error() != "API error: no status" {
		t.Errorf("Error() = %s, want API error: no status", bare.Error())
	}

	// Test Is method
	target := NewAPIError(500, "target", "")
	if !err.Is(target) {
		t.Error("Expected error to match another APIError")
	}

	stdErr := errors.New("standard error")
	if err.Is(stdErr) {
		t.Error("Expected error not to match standard error")
	}
}

func TestStreamError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStreamError("partial text", cause)

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "stream failed after 12 bytes: connection reset"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	// Empty partial drops the byte count
	empty := NewStreamError("", cause)
	if empty.Error() != "stream failed: connection reset" {
		t.Errorf("Error() = %s, want stream failed: connection reset", empty.Error())
	}

	// Unwrap exposes the cause
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}

	var streamErr *StreamError
	wrapped := fmt.Errorf("exchange failed: %w", err)
	if !errors.As(wrapped, &streamErr) {
		t.Fatal("Expected errors.As to find StreamError through wrapping")
	}
	if streamErr.Partial != "partial text" {
		t.Errorf("Partial = %s, want partial text", streamErr.Partial)
	}
}

func TestBlockedError(t *testing.T) {
	err := NewBlockedError("SAFETY")

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "response blocked: SAFETY"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	// Empty reason falls back to the generic message
	bare := NewBlockedError("")
	if bare.Error() != "response blocked" {
		t.Errorf("Error() = %s, want response blocked", bare.Error())
	}

	// Test Is method
	target := NewBlockedError("RECITATION")
	if !err.Is(target) {
		t.Error("Expected error to match another BlockedError")
	}
}

func TestUsageLimitError(t *testing.T) {
	err := NewUsageLimitError("quota exhausted for gemini-3-pro-preview")

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "usage limit exceeded: quota exhausted for gemini-3-pro-preview"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	bare := NewUsageLimitError("")
	if bare.Error() != "usage limit exceeded" {
		t.Errorf("Error() = %s, want usage limit exceeded", bare.Error())
	}
}

func TestSentinelWrapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"empty prompt", fmt.Errorf("rejected: %w", ErrEmptyPrompt), ErrEmptyPrompt},
		{"in flight", fmt.Errorf("ignored: %w", ErrExchangeInFlight), ErrExchangeInFlight},
		{"missing key", fmt.Errorf("client: %w", ErrMissingAPIKey), ErrMissingAPIKey},
		{"no open turn", fmt.Errorf("chunk dropped: %w", ErrNoOpenTurn), ErrNoOpenTurn},
		{"malformed chunk", fmt.Errorf("%w: unexpected token", ErrMalformedChunk), ErrMalformedChunk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}
}

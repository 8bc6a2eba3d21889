// Package errors provides custom error types for the gemchat client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyPrompt      = errors.New("prompt is empty")
	ErrExchangeInFlight = errors.New("an exchange is already in flight")
	ErrMissingAPIKey    = errors.New("no API key configured")
	ErrNoOpenTurn       = errors.New("no streaming model turn is open")
	ErrMalformedChunk   = errors.New("malformed stream chunk")
	ErrInvalidResponse  = errors.New("invalid response format")
)

// APIError represents a request the service rejected
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d]: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// Is allows comparison with other APIErrors
func (e *APIError) Is(target error) bool {
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, message, body string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    message,
		Body:       body,
	}
}

// StreamError represents a failure while a response was still streaming.
// Partial holds whatever text had accumulated before the failure so callers
// can log or inspect it; the conversation itself substitutes a fixed
// apology turn instead.
type StreamError struct {
	Partial string
	Err     error
}

func (e *StreamError) Error() string {
	if e.Partial == "" {
		return fmt.Sprintf("stream failed: %v", e.Err)
	}
	return fmt.Sprintf("stream failed after %d bytes: %v", len(e.Partial), e.Err)
}

// Unwrap exposes the underlying cause to errors.Is/As chains
func (e *StreamError) Unwrap() error {
	return e.Err
}

// NewStreamError creates a new StreamError
func NewStreamError(partial string, err error) *StreamError {
	return &StreamError{Partial: partial, Err: err}
}

// BlockedError represents a reply the service refused to finish
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return "response blocked"
	}
	return fmt.Sprintf("response blocked: %s", e.Reason)
}

// Is allows comparison with other BlockedErrors
func (e *BlockedError) Is(target error) bool {
	_, ok := target.(*BlockedError)
	return ok
}

// NewBlockedError creates a new BlockedError
func NewBlockedError(reason string) *BlockedError {
	return &BlockedError{Reason: reason}
}

// UsageLimitError represents a quota or rate limit rejection
type UsageLimitError struct {
	Message string
}

func (e *UsageLimitError) Error() string {
	if e.Message == "" {
		return "usage limit exceeded"
	}
	return fmt.Sprintf("usage limit exceeded: %s", e.Message)
}

// NewUsageLimitError creates a new UsageLimitError
func NewUsageLimitError(message string) *UsageLimitError {
	return &UsageLimitError{Message: message}
}

package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrMissingCredentials means the provider key is absent, a placeholder, or was rejected.
	ErrMissingCredentials = errors.New("completion service credentials missing or invalid")
	// ErrUpstreamTimeout means the call exceeded its deadline.
	ErrUpstreamTimeout = errors.New("completion service timed out")
	// ErrUpstreamService matches every *UpstreamError.
	ErrUpstreamService = errors.New("completion service error")
)

// PlaceholderAPIKey is the value shipped in sample .env files.
const PlaceholderAPIKey = "your_groq_api_key_here"

// HasCredentials reports whether key looks like a usable provider key.
func HasCredentials(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != PlaceholderAPIKey
}

// UpstreamError is a non-2xx provider answer or a transport failure.
type UpstreamError struct {
	StatusCode int
	Message    string
	// Unreachable is set for connection failures and an open circuit breaker.
	Unreachable bool
	Err         error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Unreachable:
		return fmt.Sprintf("completion service unreachable: %s", e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("completion service status %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("completion service error: %s", e.Message)
	}
}

// Is lets errors.Is(err, ErrUpstreamService) match.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamService
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the provider may succeed on a later attempt.
func (e *UpstreamError) Retryable() bool {
	if e.Unreachable {
		return true
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// IsUnavailable reports whether err means the provider could not be reached in time.
func IsUnavailable(err error) bool {
	if errors.Is(err, ErrUpstreamTimeout) {
		return true
	}
	var upErr *UpstreamError
	return errors.As(err, &upErr) && upErr.Unreachable
}

// SanitizeMessage trims provider error text for logs and API responses.
func SanitizeMessage(msg string) string {
	msg = strings.Join(strings.Fields(msg), " ")
	const max = 200
	if r := []rune(msg); len(r) > max {
		msg = string(r[:max]) + "..."
	}
	return msg
}

package adapter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCircuitOpen is returned without any network I/O while a
	// vendor's circuit breaker is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrRateLimited is returned by fail-fast rate limiters when the
	// token bucket is empty.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrWebhookSignature is returned when a webhook body fails HMAC
	// verification. The payload must not be processed.
	ErrWebhookSignature = errors.New("webhook signature verification failed")
)

// AuthError distinguishes invalid credentials (fatal, not retried) from
// transient authentication failures (retried by the HTTP layer).
type AuthError struct {
	Vendor  string
	Fatal   bool
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	kind := "transient"
	if e.Fatal {
		kind = "credentials invalid"
	}
	return fmt.Sprintf("%s auth error (%s): %s", e.Vendor, kind, e.Message)
}

func (e *AuthError) Unwrap() error { return e.Err }

// IsFatalAuthError reports whether err is a non-retryable credential failure
func IsFatalAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Fatal
}

// RetryExhaustedError wraps the last transient failure after the retry
// cap is reached.
type RetryExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("request failed after %d attempts: %v", e.Attempts, e.LastErr)
}

func (e *RetryExhaustedError) Unwrap() error { return e.LastErr }

// ValidationError reports a caller mistake. Never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// UnsupportedVendorError lists every supported type so the caller can
// see what the registry actually knows about.
type UnsupportedVendorError struct {
	Requested string
	Supported []string
}

func (e *UnsupportedVendorError) Error() string {
	return fmt.Sprintf("unsupported vendor type %q, supported types: %s",
		e.Requested, strings.Join(e.Supported, ", "))
}

package cloudflare

import (
	"fmt"
	"strings"
	"time"
)

// ResponseError is one entry of the errors array in a v4 envelope.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e ResponseError) String() string {
	if e.Code == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func joinErrors(errs []ResponseError) string {
	if len(errs) == 0 {
		return "no error details"
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, "; ")
}

// APIError is returned for any unsuccessful response that is not an
// authentication or rate limit failure.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// Method and Path identify the request.
	Method string
	Path   string

	// Errors are the errors reported in the response envelope, if any.
	Errors []ResponseError
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("cloudflare %s %s (status %d): %s", e.Method, e.Path, e.StatusCode, joinErrors(e.Errors))
}

// Temporary reports whether the request may succeed if retried.
func (e *APIError) Temporary() bool {
	return e.StatusCode >= 500
}

// AuthError is returned when the API rejects the credentials (HTTP 401 or 403).
type AuthError struct {
	StatusCode int
	Errors     []ResponseError
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("cloudflare authentication failed (status %d): %s", e.StatusCode, joinErrors(e.Errors))
}

// RateLimitError is returned when the API answers HTTP 429.
type RateLimitError struct {
	// RetryAfter is the delay requested by the server, or 0 if none was sent.
	RetryAfter time.Duration

	Errors []ResponseError
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("cloudflare rate limit exceeded (retry after %s): %s", e.RetryAfter, joinErrors(e.Errors))
	}
	return fmt.Sprintf("cloudflare rate limit exceeded: %s", joinErrors(e.Errors))
}

// DecodeError is returned when a response body is not a valid envelope.
type DecodeError struct {
	Path  string
	Body  string
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("cloudflare %s: decode response: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

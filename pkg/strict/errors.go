package strict

import (
	"errors"
	"fmt"
)

// Error taxonomy for the request/response exchange. Every failure mode maps
// to exactly one of these types so callers can branch with errors.As.

// ValidationError reports a request that failed client-side validation.
// It is returned before any network I/O happens.
type ValidationError struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{
		Message: message,
		Fields:  fields,
	}
}

// InvalidCredentialError reports a configured credential that cannot be
// encoded as an HTTP header value. It is returned before any network I/O.
type InvalidCredentialError struct {
	Header string `json:"header"`
}

func (e *InvalidCredentialError) Error() string {
	return fmt.Sprintf("credential for header %s contains characters illegal in a header value", e.Header)
}

// NewInvalidCredentialError creates a new invalid credential error.
func NewInvalidCredentialError(header string) *InvalidCredentialError {
	return &InvalidCredentialError{Header: header}
}

// TransportError reports a network-level failure: DNS, connection refused,
// TLS, or a client-side timeout. The underlying cause is wrapped.
type TransportError struct {
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("transport: request timed out: %v", e.Err)
	}
	return fmt.Sprintf("transport: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError reports a non-2xx response from the service. Body holds the raw
// response text, best effort; it is never parsed as JSON.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Body       string `json:"body"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Body)
}

// NewAPIError creates a new API error.
func NewAPIError(statusCode int, body string) *APIError {
	return &APIError{StatusCode: statusCode, Body: body}
}

// SchemaError reports a response body that could not be decoded into the
// expected shape. Field names the offending field when determinable.
type SchemaError struct {
	Field string
	Err   error
}

func (e *SchemaError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("response schema: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("response schema: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// IsTimeout reports whether err represents a client-side timeout, as
// opposed to any other transport failure.
func IsTimeout(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Timeout
}

package core

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorType represents the category of a gateway error.
type ErrorType int

// Error type constants categorize failures for response mapping.
const (
	// ErrorTypeUnknown indicates an unclassified error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeConfig indicates required configuration was absent at request time.
	ErrorTypeConfig
	// ErrorTypeUnauthorized indicates the presented proxy token did not match.
	ErrorTypeUnauthorized
	// ErrorTypeInvalidEnvironment indicates an environment selector outside the recognized set.
	ErrorTypeInvalidEnvironment
	// ErrorTypeBadRequest indicates malformed client input.
	ErrorTypeBadRequest
	// ErrorTypeNetwork indicates the outbound call failed to complete.
	ErrorTypeNetwork
	// ErrorTypeInternal indicates a failure inside the gateway itself.
	ErrorTypeInternal
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"CONFIG",
		"UNAUTHORIZED",
		"INVALID_ENVIRONMENT",
		"BAD_REQUEST",
		"NETWORK",
		"INTERNAL",
	}[t]
}

// GatewayError represents a structured failure inside the proxy pipeline.
// Upstream non-success responses are not gateway errors; they are relayed
// verbatim to the caller.
type GatewayError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status the gateway responds with.
	StatusCode int `json:"status_code"`
	// Code is a stable, machine-readable error identifier.
	Code string `json:"code,omitempty"`
	// Message is the human-readable error description.
	Message string `json:"message"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface for GatewayError.
func (e *GatewayError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d/%s): %s", e.Type, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s (%d): %s", e.Type, e.StatusCode, e.Message)
}

// WithCode returns the error with the specified error code set.
func (e *GatewayError) WithCode(code ErrorCode) *GatewayError {
	e.Code = string(code)
	return e
}

// HTTPStatus returns the HTTP status code the gateway should respond with.
// Errors constructed without a status fall back to 500.
func (e *GatewayError) HTTPStatus() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

// NewGatewayError creates a new GatewayError with the specified details.
// The timestamp is automatically set to the current time.
func NewGatewayError(errorType ErrorType, statusCode int, message string) *GatewayError {
	return &GatewayError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		Timestamp:  time.Now(),
	}
}

// IsUnauthorized returns true if the error is a proxy token mismatch.
func IsUnauthorized(err error) bool {
	var e *GatewayError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeUnauthorized
	}
	return false
}

// IsConfigError returns true if the error indicates missing configuration.
func IsConfigError(err error) bool {
	var e *GatewayError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeConfig
	}
	return false
}

// IsInvalidEnvironment returns true if the error is an unrecognized
// environment selector value.
func IsInvalidEnvironment(err error) bool {
	var e *GatewayError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeInvalidEnvironment
	}
	return false
}

// IsNetworkError returns true if the outbound call failed to complete.
// Upstream non-success statuses are relayed, not reported as network errors.
func IsNetworkError(err error) bool {
	var e *GatewayError
	if errors.As(err, &e) {
		return e.Type == ErrorTypeNetwork
	}
	return false
}

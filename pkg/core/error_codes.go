package core

import "errors"

// ErrorCode represents a stable, machine-readable error identifier.
type ErrorCode string

// Error code constants define standardized identifiers across the gateway.
const (
	// ErrCodeNoProxyToken indicates no proxy token is configured under strict auth.
	ErrCodeNoProxyToken ErrorCode = "NO_PROXY_TOKEN"
	// ErrCodeUnauthorized indicates the presented proxy token did not match.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeInvalidEnvironment indicates an unrecognized environment selector.
	ErrCodeInvalidEnvironment ErrorCode = "INVALID_ENVIRONMENT"
	// ErrCodeNoCredentials indicates no API key/secret pair is configured
	// for the selected environment under the strict credential policy.
	ErrCodeNoCredentials ErrorCode = "NO_CREDENTIALS"
	// ErrCodeNetwork indicates the outbound call failed to complete.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrCodeInvalidConfig indicates startup configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeUnsupportedMethod indicates an HTTP verb the forwarder cannot relay.
	ErrCodeUnsupportedMethod ErrorCode = "UNSUPPORTED_METHOD"
)

// IsErrorCode checks if the error matches the specified error code.
func IsErrorCode(err error, code ErrorCode) bool {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return ErrorCode(gwErr.Code) == code
	}
	return false
}

// Package error defines domain-specific errors for the Billflow application.
package error

import "errors"

// AuthErrorCode is a machine-readable error code for service authentication.
type AuthErrorCode string

// Service-token validation error codes.
const (
	ErrCodeInvalidToken AuthErrorCode = "AUTH-030001"
	ErrCodeExpiredToken AuthErrorCode = "AUTH-030002"
	ErrCodeMissingToken AuthErrorCode = "AUTH-030003"
	ErrCodeRateLimited  AuthErrorCode = "AUTH-030004"
)

// Service authentication errors.
var (
	// ErrInvalidServiceToken is returned when a service token fails validation.
	ErrInvalidServiceToken = errors.New("invalid service token")
)

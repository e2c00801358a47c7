// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// ServiceClaims carries the validated identity of a calling service.
type ServiceClaims struct {
	Subject string
}

// TokenService validates service-to-service tokens on mutating endpoints.
type TokenService interface {
	// ValidateServiceToken parses and validates a bearer token, returning
	// its claims or an error.
	ValidateServiceToken(ctx context.Context, token string) (*ServiceClaims, error)
}

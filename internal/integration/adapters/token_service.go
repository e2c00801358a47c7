// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/billflow/backend/internal/application/adapter"
	domainerror "github.com/billflow/backend/internal/domain/error"
)

// serviceClaims represents the claims carried by service-to-service tokens.
type serviceClaims struct {
	jwt.RegisteredClaims
}

// tokenService implements the adapter.TokenService interface for
// service-to-service authentication. Mutating endpoints are called by other
// internal services, never by end users, so the token carries only a subject.
type tokenService struct {
	secret []byte
}

// NewTokenService creates a new token service instance.
func NewTokenService(secret string) adapter.TokenService {
	return &tokenService{
		secret: []byte(secret),
	}
}

// ValidateServiceToken parses and validates a service bearer token.
func (s *tokenService) ValidateServiceToken(ctx context.Context, token string) (*adapter.ServiceClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &serviceClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerror.ErrInvalidServiceToken, err)
	}

	claims, ok := parsed.Claims.(*serviceClaims)
	if !ok || !parsed.Valid {
		return nil, domainerror.ErrInvalidServiceToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domainerror.ErrInvalidServiceToken)
	}

	return &adapter.ServiceClaims{
		Subject: claims.Subject,
	}, nil
}

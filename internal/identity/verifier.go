// Package identity verifies bearer tokens and yields the request principal.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/mhmasum1/digital-life-lessons-server/internal/config"

	"go.uber.org/zap"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Principal is the verified identity attached to an authenticated request.
type Principal struct {
	Email   string
	Subject string
}

// Verifier turns a bearer token into a Principal.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Principal, error)
}

// NewVerifier selects the verifier configured by AUTH_PROVIDER.
func NewVerifier(cfg *config.Config, logger *zap.Logger, jwtService *JWTService) (Verifier, error) {
	switch cfg.AuthProvider {
	case config.AuthProviderFirebase:
		return NewFirebaseVerifier(cfg, logger)
	case config.AuthProviderJWT:
		return jwtService, nil
	default:
		return nil, fmt.Errorf("unsupported auth provider %q", cfg.AuthProvider)
	}
}

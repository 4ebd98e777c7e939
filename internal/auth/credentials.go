package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/sla-engine/internal/config"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

// ClientAuthenticator checks service-client credentials against the configured
// client ID and bcrypt secret hash.
type ClientAuthenticator struct {
	clientID   string
	secretHash []byte
	enabled    bool
}

// NewClientAuthenticator builds the authenticator. A plaintext secret in config
// is hashed at startup; a pre-hashed secret is used as-is. With neither set,
// authentication is disabled.
func NewClientAuthenticator(cfg config.AuthConfig) (*ClientAuthenticator, error) {
	if !cfg.Enabled() {
		return &ClientAuthenticator{enabled: false}, nil
	}

	hash := []byte(cfg.ClientSecretHash)
	if len(hash) == 0 {
		cost := cfg.BcryptCost
		if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			cost = bcrypt.DefaultCost
		}
		generated, err := bcrypt.GenerateFromPassword([]byte(cfg.ClientSecret), cost)
		if err != nil {
			return nil, fmt.Errorf("hash client secret: %w", err)
		}
		hash = generated
	}

	return &ClientAuthenticator{
		clientID:   cfg.ClientID,
		secretHash: hash,
		enabled:    true,
	}, nil
}

// Enabled reports whether credentials are configured.
func (a *ClientAuthenticator) Enabled() bool {
	return a != nil && a.enabled
}

// Authenticate verifies a client ID and secret pair.
func (a *ClientAuthenticator) Authenticate(clientID, clientSecret string) error {
	if !a.Enabled() {
		return apperrors.NewUnauthorized("client authentication not configured")
	}
	if clientID != a.clientID {
		return apperrors.NewUnauthorized("invalid client credentials")
	}
	if err := bcrypt.CompareHashAndPassword(a.secretHash, []byte(clientSecret)); err != nil {
		return apperrors.NewUnauthorized("invalid client credentials")
	}
	return nil
}

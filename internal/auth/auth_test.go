package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/sla-engine/internal/config"
	apperrors "github.com/spec-kit/sla-engine/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)

	token, expiresAt, err := tm.GenerateToken("reporting-job")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "reporting-job", claims.ClientID)
	assert.Equal(t, "reporting-job", claims.Subject)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("reporting-job")
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", 60)
	_, err := tm.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestClientAuthenticatorPlaintextSecret(t *testing.T) {
	authenticator, err := NewClientAuthenticator(config.AuthConfig{
		ClientID:     "reporting-job",
		ClientSecret: "s3cret",
		BcryptCost:   bcrypt.MinCost,
	})
	require.NoError(t, err)
	require.True(t, authenticator.Enabled())

	assert.NoError(t, authenticator.Authenticate("reporting-job", "s3cret"))

	err = authenticator.Authenticate("reporting-job", "wrong")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))

	err = authenticator.Authenticate("other-client", "s3cret")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

func TestClientAuthenticatorPreHashedSecret(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	authenticator, err := NewClientAuthenticator(config.AuthConfig{
		ClientID:         "reporting-job",
		ClientSecretHash: string(hash),
	})
	require.NoError(t, err)
	assert.NoError(t, authenticator.Authenticate("reporting-job", "s3cret"))
}

func TestClientAuthenticatorDisabled(t *testing.T) {
	authenticator, err := NewClientAuthenticator(config.AuthConfig{})
	require.NoError(t, err)
	assert.False(t, authenticator.Enabled())

	err = authenticator.Authenticate("anyone", "anything")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
}

// backend/src/security/auth_service_test.go
package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret-test-secret-test-secret")

	token, err := svc.GenerateToken(42, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", subject)
}

func TestAuthService_RejectsExpiredToken(t *testing.T) {
	svc := NewAuthService("test-secret-test-secret-test-secret")

	token, err := svc.GenerateToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsForeignSecret(t *testing.T) {
	issuer := NewAuthService("issuer-secret-issuer-secret-issuer")
	verifier := NewAuthService("another-secret-another-secret-etc")

	token, err := issuer.GenerateToken(7, time.Minute)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RejectsGarbage(t *testing.T) {
	svc := NewAuthService("test-secret-test-secret-test-secret")

	_, err := svc.ValidateToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshTokensAreUnique(t *testing.T) {
	svc := NewAuthService("test-secret-test-secret-test-secret")

	a, err := svc.GenerateRefreshToken()
	require.NoError(t, err)
	b, err := svc.GenerateRefreshToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

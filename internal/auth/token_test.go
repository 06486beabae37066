package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return raw
}

func TestTokenVerifierAcceptsValidToken(t *testing.T) {
	v := NewTokenVerifier("topsecret")
	raw := signToken(t, "topsecret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	userID, err := v.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}

func TestTokenVerifierRejectsWrongSecret(t *testing.T) {
	v := NewTokenVerifier("topsecret")
	raw := signToken(t, "othersecret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(raw)
	require.Error(t, err)
}

func TestTokenVerifierRejectsExpired(t *testing.T) {
	v := NewTokenVerifier("topsecret")
	raw := signToken(t, "topsecret", jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := v.Verify(raw)
	require.Error(t, err)
}

func TestTokenVerifierRequiresExpiry(t *testing.T) {
	v := NewTokenVerifier("topsecret")
	raw := signToken(t, "topsecret", jwt.MapClaims{"sub": "u1"})

	_, err := v.Verify(raw)
	require.Error(t, err)
}

func TestTokenVerifierRequiresSubject(t *testing.T) {
	v := NewTokenVerifier("topsecret")
	raw := signToken(t, "topsecret", jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(raw)
	require.Error(t, err)
}

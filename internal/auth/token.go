package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// TokenVerifier validates bearer tokens minted by the hosted auth service.
// Tokens are HMAC-SHA256 signed with a shared secret; this service never
// issues tokens itself.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier constructs a verifier with the shared secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Verify checks the signature and expiry and returns the subject user ID.
func (v *TokenVerifier) Verify(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidToken, err)
	}
	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", shared.ErrInvalidToken
	}
	return subject, nil
}

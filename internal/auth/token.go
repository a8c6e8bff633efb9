// Package auth provides token signing and password hashing.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot be trusted.
var ErrInvalidToken = errors.New("invalid token")

// subjectClaim is the claim carrying the user ID.
const subjectClaim = "id"

// TokenCodec signs and verifies HS256 tokens whose only claim is the user ID.
// Tokens carry no expiry; the same secret and subject always produce the same token.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec creates a codec for the given shared secret.
func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Sign issues a token for subject.
func (c *TokenCodec) Sign(subject string) (string, error) {
	if len(c.secret) == 0 {
		return "", errors.New("token secret is not configured")
	}
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{subjectClaim: subject})
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and returns the subject.
func (c *TokenCodec) Verify(tokenString string) (string, error) {
	if tokenString == "" || len(c.secret) == 0 {
		return "", ErrInvalidToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	subject, ok := claims[subjectClaim].(string)
	if !ok || subject == "" {
		return "", ErrInvalidToken
	}
	return subject, nil
}

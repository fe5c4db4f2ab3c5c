// Package auth wraps the signed-token and password-hash primitives used by
// the session services. Tokens are HS256 JWTs; each token class (access,
// refresh, reset) is signed with its own secret and lifetime supplied by the
// caller.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nihil-template/nihil-auth/internal/common"
)

// PurposeResetPassword tags password-reset tokens. Verification of a reset
// token checks this claim, so an access token signed with the same secret
// can never be replayed against the reset flow.
const PurposeResetPassword = "reset-password"

// Claims is the payload embedded in every token this service signs. Access
// and refresh tokens carry the account identity; reset tokens carry only
// UserID plus Purpose.
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"userId"`
	Email   string `json:"email,omitempty"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
}

// GenerateToken signs claims with the given secret and expiry window.
// Registered claims are set here; any values already present are replaced.
// Every token carries a fresh jti, so two tokens minted in the same second
// from the same payload still differ; rotation must always produce a new
// value.
func GenerateToken(claims Claims, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the decoded claims.
// All failure causes (malformed, bad signature, expired) collapse into
// common.ErrorInvalidToken so callers cannot leak which check failed.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}

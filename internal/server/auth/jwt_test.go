package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nihil-template/nihil-auth/internal/common"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	claims := Claims{
		UserID: "user-123",
		Email:  "alice@example.com",
		Name:   "Alice",
		Role:   "USER",
	}

	tok, err := GenerateToken(claims, secret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.UserID != claims.UserID || got.Email != claims.Email || got.Name != claims.Name || got.Role != claims.Role {
		t.Fatalf("claims mismatch: got %+v want %+v", got, claims)
	}
	if got.Purpose != "" {
		t.Fatalf("unexpected purpose claim: %q", got.Purpose)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := GenerateToken(Claims{UserID: "u1"}, secret, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if err != common.ErrorInvalidToken {
		t.Fatalf("expected common.ErrorInvalidToken, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken(Claims{UserID: "u2"}, []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong-secret"))
	if err != common.ErrorInvalidToken {
		t.Fatalf("expected common.ErrorInvalidToken, got %v", err)
	}
}

func TestParseToken_MalformedString(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	if err != common.ErrorInvalidToken {
		t.Fatalf("expected common.ErrorInvalidToken, got %v", err)
	}
}

func TestParseToken_RejectsUnsignedAlgorithm(t *testing.T) {
	t.Parallel()

	// an attacker-crafted token with alg "none" must not verify, whatever
	// its payload claims
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u4"})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	_, err = ParseToken(tok, []byte("k"))
	if err != common.ErrorInvalidToken {
		t.Fatalf("expected common.ErrorInvalidToken, got %v", err)
	}
}

func TestGenerateToken_PurposeRoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("shared")

	tok, err := GenerateToken(Claims{UserID: "u3", Purpose: PurposeResetPassword}, secret, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	got, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.Purpose != PurposeResetPassword {
		t.Fatalf("purpose mismatch: got %q want %q", got.Purpose, PurposeResetPassword)
	}
}

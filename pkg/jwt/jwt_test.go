package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(Config{Key: "test-signing-key", Issuer: "test-issuer"})
}

// ============================================================================
// Issue / Sign Tests
// ============================================================================

func TestIssue_ReturnsTokenWithClaims(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, err := svc.Issue("user:u1", "ann@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Fatalf("expected 3 token parts, got %d", len(parts))
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.UserID != "user:u1" {
		t.Errorf("expected user id 'user:u1', got %q", claims.UserID)
	}
	if claims.Email != "ann@example.com" {
		t.Errorf("expected email 'ann@example.com', got %q", claims.Email)
	}
}

func TestIssue_ExpiresAfterOneHour(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	token, _ := svc.Issue("user:u1", "ann@example.com")
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}

	lifetime := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time)
	if lifetime != time.Hour {
		t.Errorf("expected 1h lifetime, got %v", lifetime)
	}
}

func TestSign_EmptyKey_ReturnsErrInvalidKey(t *testing.T) {
	t.Parallel()
	svc := NewService(Config{})

	_, err := svc.Issue("user:u1", "ann@example.com")
	if !errors.Is(err, ErrInvalidKey) {
		t.Errorf("expected ErrInvalidKey, got %v", err)
	}
}

func TestNewService_DefaultExpiration(t *testing.T) {
	t.Parallel()
	if got := NewService(Config{Key: "k"}).expiration; got != DefaultExpiration {
		t.Errorf("expected default expiration %v, got %v", DefaultExpiration, got)
	}
}

// ============================================================================
// Validate Tests
// ============================================================================

func TestValidate_ExpiredToken_ReturnsErrTokenExpired(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _ := svc.Issue("user:u1", "ann@example.com")

	svc.now = time.Now
	_, err := svc.Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestValidate_WrongKey_ReturnsErrInvalidSignature(t *testing.T) {
	t.Parallel()
	token, _ := newTestService(t).Issue("user:u1", "ann@example.com")

	other := NewService(Config{Key: "another-key", Issuer: "test-issuer"})
	_, err := other.Validate(token)
	if !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestValidate_TamperedClaims_Fails(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	token, _ := svc.Issue("user:u1", "ann@example.com")

	parts := strings.Split(token, ".")
	other, _ := svc.Issue("user:u2", "bob@example.com")
	tampered := parts[0] + "." + strings.Split(other, ".")[1] + "." + parts[2]

	if _, err := svc.Validate(tampered); err == nil {
		t.Error("expected tampered token to be rejected")
	}
}

func TestValidate_MalformedTokens_ReturnErrInvalidToken(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	for _, token := range []string{"", "abc", "a.b", "a.b.c.d"} {
		if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestValidate_RejectsOtherSigningMethods(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{
		UserID: "user:u1",
		RegisteredClaims: gojwt.RegisteredClaims{
			Issuer:    "test-issuer",
			ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS512, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		t.Fatalf("failed to sign: %v", err)
	}

	if _, err := svc.Validate(token); err == nil {
		t.Error("expected HS512 token to be rejected")
	}
}

func TestValidate_MissingExpiry_Rejected(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	claims := Claims{UserID: "user:u1", RegisteredClaims: gojwt.RegisteredClaims{Issuer: "test-issuer"}}
	token, _ := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))

	if _, err := svc.Validate(token); err == nil {
		t.Error("expected token without exp to be rejected")
	}
}

func TestValidate_WrongIssuer_ReturnsErrInvalidToken(t *testing.T) {
	t.Parallel()
	token, _ := NewService(Config{Key: "test-signing-key", Issuer: "someone-else"}).Issue("user:u1", "a@b.c")

	if _, err := newTestService(t).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-0123456789"

func TestNewTokenIssuer_ShortSecret(t *testing.T) {
	if _, err := NewTokenIssuer("short", time.Hour); err == nil {
		t.Error("Expected error for short secret")
	}
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	token, expiresAt, err := issuer.GenerateAdminToken("ops")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("Expected expiry in the future, got %v", expiresAt)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Role != RoleAdmin || claims.Subject != "ops" {
		t.Errorf("Unexpected claims: %+v", claims)
	}
}

func TestTokenIssuer_SubjectUsesRegisteredClaim(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret, time.Hour)
	token, _, err := issuer.GenerateAdminToken("ops")
	if err != nil {
		t.Fatalf("GenerateAdminToken: %v", err)
	}

	raw := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, raw); err != nil {
		t.Fatalf("ParseUnverified: %v", err)
	}
	if raw["sub"] != "ops" {
		t.Errorf("Expected sub claim ops, got %v", raw["sub"])
	}
	if _, ok := raw["sub_name"]; ok {
		t.Errorf("Expected no custom subject claim, got %v", raw)
	}

	claims, err := issuer.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if sub, _ := claims.GetSubject(); sub != "ops" {
		t.Errorf("Expected GetSubject ops, got %q", sub)
	}
}

func TestTokenIssuer_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer, _ := NewTokenIssuer(testSecret, time.Hour)
	other, _ := NewTokenIssuer("another-secret-0123456789", time.Hour)

	foreign, _, _ := other.GenerateAdminToken("ops")
	if _, err := issuer.ValidateToken(foreign); err == nil {
		t.Error("Expected error for token signed with another secret")
	}

	expiredIssuer, _ := NewTokenIssuer(testSecret, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, _ := expiredIssuer.GenerateAdminToken("ops")
	if _, err := issuer.ValidateToken(expired); err == nil {
		t.Error("Expected error for expired token")
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &JWTClaims{Role: RoleAdmin})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := issuer.ValidateToken(unsigned); err == nil {
		t.Error("Expected error for unsigned token")
	}
}

func TestCheckAPIKey(t *testing.T) {
	tests := []struct {
		configured, presented string
		want                  bool
	}{
		{"key", "key", true},
		{"key", "nope", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := CheckAPIKey(tt.configured, tt.presented); got != tt.want {
			t.Errorf("CheckAPIKey(%q, %q) = %v, want %v", tt.configured, tt.presented, got, tt.want)
		}
	}
}

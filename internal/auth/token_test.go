package auth

import (
	"testing"
	"time"

	"github.com/memberops/memberops-api/internal/domain"
)

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", "audience", 0)

	issued, err := tm.GenerateToken("supervisor", domain.RoleSupervisor)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if issued.TokenID == "" {
		t.Fatal("expected token id")
	}
	if d := time.Until(issued.ExpiresAt); d < 59*time.Minute || d > 61*time.Minute {
		t.Fatalf("expected default 60 minute expiry, got %s", d)
	}

	claims, err := tm.ParseToken(issued.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "supervisor" || claims.Role != domain.RoleSupervisor || claims.ID != issued.TokenID {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", "audience", time.Minute)
	a, _ := tm.GenerateToken("staff", domain.RoleStaff)
	b, _ := tm.GenerateToken("staff", domain.RoleStaff)
	if a.TokenID == b.TokenID {
		t.Fatal("expected distinct token ids")
	}
}

func TestParseTokenRejectsForeignTokens(t *testing.T) {
	issuer := NewTokenManager("secret", "issuer", "audience", time.Minute)
	issued, err := issuer.GenerateToken("admin", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	cases := map[string]*TokenManager{
		"wrong secret":   NewTokenManager("other", "issuer", "audience", time.Minute),
		"wrong issuer":   NewTokenManager("secret", "other", "audience", time.Minute),
		"wrong audience": NewTokenManager("secret", "issuer", "other", time.Minute),
	}
	for name, tm := range cases {
		if _, err := tm.ParseToken(issued.Token); err == nil {
			t.Fatalf("%s: expected parse failure", name)
		}
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", "audience", time.Minute)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	issued, err := tm.GenerateToken("staff", domain.RoleStaff)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	tm.now = time.Now
	if _, err := tm.ParseToken(issued.Token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestAgentRoleNormalizesToStaff(t *testing.T) {
	tm := NewTokenManager("secret", "issuer", "audience", time.Minute)
	issued, _ := tm.GenerateToken("agent1", domain.Role("Agent"))
	claims, err := tm.ParseToken(issued.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Role != domain.RoleStaff {
		t.Fatalf("expected Staff role, got %s", claims.Role)
	}
}

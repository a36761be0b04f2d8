package auth

import (
	"testing"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	tm := NewTokenManager("session-test-secret", 60, 168)

	tokenStr, _, err := tm.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	claims, err := tm.ParseToken(tokenStr, TokenTypeAccess)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Errorf("Subject = %q, want user-1", claims.Subject)
	}
}

func TestParseRejectsWrongTokenType(t *testing.T) {
	tm := NewTokenManager("session-test-secret", 60, 168)

	refresh, _, err := tm.GenerateRefreshToken("user-1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken failed: %v", err)
	}

	if _, err := tm.ParseToken(refresh, TokenTypeAccess); err == nil {
		t.Error("refresh token accepted where access token required")
	}
	if _, err := tm.ParseToken(refresh, TokenTypeRefresh); err != nil {
		t.Errorf("refresh token rejected for refresh use: %v", err)
	}
}

func TestParseRejectsTamperedToken(t *testing.T) {
	tm := NewTokenManager("session-test-secret", 60, 168)

	tokenStr, _, err := tm.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	tampered := tokenStr[:len(tokenStr)-2] + "xx"
	if _, err := tm.ParseToken(tampered, TokenTypeAccess); err == nil {
		t.Error("tampered token accepted")
	}
}

func TestParseRejectsForeignSecret(t *testing.T) {
	issuing := NewTokenManager("secret-a", 60, 168)
	verifying := NewTokenManager("secret-b", 60, 168)

	tokenStr, _, err := issuing.GenerateAccessToken("user-1")
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if _, err := verifying.ParseToken(tokenStr, TokenTypeAccess); err == nil {
		t.Error("token signed with a different secret accepted")
	}
}

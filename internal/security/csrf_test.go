package security

import "testing"

func TestCSRFTokenRoundTrip(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	token, err := gen.GenerateToken("session-123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if !gen.ValidateToken("session-123", token) {
		t.Error("expected token to validate for its own session")
	}
	if gen.ValidateToken("other-session", token) {
		t.Error("token must not validate for a different session")
	}
	if gen.ValidateToken("session-123", token+"x") {
		t.Error("tampered token must not validate")
	}
}

func TestCSRFTokenRequiresSession(t *testing.T) {
	gen := NewCSRFGenerator("test-secret")

	if _, err := gen.GenerateToken(""); err == nil {
		t.Error("expected error for empty session ID")
	}
	if gen.ValidateToken("", "token") {
		t.Error("empty session must never validate")
	}
}

func TestCSRFTokenDependsOnSecret(t *testing.T) {
	a := NewCSRFGenerator("secret-a")
	b := NewCSRFGenerator("secret-b")

	token, _ := a.GenerateToken("session-123")
	if b.ValidateToken("session-123", token) {
		t.Error("token from one secret must not validate under another")
	}
}

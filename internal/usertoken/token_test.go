package usertoken

import (
	"testing"
	"time"

	"tonearm/pkg/domain"
)

func TestIssueAndVerify(t *testing.T) {
	mgr, err := NewManager(Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := mgr.Issue(42, domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	ident, err := mgr.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ident.UserID != 42 {
		t.Fatalf("expected user 42, got %d", ident.UserID)
	}
	if ident.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", ident.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewManager(Config{Secret: "secret-a"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	verifier, err := NewManager(Config{Secret: "secret-b"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := issuer.Issue(7, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatalf("expected verification failure across secrets")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	mgr, err := NewManager(Config{Secret: "test-secret", TTL: time.Millisecond, Leeway: time.Millisecond})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	token, err := mgr.Issue(7, domain.RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, err := mgr.Verify(token); err == nil {
		t.Fatalf("expected expired token to fail")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	mgr, err := NewManager(Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := mgr.Verify(""); err == nil {
		t.Fatalf("expected empty token to fail")
	}
	if _, err := mgr.Verify("not.a.token"); err == nil {
		t.Fatalf("expected malformed token to fail")
	}
}

func TestManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager, err := NewTokenManager("test-secret", time.Hour, fixedClock(now))
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := manager.Issue(custody.User{Username: "marlowe", Role: custody.RoleInvestigator})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	username, role, err := manager.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if username != "marlowe" || role != custody.RoleInvestigator {
		t.Errorf("identity = %s/%s, want marlowe/Investigator", username, role)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	issuedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer, _ := NewTokenManager("test-secret", time.Hour, fixedClock(issuedAt))
	token, err := issuer.Issue(custody.User{Username: "marlowe", Role: custody.RoleAuditor})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	verifier, _ := NewTokenManager("test-secret", time.Hour, fixedClock(issuedAt.Add(2*time.Hour)))
	if _, _, err := verifier.Verify(token); !errors.Is(err, custody.ErrUnauthorized) {
		t.Errorf("expired token: err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer, _ := NewTokenManager("secret-a", time.Hour, fixedClock(now))
	verifier, _ := NewTokenManager("secret-b", time.Hour, fixedClock(now))

	token, err := issuer.Issue(custody.User{Username: "marlowe", Role: custody.RoleAuditor})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := verifier.Verify(token); !errors.Is(err, custody.ErrUnauthorized) {
		t.Errorf("forged token: err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyRejectsUnknownRole(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	manager, _ := NewTokenManager("test-secret", time.Hour, fixedClock(now))

	token, err := manager.Issue(custody.User{Username: "marlowe", Role: custody.Role("Janitor")})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := manager.Verify(token); !errors.Is(err, custody.ErrUnauthorized) {
		t.Errorf("unknown role: err = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	manager, _ := NewTokenManager("test-secret", time.Hour, nil)
	if _, _, err := manager.Verify("not.a.token"); !errors.Is(err, custody.ErrUnauthorized) {
		t.Errorf("garbage token: err = %v, want ErrUnauthorized", err)
	}
}

func TestNewTokenManagerRequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour, nil); err == nil {
		t.Error("empty secret accepted")
	}
}

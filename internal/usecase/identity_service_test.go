package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
	"github.com/TheWildEye/Evidential/internal/infra/memstore"
	"github.com/TheWildEye/Evidential/internal/usecase"
)

func newIdentity(t *testing.T) *usecase.IdentityService {
	t.Helper()
	return usecase.NewIdentityService(memstore.New().Users())
}

func TestAuthenticate(t *testing.T) {
	identity := newIdentity(t)
	ctx := context.Background()

	if err := identity.CreateUser(ctx, "marlowe", "s3cret", custody.RoleInvestigator); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	user, err := identity.Authenticate(ctx, "marlowe", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.Role != custody.RoleInvestigator {
		t.Errorf("role = %s, want Investigator", user.Role)
	}
	if user.PasswordHash == "s3cret" {
		t.Error("password stored in the clear")
	}

	// Wrong password and unknown user fail the same way.
	if _, err := identity.Authenticate(ctx, "marlowe", "wrong"); !errors.Is(err, custody.ErrUnauthorized) {
		t.Errorf("bad password: err = %v, want ErrUnauthorized", err)
	}
	if _, err := identity.Authenticate(ctx, "nobody", "s3cret"); !errors.Is(err, custody.ErrUnauthorized) {
		t.Errorf("unknown user: err = %v, want ErrUnauthorized", err)
	}
	if _, err := identity.Authenticate(ctx, "", ""); !errors.Is(err, custody.ErrUnauthorized) {
		t.Errorf("empty credentials: err = %v, want ErrUnauthorized", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	identity := newIdentity(t)
	ctx := context.Background()

	if err := identity.CreateUser(ctx, "", "pw", custody.RoleAuditor); !errors.Is(err, custody.ErrInvalidArgument) {
		t.Errorf("empty username: err = %v, want ErrInvalidArgument", err)
	}
	if err := identity.CreateUser(ctx, "u", "pw", custody.Role("Janitor")); !errors.Is(err, custody.ErrInvalidArgument) {
		t.Errorf("unknown role: err = %v, want ErrInvalidArgument", err)
	}
	if err := identity.CreateUser(ctx, "u", "pw", custody.RoleAuditor); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if err := identity.CreateUser(ctx, "u", "pw2", custody.RoleAuditor); !errors.Is(err, custody.ErrInvalidArgument) {
		t.Errorf("duplicate username: err = %v, want ErrInvalidArgument", err)
	}
}

func TestBootstrapSeedsOnce(t *testing.T) {
	store := memstore.New()
	identity := usecase.NewIdentityService(store.Users())
	ctx := context.Background()

	if err := identity.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	count, err := store.Users().Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 5 {
		t.Fatalf("seeded users = %d, want 5", count)
	}

	// A second bootstrap on a populated table is a no-op.
	if err := identity.Bootstrap(ctx); err != nil {
		t.Fatalf("second Bootstrap: %v", err)
	}
	count, _ = store.Users().Count(ctx)
	if count != 5 {
		t.Errorf("users after second bootstrap = %d, want 5", count)
	}

	for _, cred := range []struct{ username, password string }{
		{"sysadmin", "admin123"},
		{"manager", "manager123"},
		{"investigator", "inv123"},
		{"analyst", "analyst123"},
		{"auditor", "audit123"},
	} {
		if _, err := identity.Authenticate(ctx, cred.username, cred.password); err != nil {
			t.Errorf("seeded login %s: %v", cred.username, err)
		}
	}
}

func TestListCustodyEligibleUsers(t *testing.T) {
	identity := newIdentity(t)
	ctx := context.Background()

	if err := identity.Bootstrap(ctx); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	users, err := identity.ListCustodyEligibleUsers(ctx)
	if err != nil {
		t.Fatalf("ListCustodyEligibleUsers: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("eligible users = %d, want 3", len(users))
	}
	for _, user := range users {
		if user.Role == custody.RoleSystemAdmin || user.Role == custody.RoleAuditor {
			t.Errorf("%s (%s) should not be custody eligible", user.Username, user.Role)
		}
	}
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/TheWildEye/Evidential/internal/domain/custody"
)

// IdentityService authenticates credentials and answers identity queries.
// User records are immutable once created.
type IdentityService struct {
	Users UserRepository
}

func NewIdentityService(users UserRepository) *IdentityService {
	return &IdentityService{Users: users}
}

// Authenticate resolves credentials to a user. Unknown usernames and wrong
// passwords both surface as ErrUnauthorized; callers cannot distinguish them.
func (s *IdentityService) Authenticate(ctx context.Context, username, password string) (custody.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return custody.User{}, custody.ErrUnauthorized
	}
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, custody.ErrNotFound) {
			return custody.User{}, custody.ErrUnauthorized
		}
		return custody.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return custody.User{}, custody.ErrUnauthorized
	}
	return user, nil
}

// CreateUser registers a new identity with a bcrypt (salted, slow) password
// hash.
func (s *IdentityService) CreateUser(ctx context.Context, username, password string, role custody.Role) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return fmt.Errorf("username and password are required: %w", custody.ErrInvalidArgument)
	}
	if !custody.KnownRole(role) {
		return fmt.Errorf("unknown role %q: %w", role, custody.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Users.Create(ctx, custody.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// ListCustodyEligibleUsers returns the users who may hold custody, ordered by
// role then username. System Admin and Auditor are excluded: those roles
// observe the chain but never appear in it.
func (s *IdentityService) ListCustodyEligibleUsers(ctx context.Context) ([]custody.User, error) {
	return s.Users.ListCustodyEligible(ctx)
}

// Bootstrap seeds the demo accounts when the user table is empty.
func (s *IdentityService) Bootstrap(ctx context.Context) error {
	count, err := s.Users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seed := []struct {
		username string
		password string
		role     custody.Role
	}{
		{"sysadmin", "admin123", custody.RoleSystemAdmin},
		{"manager", "manager123", custody.RoleEvidenceManager},
		{"investigator", "inv123", custody.RoleInvestigator},
		{"analyst", "analyst123", custody.RoleForensicAnalyst},
		{"auditor", "audit123", custody.RoleAuditor},
	}
	for _, u := range seed {
		if err := s.CreateUser(ctx, u.username, u.password, u.role); err != nil {
			return fmt.Errorf("seed user %s: %w", u.username, err)
		}
	}
	return nil
}

package auth

import (
	"testing"

	"github.com/userbase/accounts-api/internal/core/domain"
)

var allOperations = []Operation{
	OpListAccounts,
	OpViewPermissions,
	OpAssignRole,
	OpReadAccount,
	OpViewProfile,
	OpUpdateAccount,
	OpDeleteAccount,
	Operation("accounts:unknown"),
}

func TestAuthorize_AdminSatisfiesEverything(t *testing.T) {
	for _, op := range allOperations {
		if got := Authorize(domain.RoleAdmin, op); got != Allow {
			t.Errorf("admin on %s: expected allow, got %v", op, got)
		}
	}
}

func TestAuthorize_User(t *testing.T) {
	want := map[Operation]Decision{
		OpListAccounts:                Deny,
		OpViewPermissions:             Deny,
		OpAssignRole:                  Deny,
		OpReadAccount:                 Allow,
		OpViewProfile:                 Allow,
		OpUpdateAccount:               Allow,
		OpDeleteAccount:               Allow,
		Operation("accounts:unknown"): Deny,
	}
	for op, decision := range want {
		if got := Authorize(domain.RoleUser, op); got != decision {
			t.Errorf("user on %s: expected %v, got %v", op, decision, got)
		}
	}
}

func TestAuthorize_UnknownRoleDenied(t *testing.T) {
	for _, role := range []domain.Role{"", "guest", "ADMIN"} {
		for _, op := range allOperations {
			if got := Authorize(role, op); got != Deny {
				t.Errorf("role %q on %s: expected deny, got %v", role, op, got)
			}
		}
	}
}

func TestAuthorizeSubject(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		subject int64
		op      Operation
		target  int64
		want    Decision
	}{
		{"user on own profile", domain.RoleUser, 1, OpViewProfile, 1, Allow},
		{"user on another profile", domain.RoleUser, 1, OpViewProfile, 2, Deny},
		{"admin on another profile", domain.RoleAdmin, 1, OpViewProfile, 2, Allow},
		{"user on own permissions", domain.RoleUser, 1, OpViewPermissions, 1, Deny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AuthorizeSubject(tt.role, tt.subject, tt.op, tt.target); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

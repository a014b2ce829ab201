package auth

import "github.com/userbase/accounts-api/internal/core/domain"

// Operation names an action guarded by the authorization check.
type Operation string

const (
	OpListAccounts    Operation = "accounts:list"
	OpViewPermissions Operation = "accounts:permissions"
	OpAssignRole      Operation = "accounts:assign-role"
	OpReadAccount     Operation = "accounts:read"
	OpViewProfile     Operation = "accounts:profile"
	OpUpdateAccount   Operation = "accounts:update"
	OpDeleteAccount   Operation = "accounts:delete"
)

// Decision is the outcome of an authorization check.
type Decision bool

const (
	Allow Decision = true
	Deny  Decision = false
)

// requirements maps each operation to the minimum role it needs.
// Operations missing from the table require admin.
var requirements = map[Operation]domain.Role{
	OpListAccounts:    domain.RoleAdmin,
	OpViewPermissions: domain.RoleAdmin,
	OpAssignRole:      domain.RoleAdmin,
	OpReadAccount:     domain.RoleUser,
	OpViewProfile:     domain.RoleUser,
	OpUpdateAccount:   domain.RoleUser,
	OpDeleteAccount:   domain.RoleUser,
}

// rank orders roles; unknown roles rank below every requirement.
func rank(r domain.Role) int {
	switch r {
	case domain.RoleAdmin:
		return 2
	case domain.RoleUser:
		return 1
	default:
		return 0
	}
}

// Requirement returns the minimum role for op.
func Requirement(op Operation) domain.Role {
	if req, ok := requirements[op]; ok {
		return req
	}
	return domain.RoleAdmin
}

// Authorize decides whether role may perform op.
func Authorize(role domain.Role, op Operation) Decision {
	if rank(role) == 0 {
		return Deny
	}
	return Decision(rank(role) >= rank(Requirement(op)))
}

// AuthorizeSubject extends Authorize to operations addressed at an account:
// a non-admin caller may only target its own account.
func AuthorizeSubject(role domain.Role, callerID int64, op Operation, targetID int64) Decision {
	if !Authorize(role, op) {
		return Deny
	}
	if role == domain.RoleAdmin {
		return Allow
	}
	return Decision(callerID == targetID)
}

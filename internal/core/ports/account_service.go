package ports

import (
	"context"
	"time"

	"github.com/userbase/accounts-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration. Role may be empty.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateAccountInput carries optional changes; nil fields are left untouched.
type UpdateAccountInput struct {
	Name  *string
	Email *string
	Role  *string
}

// LoginResult is returned after a successful credential check.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Account   *domain.Account
}

// Permissions is the authorization view of an account.
type Permissions struct {
	ID   int64
	Role domain.Role
}

// Profile is the public identity view of an account.
type Profile struct {
	ID    int64
	Name  string
	Email string
}

// AccountService defines the account use cases.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	List(ctx context.Context) ([]domain.Account, error)
	Get(ctx context.Context, id int64) (*domain.Account, error)
	Update(ctx context.Context, id int64, input UpdateAccountInput) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
	GetPermissions(ctx context.Context, id int64) (*Permissions, error)
	GetProfile(ctx context.Context, id int64) (*Profile, error)
}

package ports

import (
	"context"

	"github.com/userbase/accounts-api/internal/core/domain"
)

// AccountRepository is the persistence contract the account workflows depend on.
//
// Lookups return domain.ErrAccountNotFound when no record matches. Create and
// Update return domain.ErrEmailTaken when the unique email index rejects the
// write; the check must be atomic with respect to concurrent writers. Any other
// error is treated as a transient store failure.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id int64) (*domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) (*domain.Account, error)
	Delete(ctx context.Context, id int64) error
}

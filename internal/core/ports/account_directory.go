package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// AccountDirectory is the persistence boundary for accounts. Implementations
// must enforce uniqueness of username and email at the storage layer so that
// concurrent approvals of the same signup request create at most one account.
type AccountDirectory interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	SetRole(ctx context.Context, id string, role domain.Role) error
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListAccountsFilter) ([]*domain.Account, int64, error)
	CountByRole(ctx context.Context) (map[domain.Role]int64, error)
}

// ListAccountsFilter narrows and paginates account listings.
type ListAccountsFilter struct {
	Role   domain.Role
	Active *bool
	Page   int
	Limit  int
}

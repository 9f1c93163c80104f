package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// AccountPage is a paginated account listing with aggregate statistics.
type AccountPage struct {
	Accounts  []*domain.Account     `json:"accounts"`
	Total     int64                 `json:"total"`
	Page      int                   `json:"page"`
	Limit     int                   `json:"limit"`
	RoleStats map[domain.Role]int64 `json:"role_stats"`
}

// AccountService exposes account administration. Every operation is gated by
// the actor's role before any mutation is attempted.
type AccountService interface {
	List(ctx context.Context, actor domain.Role, filter ListAccountsFilter) (*AccountPage, error)
	ChangeRole(ctx context.Context, actor domain.Role, targetID string, newRole domain.Role) (*domain.Account, error)
	ToggleActive(ctx context.Context, actor domain.Role, targetID string) (*domain.Account, error)
	Delete(ctx context.Context, actor domain.Role, targetID string) error
	AvailableRoles(actor domain.Role) []domain.Role
}

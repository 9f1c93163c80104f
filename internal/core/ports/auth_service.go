package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	Logout(ctx context.Context, accountID string) error
}

package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// RoleResolver supplies the current actor's role. The result is always a
// defined role: an actor without a stored profile resolves to GUEST, so
// callers never need defensive existence checks.
//
// Implementations may cache: a role change is guaranteed to be visible on the
// next call after invalidation, not necessarily across concurrent in-flight
// requests.
type RoleResolver interface {
	CurrentRole(ctx context.Context, accountID string) (domain.Role, error)
	Invalidate(ctx context.Context, accountID string) error
}

package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

const defaultPageSize = 10

// AccountService implements account administration. Every mutation is gated
// twice: RequireAdminLike for the surface, then the specific permission
// predicate against the target's role. Denied actions mutate nothing.
type AccountService struct {
	directory ports.AccountDirectory
	roles     ports.RoleResolver
	log       zerolog.Logger
}

func NewAccountService(directory ports.AccountDirectory, roles ports.RoleResolver, log zerolog.Logger) *AccountService {
	return &AccountService{directory: directory, roles: roles, log: log}
}

// List returns a page of accounts with role statistics. Admin-like only.
func (s *AccountService) List(ctx context.Context, actor domain.Role, filter ports.ListAccountsFilter) (*ports.AccountPage, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}

	accounts, total, err := s.directory.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	stats, err := s.directory.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("account role stats: %w", err)
	}

	return &ports.AccountPage{
		Accounts:  accounts,
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
		RoleStats: stats,
	}, nil
}

// ChangeRole assigns newRole to the target account. The target's current role
// and the requested role are both checked before anything is written; the
// role cache entry for the target is invalidated afterwards so the change is
// visible on the next resolution.
func (s *AccountService) ChangeRole(ctx context.Context, actor domain.Role, targetID string, newRole domain.Role) (*domain.Account, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, err
	}
	if !newRole.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	target, err := s.directory.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if !domain.CanChangeRole(actor, target.Role, newRole) {
		return nil, domain.ErrForbidden
	}

	if err := s.directory.SetRole(ctx, target.ID, newRole); err != nil {
		return nil, fmt.Errorf("change role: %w", err)
	}
	if s.roles != nil {
		if err := s.roles.Invalidate(ctx, target.ID); err != nil {
			s.log.Warn().Err(err).Str("account_id", target.ID).Msg("role cache invalidation failed")
		}
	}

	s.log.Info().
		Str("account_id", target.ID).
		Str("username", target.Username).
		Str("old_role", string(target.Role)).
		Str("new_role", string(newRole)).
		Msg("account role changed")

	target.Role = newRole
	return target, nil
}

// ToggleActive flips the account's active flag. Admin-like only.
func (s *AccountService) ToggleActive(ctx context.Context, actor domain.Role, targetID string) (*domain.Account, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, err
	}

	target, err := s.directory.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.directory.SetActive(ctx, target.ID, !target.Active); err != nil {
		return nil, fmt.Errorf("toggle active: %w", err)
	}

	target.Active = !target.Active
	s.log.Info().Str("username", target.Username).Bool("active", target.Active).Msg("account status toggled")
	return target, nil
}

// Delete removes the target account. ENV_ADMIN accounts can never be deleted
// through this path.
func (s *AccountService) Delete(ctx context.Context, actor domain.Role, targetID string) error {
	if err := domain.RequireAdminLike(actor); err != nil {
		return err
	}

	target, err := s.directory.FindByID(ctx, targetID)
	if err != nil {
		return err
	}
	if !domain.CanDeleteAccount(actor, target.Role) {
		return domain.ErrForbidden
	}

	if err := s.directory.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if s.roles != nil {
		if err := s.roles.Invalidate(ctx, target.ID); err != nil {
			s.log.Warn().Err(err).Str("account_id", target.ID).Msg("role cache invalidation failed")
		}
	}

	s.log.Info().Str("username", target.Username).Str("role", string(target.Role)).Msg("account deleted")
	return nil
}

// AvailableRoles returns the roles the actor may assign. Never includes
// ENV_ADMIN.
func (s *AccountService) AvailableRoles(actor domain.Role) []domain.Role {
	return domain.AvailableRoles(actor)
}

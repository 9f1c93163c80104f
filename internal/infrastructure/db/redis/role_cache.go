package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

// roleTTL matches the short-lived per-user cache of the legacy deployment.
const roleTTL = 5 * time.Minute

// RoleCache is a read-through cache over the account directory implementing
// ports.RoleResolver. Key format: role:<account_id>.
//
// A role change becomes visible on the first CurrentRole call after
// Invalidate; concurrent in-flight requests may still observe the old role
// until their cached entry expires or is invalidated.
type RoleCache struct {
	client    *redis.Client
	directory ports.AccountDirectory
}

// NewRoleCache creates a RoleCache wrapping the given Redis client.
func NewRoleCache(client *redis.Client, directory ports.AccountDirectory) *RoleCache {
	return &RoleCache{client: client, directory: directory}
}

// CurrentRole resolves the account's role, serving from cache when possible.
// The result is total: an unknown account resolves to GUEST rather than an
// error, so callers never need defensive existence checks.
func (c *RoleCache) CurrentRole(ctx context.Context, accountID string) (domain.Role, error) {
	if accountID == "" {
		return domain.RoleGuest, nil
	}

	cached, err := c.client.Get(ctx, c.key(accountID)).Result()
	if err == nil {
		if role := domain.Role(cached); role.IsValid() {
			return role, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("role cache get: %w", err)
	}

	account, err := c.directory.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return domain.RoleGuest, nil
		}
		return "", err
	}

	if err := c.client.Set(ctx, c.key(accountID), string(account.Role), roleTTL).Err(); err != nil {
		return "", fmt.Errorf("role cache set: %w", err)
	}
	return account.Role, nil
}

// Invalidate drops the cached role. Called on login, logout, role change,
// and account deletion.
func (c *RoleCache) Invalidate(ctx context.Context, accountID string) error {
	if accountID == "" {
		return nil
	}
	if err := c.client.Del(ctx, c.key(accountID)).Err(); err != nil {
		return fmt.Errorf("role cache invalidate: %w", err)
	}
	return nil
}

func (c *RoleCache) key(accountID string) string {
	return fmt.Sprintf("role:%s", accountID)
}

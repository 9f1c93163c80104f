package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

// AdminSeed describes the deploy-time ENV_ADMIN account read from the
// process environment.
type AdminSeed struct {
	Username string
	Email    string
	Password string
	FullName string
}

// EnsureEnvAdmin seeds the break-glass ENV_ADMIN account if it does not
// exist yet. This is the only code path in the entire application that ever
// assigns the ENV_ADMIN role; every online operation forbids it.
//
// An existing account with the seed username is left untouched, so repeated
// startups are idempotent.
func EnsureEnvAdmin(ctx context.Context, directory ports.AccountDirectory, seed AdminSeed, log zerolog.Logger) error {
	if seed.Username == "" || seed.Password == "" {
		return fmt.Errorf("bootstrap: admin username and password are required")
	}

	_, err := directory.FindByUsername(ctx, seed.Username)
	if err == nil {
		log.Info().Str("username", seed.Username).Msg("env admin already exists")
		return nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return fmt.Errorf("bootstrap: lookup admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bootstrap: hash admin password: %w", err)
	}

	now := time.Now().UTC()
	admin := &domain.Account{
		ID:           uuid.NewString(),
		Username:     seed.Username,
		Email:        seed.Email,
		FullName:     seed.FullName,
		PasswordHash: string(hash),
		Role:         domain.RoleEnvAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := directory.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			// Another instance seeded it first.
			return nil
		}
		return fmt.Errorf("bootstrap: create admin: %w", err)
	}

	log.Info().Str("username", seed.Username).Msg("env admin created")
	return nil
}

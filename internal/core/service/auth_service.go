package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

// AuthService implements login and logout. Tokens carry the account id,
// username, and role as claims; the role claim is what the auth middleware
// feeds into permission checks.
type AuthService struct {
	directory ports.AccountDirectory
	roles     ports.RoleResolver
	log       zerolog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

func NewAuthService(directory ports.AccountDirectory, roles ports.RoleResolver, log zerolog.Logger, jwtSecret string, tokenTTL time.Duration) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{directory: directory, roles: roles, log: log, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.Account, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Unknown usernames and wrong passwords are indistinguishable to the
	// caller, so login failures cannot enumerate accounts.
	account, err := s.directory.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !account.Active {
		return "", nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	// Drop any stale cached role from a previous session.
	if s.roles != nil {
		if err := s.roles.Invalidate(ctx, account.ID); err != nil {
			s.log.Warn().Err(err).Str("account_id", account.ID).Msg("role cache invalidation failed on login")
		}
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, err
	}

	s.log.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("login")
	return token, account, nil
}

// Logout invalidates the account's cached role. The JWT itself stays valid
// until expiry; this only guarantees the next role resolution is fresh.
func (s *AuthService) Logout(ctx context.Context, accountID string) error {
	if s.roles == nil {
		return nil
	}
	return s.roles.Invalidate(ctx, accountID)
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":      account.ID,
		"username": account.Username,
		"role":     string(account.Role),
		"exp":      time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}

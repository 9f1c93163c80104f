package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetgate/meetgate/internal/core/domain"
)

const testSecret = "test-secret"

func newAuthFixture(t *testing.T) (*AuthService, *stubDirectory, *stubRoleResolver) {
	t.Helper()
	directory := newStubDirectory()
	resolver := &stubRoleResolver{}
	svc := NewAuthService(directory, resolver, zerolog.Nop(), testSecret, time.Hour)
	return svc, directory, resolver
}

func seedLoginAccount(t *testing.T, directory *stubDirectory, username, password string, active bool) *domain.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	account, err := directory.Create(context.Background(), &domain.Account{
		ID:           "acc-" + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Active:       active,
	})
	if err != nil {
		t.Fatalf("seed login account: %v", err)
	}
	return account
}

func TestAuthService_Login(t *testing.T) {
	svc, directory, resolver := newAuthFixture(t)
	account := seedLoginAccount(t, directory, "alice", "s3cret", true)

	token, got, err := svc.Login(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if got.ID != account.ID {
		t.Fatalf("account id = %s, want %s", got.ID, account.ID)
	}
	if len(resolver.invalidated) != 1 || resolver.invalidated[0] != account.ID {
		t.Fatalf("login must invalidate the cached role: %v", resolver.invalidated)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type %T", parsed.Claims)
	}
	if claims["sub"] != account.ID || claims["username"] != "alice" || claims["role"] != string(domain.RoleUser) {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

func TestAuthService_Login_BadPassword(t *testing.T) {
	svc, directory, _ := newAuthFixture(t)
	seedLoginAccount(t, directory, "alice", "s3cret", true)

	if _, _, err := svc.Login(context.Background(), "alice", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	svc, directory, _ := newAuthFixture(t)
	seedLoginAccount(t, directory, "alice", "s3cret", false)

	if _, _, err := svc.Login(context.Background(), "alice", "s3cret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive account, got %v", err)
	}
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	// Unknown usernames fail exactly like wrong passwords.
	if _, _, err := svc.Login(context.Background(), "nobody", "s3cret"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for empty credentials, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, resolver := newAuthFixture(t)

	if err := svc.Logout(context.Background(), "acc-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(resolver.invalidated) != 1 || resolver.invalidated[0] != "acc-1" {
		t.Fatalf("logout must invalidate the cached role: %v", resolver.invalidated)
	}
}

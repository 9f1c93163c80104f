package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// SubmitSignupInput carries a new signup application. PasswordHash is an
// opaque, pre-hashed credential; the workflow never sees a plaintext password.
type SubmitSignupInput struct {
	Email        string
	FullName     string
	Note         string
	PasswordHash string
}

// SignupService governs the signup request lifecycle. Every operation except
// Submit must be called on behalf of an admin-like actor.
type SignupService interface {
	Submit(ctx context.Context, input SubmitSignupInput) (*domain.SignupRequest, error)
	Get(ctx context.Context, actor domain.Role, id string) (*domain.SignupRequest, error)
	List(ctx context.Context, actor domain.Role, status domain.RequestStatus) ([]*domain.SignupRequest, *domain.RequestStats, error)
	Approve(ctx context.Context, actor domain.Role, id string, decider *domain.Account, note string) (*domain.SignupRequest, error)
	Reject(ctx context.Context, actor domain.Role, id string, decider *domain.Account, note string) (*domain.SignupRequest, error)
	ResetToPending(ctx context.Context, actor domain.Role, id string) (*domain.SignupRequest, error)
}

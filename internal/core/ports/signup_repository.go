package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// SignupRequestRepository is the persistence boundary for signup requests.
// Email must be unique at the storage layer.
type SignupRequestRepository interface {
	Create(ctx context.Context, req *domain.SignupRequest) (*domain.SignupRequest, error)
	FindByID(ctx context.Context, id string) (*domain.SignupRequest, error)
	FindByEmail(ctx context.Context, email string) (*domain.SignupRequest, error)
	Update(ctx context.Context, req *domain.SignupRequest) error
	List(ctx context.Context, status domain.RequestStatus) ([]*domain.SignupRequest, error)
	Stats(ctx context.Context) (*domain.RequestStats, error)
}

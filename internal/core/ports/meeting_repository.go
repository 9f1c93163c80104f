package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// MeetingRepository is the persistence boundary for meetings. Room names must
// be unique at the storage layer.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *domain.Meeting) (*domain.Meeting, error)
	FindByID(ctx context.Context, id string) (*domain.Meeting, error)
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]*domain.Meeting, error)
}

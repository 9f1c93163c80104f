package ports

import (
	"context"

	"github.com/meetgate/meetgate/internal/core/domain"
)

// MeetingResult is a meeting together with its join link.
type MeetingResult struct {
	Meeting  *domain.Meeting `json:"meeting"`
	JitsiURL string          `json:"jitsi_url"`
}

// MeetingService creates and resolves meetings. Creation requires a
// registered role; joining only requires the link, so Get is open to any
// authenticated actor.
type MeetingService interface {
	Create(ctx context.Context, actor domain.Role, ownerID string) (*MeetingResult, error)
	Get(ctx context.Context, id string) (*MeetingResult, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*MeetingResult, error)
}

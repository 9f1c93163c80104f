package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

const ownerMeetingsLimit = 10

// MeetingService creates Jitsi rooms and resolves join links.
type MeetingService struct {
	repo    ports.MeetingRepository
	baseURL string
	log     zerolog.Logger
}

func NewMeetingService(repo ports.MeetingRepository, baseURL string, log zerolog.Logger) *MeetingService {
	return &MeetingService{repo: repo, baseURL: baseURL, log: log}
}

// Create makes a new meeting owned by ownerID. Registered roles only: GUEST
// can join a room via its link but never create one.
func (s *MeetingService) Create(ctx context.Context, actor domain.Role, ownerID string) (*ports.MeetingResult, error) {
	if err := domain.RequireRegistered(actor); err != nil {
		return nil, err
	}

	meeting := &domain.Meeting{
		ID:        uuid.NewString(),
		Room:      generateRoom(),
		OwnerID:   ownerID,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, meeting)
	if err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}

	s.log.Info().Str("room", created.Room).Str("owner_id", ownerID).Msg("meeting created")
	return &ports.MeetingResult{Meeting: created, JitsiURL: created.JitsiURL(s.baseURL)}, nil
}

// Get resolves a meeting by id. Open to any authenticated actor: possession
// of the link is the only requirement to join.
func (s *MeetingService) Get(ctx context.Context, id string) (*ports.MeetingResult, error) {
	meeting, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.MeetingResult{Meeting: meeting, JitsiURL: meeting.JitsiURL(s.baseURL)}, nil
}

// ListByOwner returns the owner's most recent meetings for the dashboard.
func (s *MeetingService) ListByOwner(ctx context.Context, ownerID string) ([]*ports.MeetingResult, error) {
	meetings, err := s.repo.ListByOwner(ctx, ownerID, ownerMeetingsLimit)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}

	out := make([]*ports.MeetingResult, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, &ports.MeetingResult{Meeting: m, JitsiURL: m.JitsiURL(s.baseURL)})
	}
	return out, nil
}

// generateRoom returns a unique room name in the format room-XXXXXXXX.
func generateRoom() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: use current nanoseconds
		return fmt.Sprintf("room-%08x", time.Now().UnixNano()&0xFFFFFFFF)
	}
	return fmt.Sprintf("room-%08x", b)
}

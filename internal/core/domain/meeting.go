package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrMeetingNotFound = errors.New("meeting not found")
var ErrDuplicateRoom = errors.New("room already exists")

// Meeting is a Jitsi room owned by an account. Anyone holding the join link
// can enter the room; only registered roles can create one.
type Meeting struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// JitsiURL builds the join link for the meeting against the deployment base URL.
func (m *Meeting) JitsiURL(baseURL string) string {
	return fmt.Sprintf("%s/%s", baseURL, m.Room)
}

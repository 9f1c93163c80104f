package domain

import (
	"errors"
	"strings"
	"time"
)

// RequestStatus represents the lifecycle state of a signup request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

var ErrRequestNotFound = errors.New("signup request not found")
var ErrDuplicateEmail = errors.New("email already registered")

// IsValid reports whether s is a known request status.
func (s RequestStatus) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// SignupRequest is an unauthenticated party's application for an account.
// There is no terminal state: approved and rejected requests can both be
// reset back to pending.
type SignupRequest struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	FullName     string        `json:"full_name"`
	Note         string        `json:"note,omitempty"`
	PasswordHash string        `json:"-"`
	Status       RequestStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	DecidedAt    *time.Time    `json:"decided_at,omitempty"`
	DecidedByID  string        `json:"decided_by_id,omitempty"`
	DecisionNote string        `json:"decision_note,omitempty"`
}

// Decide stamps a decision onto the request. Re-deciding an already decided
// request simply re-stamps the metadata.
func (r *SignupRequest) Decide(status RequestStatus, deciderID, note string, at time.Time) {
	r.Status = status
	r.DecidedAt = &at
	r.DecidedByID = deciderID
	r.DecisionNote = note
}

// Reset returns the request to pending, clearing all decision metadata.
func (r *SignupRequest) Reset() {
	r.Status = StatusPending
	r.DecidedAt = nil
	r.DecidedByID = ""
	r.DecisionNote = ""
}

// CheckInvariant verifies that decision metadata is present exactly when the
// request has been decided: pending ⇔ decided_at is nil ⇔ decided_by is empty.
func (r *SignupRequest) CheckInvariant() bool {
	pending := r.Status == StatusPending
	return pending == (r.DecidedAt == nil) && pending == (r.DecidedByID == "")
}

// DerivedUsername returns the account username derived from the request's
// email: the local part before the '@'.
func (r *SignupRequest) DerivedUsername() string {
	name, _, _ := strings.Cut(r.Email, "@")
	return name
}

// RequestStats aggregates request counts by status for the admin list view.
type RequestStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

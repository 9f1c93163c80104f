package service

import (
	"context"
	"sync"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub collaborators shared by the service tests
// ---------------------------------------------------------------------------

type stubDirectory struct {
	mu        sync.Mutex
	byID      map[string]*domain.Account
	createErr error // if set, Create returns this error
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (d *stubDirectory) Create(_ context.Context, account *domain.Account) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.createErr != nil {
		return nil, d.createErr
	}
	for _, a := range d.byID {
		if a.Username == account.Username || a.Email == account.Email {
			return nil, domain.ErrAccountExists
		}
	}
	d.byID[account.ID] = cloneAccount(account)
	return cloneAccount(account), nil
}

func (d *stubDirectory) FindByID(_ context.Context, id string) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a, ok := d.byID[id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrAccountNotFound
}

func (d *stubDirectory) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range d.byID {
		if a.Username == username {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (d *stubDirectory) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, a := range d.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (d *stubDirectory) SetRole(_ context.Context, id string, role domain.Role) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Role = role
	return nil
}

func (d *stubDirectory) SetActive(_ context.Context, id string, active bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.Active = active
	return nil
}

func (d *stubDirectory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(d.byID, id)
	return nil
}

func (d *stubDirectory) List(_ context.Context, filter ports.ListAccountsFilter) ([]*domain.Account, int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*domain.Account
	for _, a := range d.byID {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.Active != nil && a.Active != *filter.Active {
			continue
		}
		out = append(out, cloneAccount(a))
	}
	return out, int64(len(out)), nil
}

func (d *stubDirectory) CountByRole(_ context.Context) (map[domain.Role]int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	stats := make(map[domain.Role]int64, len(domain.Roles))
	for _, a := range d.byID {
		stats[a.Role]++
	}
	return stats, nil
}

type stubSignupRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.SignupRequest
}

func newStubSignupRepo() *stubSignupRepo {
	return &stubSignupRepo{byID: make(map[string]*domain.SignupRequest)}
}

func cloneRequest(r *domain.SignupRequest) *domain.SignupRequest {
	if r == nil {
		return nil
	}
	clone := *r
	if r.DecidedAt != nil {
		at := *r.DecidedAt
		clone.DecidedAt = &at
	}
	return &clone
}

func (s *stubSignupRepo) Create(_ context.Context, req *domain.SignupRequest) (*domain.SignupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byID {
		if r.Email == req.Email {
			return nil, domain.ErrDuplicateEmail
		}
	}
	s.byID[req.ID] = cloneRequest(req)
	return cloneRequest(req), nil
}

func (s *stubSignupRepo) FindByID(_ context.Context, id string) (*domain.SignupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.byID[id]; ok {
		return cloneRequest(r), nil
	}
	return nil, domain.ErrRequestNotFound
}

func (s *stubSignupRepo) FindByEmail(_ context.Context, email string) (*domain.SignupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.byID {
		if r.Email == email {
			return cloneRequest(r), nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (s *stubSignupRepo) Update(_ context.Context, req *domain.SignupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[req.ID]; !ok {
		return domain.ErrRequestNotFound
	}
	s.byID[req.ID] = cloneRequest(req)
	return nil
}

func (s *stubSignupRepo) List(_ context.Context, status domain.RequestStatus) ([]*domain.SignupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.SignupRequest
	for _, r := range s.byID {
		if status != "" && r.Status != status {
			continue
		}
		out = append(out, cloneRequest(r))
	}
	return out, nil
}

func (s *stubSignupRepo) Stats(_ context.Context) (*domain.RequestStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &domain.RequestStats{}
	for _, r := range s.byID {
		stats.Total++
		switch r.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusApproved:
			stats.Approved++
		case domain.StatusRejected:
			stats.Rejected++
		}
	}
	return stats, nil
}

type stubMeetingRepo struct {
	mu   sync.Mutex
	byID map[string]*domain.Meeting
}

func newStubMeetingRepo() *stubMeetingRepo {
	return &stubMeetingRepo{byID: make(map[string]*domain.Meeting)}
}

func (s *stubMeetingRepo) Create(_ context.Context, meeting *domain.Meeting) (*domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.byID {
		if m.Room == meeting.Room {
			return nil, domain.ErrDuplicateRoom
		}
	}
	clone := *meeting
	s.byID[meeting.ID] = &clone
	return meeting, nil
}

func (s *stubMeetingRepo) FindByID(_ context.Context, id string) (*domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.byID[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, domain.ErrMeetingNotFound
}

func (s *stubMeetingRepo) ListByOwner(_ context.Context, ownerID string, limit int) ([]*domain.Meeting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Meeting
	for _, m := range s.byID {
		if m.OwnerID != ownerID {
			continue
		}
		clone := *m
		out = append(out, &clone)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubRoleResolver struct {
	mu          sync.Mutex
	invalidated []string
}

func (s *stubRoleResolver) CurrentRole(_ context.Context, _ string) (domain.Role, error) {
	return domain.RoleGuest, nil
}

func (s *stubRoleResolver) Invalidate(_ context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, accountID)
	return nil
}

type stubNotifier struct {
	mu      sync.Mutex
	notices []DecisionNotice
}

func (s *stubNotifier) Notify(notice DecisionNotice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, notice)
}

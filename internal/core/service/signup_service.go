package service

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

// DecisionNotice describes a signup decision to be delivered to the applicant.
type DecisionNotice struct {
	Email        string
	FullName     string
	Status       domain.RequestStatus
	Note         string
	TempPassword string
}

// DecisionNotifier delivers decision notices asynchronously. Delivery is
// fire-and-forget; the workflow never blocks on it.
type DecisionNotifier interface {
	Notify(notice DecisionNotice)
}

// CredentialPolicy produces the credential for an account created on
// approval. It returns the plaintext (for one-time delivery to the applicant)
// and the hash to store. The request's stored password hash is audit data
// only and is never reused to authenticate.
type CredentialPolicy func() (plaintext, hash string, err error)

// SignupService implements the signup request workflow.
type SignupService struct {
	requests   ports.SignupRequestRepository
	accounts   ports.AccountDirectory
	notifier   DecisionNotifier
	credential CredentialPolicy
	log        zerolog.Logger
	now        func() time.Time
}

func NewSignupService(
	requests ports.SignupRequestRepository,
	accounts ports.AccountDirectory,
	notifier DecisionNotifier,
	log zerolog.Logger,
) *SignupService {
	return &SignupService{
		requests:   requests,
		accounts:   accounts,
		notifier:   notifier,
		credential: TempPasswordCredential,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// SetCredentialPolicy overrides how credentials for approved accounts are
// generated. The default issues a random temporary password.
func (s *SignupService) SetCredentialPolicy(p CredentialPolicy) {
	if p != nil {
		s.credential = p
	}
}

// Submit records a new pending signup request. The email must not already
// belong to a request or an account.
func (s *SignupService) Submit(ctx context.Context, input ports.SubmitSignupInput) (*domain.SignupRequest, error) {
	if _, err := s.requests.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrRequestNotFound) {
		return nil, fmt.Errorf("submit: %w", err)
	}
	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("submit: %w", err)
	}

	req := &domain.SignupRequest{
		ID:           uuid.NewString(),
		Email:        input.Email,
		FullName:     input.FullName,
		Note:         input.Note,
		PasswordHash: input.PasswordHash,
		Status:       domain.StatusPending,
		CreatedAt:    s.now(),
	}

	created, err := s.requests.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}

	s.log.Info().Str("request_id", created.ID).Str("email", created.Email).Msg("signup request submitted")
	return created, nil
}

// Get returns a single request. Admin-like only.
func (s *SignupService) Get(ctx context.Context, actor domain.Role, id string) (*domain.SignupRequest, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, err
	}
	return s.requests.FindByID(ctx, id)
}

// List returns requests, optionally filtered by status, plus aggregate stats.
// Admin-like only.
func (s *SignupService) List(ctx context.Context, actor domain.Role, status domain.RequestStatus) ([]*domain.SignupRequest, *domain.RequestStats, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, nil, err
	}
	reqs, err := s.requests.List(ctx, status)
	if err != nil {
		return nil, nil, fmt.Errorf("list requests: %w", err)
	}
	stats, err := s.requests.Stats(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("request stats: %w", err)
	}
	return reqs, stats, nil
}

// Approve stamps an approval onto the request and creates the account if the
// derived username does not exist yet. Re-approving an approved request
// re-stamps the decision metadata without creating a second account.
func (s *SignupService) Approve(ctx context.Context, actor domain.Role, id string, decider *domain.Account, note string) (*domain.SignupRequest, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Decide(domain.StatusApproved, decider.ID, note, s.now())
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}

	tempPassword, err := s.ensureAccount(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("approve: %w", err)
	}

	s.log.Info().
		Str("request_id", req.ID).
		Str("email", req.Email).
		Str("decided_by", decider.Username).
		Msg("signup request approved")

	if s.notifier != nil {
		s.notifier.Notify(DecisionNotice{
			Email:        req.Email,
			FullName:     req.FullName,
			Status:       domain.StatusApproved,
			Note:         note,
			TempPassword: tempPassword,
		})
	}
	return req, nil
}

// Reject stamps a rejection onto the request. Never creates an account.
func (s *SignupService) Reject(ctx context.Context, actor domain.Role, id string, decider *domain.Account, note string) (*domain.SignupRequest, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Decide(domain.StatusRejected, decider.ID, note, s.now())
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("reject: %w", err)
	}

	s.log.Info().
		Str("request_id", req.ID).
		Str("email", req.Email).
		Str("decided_by", decider.Username).
		Msg("signup request rejected")

	if s.notifier != nil {
		s.notifier.Notify(DecisionNotice{
			Email:    req.Email,
			FullName: req.FullName,
			Status:   domain.StatusRejected,
			Note:     note,
		})
	}
	return req, nil
}

// ResetToPending clears the decision metadata. Any account created by a
// previous approval is left untouched.
func (s *SignupService) ResetToPending(ctx context.Context, actor domain.Role, id string) (*domain.SignupRequest, error) {
	if err := domain.RequireAdminLike(actor); err != nil {
		return nil, err
	}

	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.Reset()
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}

	s.log.Info().Str("request_id", req.ID).Str("email", req.Email).Msg("signup request reset to pending")
	return req, nil
}

// ensureAccount creates the account for an approved request unless one with
// the derived username already exists. The storage layer's unique indexes on
// username and email make creation at-most-once even under concurrent
// approvals: the second writer gets ErrAccountExists, which is not an error
// here. Returns the temporary password when an account was created.
func (s *SignupService) ensureAccount(ctx context.Context, req *domain.SignupRequest) (string, error) {
	username := req.DerivedUsername()

	_, err := s.accounts.FindByUsername(ctx, username)
	if err == nil {
		return "", nil
	}
	if !errors.Is(err, domain.ErrAccountNotFound) {
		return "", err
	}

	plaintext, hash, err := s.credential()
	if err != nil {
		return "", err
	}

	now := s.now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			// Lost the race against a concurrent approve; the account exists.
			return "", nil
		}
		return "", err
	}

	s.log.Info().Str("username", username).Str("email", req.Email).Msg("account created from approved request")
	return plaintext, nil
}

// TempPasswordCredential is the default credential policy: a random temporary
// password, bcrypt-hashed for storage.
func TempPasswordCredential() (string, string, error) {
	b := make([]byte, 9)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("generate credential: %w", err)
	}
	plaintext := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("hash credential: %w", err)
	}
	return plaintext, string(hash), nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/meetgate/meetgate/internal/core/domain"
	"github.com/meetgate/meetgate/internal/core/ports"
)

func newSignupFixture() (*SignupService, *stubSignupRepo, *stubDirectory, *stubNotifier) {
	requests := newStubSignupRepo()
	directory := newStubDirectory()
	notifier := &stubNotifier{}
	svc := NewSignupService(requests, directory, notifier, zerolog.Nop())
	return svc, requests, directory, notifier
}

func envAdmin() *domain.Account {
	return &domain.Account{ID: "admin-1", Username: "admin", Role: domain.RoleEnvAdmin}
}

func TestSignupService_Submit(t *testing.T) {
	svc, _, _, _ := newSignupFixture()

	req, err := svc.Submit(context.Background(), ports.SubmitSignupInput{
		Email:        "alice@example.com",
		FullName:     "Alice Doe",
		PasswordHash: "hash1",
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if req.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", req.Status)
	}
	if req.DecidedAt != nil || req.DecidedByID != "" {
		t.Fatalf("new request must not carry decision metadata: %+v", req)
	}
	if !req.CheckInvariant() {
		t.Fatal("invariant violated after submit")
	}
}

func TestSignupService_Submit_DuplicateRequestEmail(t *testing.T) {
	svc, requests, _, _ := newSignupFixture()

	if _, err := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "bob@example.com", FullName: "Bob"}); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "bob@example.com", FullName: "Bobby"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	all, _ := requests.List(context.Background(), "")
	if len(all) != 1 {
		t.Fatalf("expected 1 request, got %d", len(all))
	}
}

func TestSignupService_Submit_DuplicateAccountEmail(t *testing.T) {
	svc, _, directory, _ := newSignupFixture()

	_, _ = directory.Create(context.Background(), &domain.Account{
		ID: "acc-1", Username: "carol", Email: "carol@example.com", Role: domain.RoleUser,
	})

	if _, err := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "carol@example.com", FullName: "Carol"}); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestSignupService_Approve_CreatesUserAccount(t *testing.T) {
	svc, _, directory, notifier := newSignupFixture()

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{
		Email:        "alice@example.com",
		FullName:     "Alice Doe",
		PasswordHash: "hash1",
	})

	approved, err := svc.Approve(context.Background(), domain.RoleEnvAdmin, req.ID, envAdmin(), "ok")
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if approved.Status != domain.StatusApproved {
		t.Fatalf("status = %s, want approved", approved.Status)
	}
	if approved.DecidedByID != "admin-1" || approved.DecisionNote != "ok" || approved.DecidedAt == nil {
		t.Fatalf("decision metadata missing: %+v", approved)
	}
	if !approved.CheckInvariant() {
		t.Fatal("invariant violated after approve")
	}

	account, err := directory.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected account alice: %v", err)
	}
	if account.Email != "alice@example.com" || account.Role != domain.RoleUser || !account.Active {
		t.Fatalf("unexpected account: %+v", account)
	}
	// The account never authenticates with the request's stored hash.
	if account.PasswordHash == "hash1" {
		t.Fatal("stored request hash must not be reused as the account credential")
	}

	if len(notifier.notices) != 1 || notifier.notices[0].Status != domain.StatusApproved {
		t.Fatalf("expected one approval notice, got %+v", notifier.notices)
	}
	if notifier.notices[0].TempPassword == "" {
		t.Fatal("approval notice should carry the temporary password")
	}
}

func TestSignupService_Approve_Idempotent(t *testing.T) {
	svc, _, directory, _ := newSignupFixture()

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "alice@example.com", FullName: "Alice"})

	first, err := svc.Approve(context.Background(), domain.RoleEnvAdmin, req.ID, envAdmin(), "ok")
	if err != nil {
		t.Fatalf("first approve failed: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := svc.Approve(context.Background(), domain.RoleEnvAdmin, req.ID, &domain.Account{ID: "admin-2", Username: "other", Role: domain.RoleWebAdmin}, "still ok")
	if err != nil {
		t.Fatalf("second approve failed: %v", err)
	}

	// Metadata is re-stamped.
	if second.DecidedByID != "admin-2" || second.DecisionNote != "still ok" {
		t.Fatalf("second approve did not re-stamp metadata: %+v", second)
	}
	if !second.DecidedAt.After(*first.DecidedAt) {
		t.Fatal("second approve should carry a later decision timestamp")
	}

	// Exactly one account exists.
	accounts, _, _ := directory.List(context.Background(), ports.ListAccountsFilter{})
	if len(accounts) != 1 {
		t.Fatalf("expected exactly one account, got %d", len(accounts))
	}
}

func TestSignupService_Approve_LosesRaceGracefully(t *testing.T) {
	svc, _, directory, _ := newSignupFixture()

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "alice@example.com", FullName: "Alice"})

	// Simulate a concurrent approve that inserted the account between our
	// existence check and insert: the directory reports a duplicate.
	directory.createErr = domain.ErrAccountExists

	if _, err := svc.Approve(context.Background(), domain.RoleEnvAdmin, req.ID, envAdmin(), "ok"); err != nil {
		t.Fatalf("approve should tolerate losing the creation race: %v", err)
	}
}

func TestSignupService_Reject_NeverCreatesAccount(t *testing.T) {
	svc, _, directory, notifier := newSignupFixture()

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "dave@example.com", FullName: "Dave"})

	rejected, err := svc.Reject(context.Background(), domain.RoleWebAdmin, req.ID, &domain.Account{ID: "admin-3", Username: "webadmin", Role: domain.RoleWebAdmin}, "no")
	if err != nil {
		t.Fatalf("Reject returned error: %v", err)
	}
	if rejected.Status != domain.StatusRejected || rejected.DecidedByID != "admin-3" {
		t.Fatalf("unexpected rejection: %+v", rejected)
	}
	if !rejected.CheckInvariant() {
		t.Fatal("invariant violated after reject")
	}

	if _, err := directory.FindByUsername(context.Background(), "dave"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatal("reject must not create an account")
	}
	if len(notifier.notices) != 1 || notifier.notices[0].TempPassword != "" {
		t.Fatalf("rejection notice should carry no credential: %+v", notifier.notices)
	}
}

func TestSignupService_RejectAfterApprove_AccountSurvives(t *testing.T) {
	svc, _, directory, _ := newSignupFixture()

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "alice@example.com", FullName: "Alice Doe", PasswordHash: "hash1"})
	if _, err := svc.Approve(context.Background(), domain.RoleEnvAdmin, req.ID, envAdmin(), "ok"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	rejecter := &domain.Account{ID: "admin-9", Username: "rejecter", Role: domain.RoleWebAdmin}
	rejected, err := svc.Reject(context.Background(), domain.RoleWebAdmin, req.ID, rejecter, "on second thought")
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != domain.StatusRejected || rejected.DecidedByID != "admin-9" {
		t.Fatalf("unexpected state: %+v", rejected)
	}

	// The previously created account is untouched.
	account, err := directory.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("account alice should still exist: %v", err)
	}
	if account.Role != domain.RoleUser || !account.Active {
		t.Fatalf("account alice should be unaffected: %+v", account)
	}
}

func TestSignupService_ResetToPending_RoundTrip(t *testing.T) {
	svc, _, directory, _ := newSignupFixture()

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "alice@example.com", FullName: "Alice"})
	if _, err := svc.Approve(context.Background(), domain.RoleEnvAdmin, req.ID, envAdmin(), "ok"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	reset, err := svc.ResetToPending(context.Background(), domain.RoleEnvAdmin, req.ID)
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if reset.Status != domain.StatusPending || reset.DecidedAt != nil || reset.DecidedByID != "" || reset.DecisionNote != "" {
		t.Fatalf("reset did not clear decision metadata: %+v", reset)
	}
	if !reset.CheckInvariant() {
		t.Fatal("invariant violated after reset")
	}

	// Created account survives the reset.
	if _, err := directory.FindByUsername(context.Background(), "alice"); err != nil {
		t.Fatalf("account should survive reset: %v", err)
	}
}

func TestSignupService_AdminGates(t *testing.T) {
	svc, requests, _, _ := newSignupFixture()

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "eve@example.com", FullName: "Eve"})

	for _, actor := range []domain.Role{domain.RoleUser, domain.RoleGuest} {
		if _, err := svc.Approve(context.Background(), actor, req.ID, envAdmin(), ""); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Approve by %s: expected ErrForbidden, got %v", actor, err)
		}
		if _, err := svc.Reject(context.Background(), actor, req.ID, envAdmin(), ""); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Reject by %s: expected ErrForbidden, got %v", actor, err)
		}
		if _, err := svc.ResetToPending(context.Background(), actor, req.ID); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Reset by %s: expected ErrForbidden, got %v", actor, err)
		}
		if _, _, err := svc.List(context.Background(), actor, ""); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("List by %s: expected ErrForbidden, got %v", actor, err)
		}
	}

	// Denied operations must not have mutated the request.
	stored, _ := requests.FindByID(context.Background(), req.ID)
	if stored.Status != domain.StatusPending {
		t.Fatalf("denied operations mutated the request: %+v", stored)
	}
}

func TestSignupService_List_StatsAndFilter(t *testing.T) {
	svc, _, _, _ := newSignupFixture()

	a, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "a@example.com", FullName: "A"})
	b, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "b@example.com", FullName: "B"})
	_, _ = svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "c@example.com", FullName: "C"})

	_, _ = svc.Approve(context.Background(), domain.RoleEnvAdmin, a.ID, envAdmin(), "")
	_, _ = svc.Reject(context.Background(), domain.RoleEnvAdmin, b.ID, envAdmin(), "")

	pending, stats, err := svc.List(context.Background(), domain.RoleWebAdmin, domain.StatusPending)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending request, got %d", len(pending))
	}
	if stats.Total != 3 || stats.Pending != 1 || stats.Approved != 1 || stats.Rejected != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestSignupService_CustomCredentialPolicy(t *testing.T) {
	svc, _, directory, _ := newSignupFixture()
	svc.SetCredentialPolicy(func() (string, string, error) {
		return "temp-secret", "hashed-temp-secret", nil
	})

	req, _ := svc.Submit(context.Background(), ports.SubmitSignupInput{Email: "alice@example.com", FullName: "Alice"})
	if _, err := svc.Approve(context.Background(), domain.RoleEnvAdmin, req.ID, envAdmin(), ""); err != nil {
		t.Fatalf("approve failed: %v", err)
	}

	account, _ := directory.FindByUsername(context.Background(), "alice")
	if account.PasswordHash != "hashed-temp-secret" {
		t.Fatalf("credential policy not applied: %q", account.PasswordHash)
	}
}

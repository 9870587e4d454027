package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"
)

func TestApply_CreatesPendingProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.memberships.Apply(ctx, ApplyRequest{
		Email:       "new@example.com",
		DisplayName: "New Member",
		TierName:    "basic",
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if profile.Status != model.StatusPending {
		t.Errorf("expected pending, got %q", profile.Status)
	}
	if profile.TierName != "basic" {
		t.Errorf("expected tier basic, got %q", profile.TierName)
	}
	if profile.ApprovedAt != nil {
		t.Error("fresh application must not carry an approval timestamp")
	}
	if profile.AppliedAt == "" {
		t.Error("applied_at must be stamped")
	}
}

func TestApply_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  ApplyRequest
	}{
		{"missing email", ApplyRequest{TierName: "basic"}},
		{"missing tier", ApplyRequest{Email: "a@example.com"}},
		{"malformed email", ApplyRequest{Email: "not-an-email", TierName: "basic"}},
		{"unknown tier", ApplyRequest{Email: "a@example.com", TierName: "platinum"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.memberships.Apply(ctx, tc.req); !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApply_ReapplicationResetsToPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := env.approvedMember(t, "member@example.com", "basic")
	before, err := env.memberships.GetProfileByEmail(ctx, email)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}

	// Re-apply for a different tier while approved.
	after, err := env.memberships.Apply(ctx, ApplyRequest{Email: email, TierName: "premium"})
	if err != nil {
		t.Fatalf("re-apply failed: %v", err)
	}

	if after.ID != before.ID {
		t.Error("re-application must reuse the existing profile, not create a second one")
	}
	if after.Status != model.StatusPending {
		t.Errorf("re-application must demote to pending, got %q", after.Status)
	}
	if after.TierName != "premium" {
		t.Errorf("re-application must record the new tier choice, got %q", after.TierName)
	}

	profiles, total, err := env.memberships.ListProfiles(ctx, 0, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(profiles) != 1 {
		t.Errorf("expected exactly one profile for the email, got %d", total)
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		path    []string // statuses to walk through before the attempt
		to      string
		allowed bool
	}{
		{"pending to approved", nil, model.StatusApproved, true},
		{"pending to rejected", nil, model.StatusRejected, true},
		{"pending to suspended", nil, model.StatusSuspended, false},
		{"approved to suspended", []string{model.StatusApproved}, model.StatusSuspended, true},
		{"approved to rejected", []string{model.StatusApproved}, model.StatusRejected, false},
		{"approved to pending", []string{model.StatusApproved}, model.StatusPending, false},
		{"suspended to approved", []string{model.StatusApproved, model.StatusSuspended}, model.StatusApproved, true},
		{"suspended to rejected", []string{model.StatusApproved, model.StatusSuspended}, model.StatusRejected, false},
		{"rejected to approved", []string{model.StatusRejected}, model.StatusApproved, false},
		{"same status no-op", []string{model.StatusApproved}, model.StatusApproved, true},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			email := "member" + string(rune('a'+i)) + "@example.com"
			profile, err := env.memberships.Apply(ctx, ApplyRequest{Email: email, TierName: "basic"})
			if err != nil {
				t.Fatalf("apply failed: %v", err)
			}
			for _, s := range tc.path {
				status := s
				if _, err := env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{Status: &status}); err != nil {
					t.Fatalf("walking to %s failed: %v", s, err)
				}
			}

			_, err = env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{Status: &tc.to})
			if tc.allowed && err != nil {
				t.Errorf("expected transition allowed, got %v", err)
			}
			if !tc.allowed && !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateStatus_ApprovalTimestamp(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.memberships.Apply(ctx, ApplyRequest{Email: "member@example.com", TierName: "basic"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	approved := model.StatusApproved
	p, err := env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{Status: &approved})
	if err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if p.ApprovedAt == nil {
		t.Fatal("approval must stamp approved_at")
	}
	first := *p.ApprovedAt

	// Suspend and re-approve: the original approval timestamp survives.
	suspended := model.StatusSuspended
	if _, err := env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{Status: &suspended}); err != nil {
		t.Fatalf("suspend failed: %v", err)
	}
	p, err = env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{Status: &approved})
	if err != nil {
		t.Fatalf("re-approve failed: %v", err)
	}
	if p.ApprovedAt == nil || *p.ApprovedAt != first {
		t.Errorf("re-approval after suspension must keep the original timestamp: %v vs %v", p.ApprovedAt, first)
	}
}

func TestUpdateStatus_TierReassignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := env.approvedMember(t, "member@example.com", "basic")
	profile, err := env.memberships.GetProfileByEmail(ctx, email)
	if err != nil {
		t.Fatalf("get profile failed: %v", err)
	}
	premium := env.tierByName(t, "premium")

	tierID := premium.ID.String()
	p, err := env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{MembershipTierID: &tierID})
	if err != nil {
		t.Fatalf("tier reassignment failed: %v", err)
	}
	if p.TierName != "premium" {
		t.Errorf("expected premium, got %q", p.TierName)
	}
	if p.Status != model.StatusApproved {
		t.Errorf("tier change alone must not touch status, got %q", p.Status)
	}
}

func TestUpdateStatus_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	profile, err := env.memberships.Apply(ctx, ApplyRequest{Email: "member@example.com", TierName: "basic"})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	if _, err := env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("empty update: expected validation error, got %v", err)
	}

	bogus := "archived"
	if _, err := env.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{Status: &bogus}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("unknown status: expected validation error, got %v", err)
	}

	approved := model.StatusApproved
	if _, err := env.memberships.UpdateStatus(ctx, "not-a-uuid", UpdateStatusRequest{Status: &approved}); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("bad profile id: expected validation error, got %v", err)
	}
}

func TestBindIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := env.approvedMember(t, "member@example.com", "basic")

	// First login binds.
	p, err := env.memberships.BindIdentity(ctx, email, "auth-user-1")
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if p == nil || p.UserID == nil || *p.UserID != "auth-user-1" {
		t.Fatalf("expected profile bound to auth-user-1, got %+v", p)
	}

	// Same identity again: still elevated.
	p, err = env.memberships.BindIdentity(ctx, email, "auth-user-1")
	if err != nil || p == nil {
		t.Fatalf("re-bind by same identity failed: %v %+v", err, p)
	}

	// A different identity with the same email gets nothing.
	p, err = env.memberships.BindIdentity(ctx, email, "auth-user-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("profile bound to another identity must not elevate this login")
	}
}

func TestBindIdentity_RequiresApproval(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.memberships.Apply(ctx, ApplyRequest{Email: "pending@example.com", TierName: "basic"}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	p, err := env.memberships.BindIdentity(ctx, "pending@example.com", "auth-user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != nil {
		t.Error("pending profile must not bind")
	}

	// No profile at all.
	p, err = env.memberships.BindIdentity(ctx, "stranger@example.com", "auth-user-9")
	if err != nil || p != nil {
		t.Errorf("unknown email must bind nothing, got %+v err=%v", p, err)
	}
}

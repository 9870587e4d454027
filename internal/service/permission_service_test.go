package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

func TestResolve_DefaultDeny(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createCategory(t, "tools")

	// Unknown email: no profile at all.
	set, err := env.permissions.Resolve(ctx, "nobody@example.com", false, "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.CanView || set.CanEdit || set.CanDelete {
		t.Errorf("unknown actor should get no access, got %+v", set)
	}

	// Approved member whose tier has no matrix row for the category.
	email := env.approvedMember(t, "member@example.com", "basic")
	set, err = env.permissions.Resolve(ctx, email, false, "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.CanView || set.CanEdit || set.CanDelete {
		t.Errorf("missing matrix row should deny everything, got %+v", set)
	}
}

func TestResolve_NonApprovedProfileDenied(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := env.createCategory(t, "tools")
	basic := env.tierByName(t, "basic")

	// Grant the tier full view access, then check a merely pending member.
	_, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionView,
		Value:            true,
	})
	if err != nil {
		t.Fatalf("set permission failed: %v", err)
	}

	if _, err := env.memberships.Apply(ctx, ApplyRequest{Email: "pending@example.com", TierName: "basic"}); err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	set, err := env.permissions.Resolve(ctx, "pending@example.com", false, "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.CanView {
		t.Error("pending profile must not inherit tier grants")
	}
}

func TestResolve_FlagsHonoredLiterally(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := env.createCategory(t, "tools")
	basic := env.tierByName(t, "basic")
	email := env.approvedMember(t, "member@example.com", "basic")

	// edit granted without view: the stored row is the whole truth.
	_, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionEdit,
		Value:            true,
	})
	if err != nil {
		t.Fatalf("set permission failed: %v", err)
	}

	set, err := env.permissions.Resolve(ctx, email, false, "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if set.CanView {
		t.Error("can_edit must not imply can_view")
	}
	if !set.CanEdit {
		t.Error("expected can_edit true")
	}
	if set.CanDelete {
		t.Error("expected can_delete false")
	}
}

func TestResolve_AdminOverride(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := env.createCategory(t, "tools")
	admin := env.tierByName(t, model.ReservedAdminTier)

	// An explicit all-false row for the admin tier must not matter.
	_, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: admin.ID.String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionView,
		Value:            false,
	})
	if err != nil {
		t.Fatalf("set permission failed: %v", err)
	}

	set, err := env.permissions.Resolve(ctx, "admin@example.com", true, "tools")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !set.CanView || !set.CanEdit || !set.CanDelete {
		t.Errorf("global admin must get full access regardless of matrix rows, got %+v", set)
	}
}

func TestSetPermission_CreatesZeroInitializedRow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := env.createCategory(t, "tools")
	basic := env.tierByName(t, "basic")

	row, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionDelete,
		Value:            true,
	})
	if err != nil {
		t.Fatalf("set permission failed: %v", err)
	}
	if row.CanView || row.CanEdit {
		t.Errorf("fresh row must have only the named flag set, got %+v", row)
	}
	if !row.CanDelete {
		t.Error("expected can_delete true")
	}
}

func TestSetPermission_UpdatePreservesOtherFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := env.createCategory(t, "tools")
	basic := env.tierByName(t, "basic")

	for _, p := range []model.PermissionType{model.PermissionView, model.PermissionEdit} {
		_, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
			MembershipTierID: basic.ID.String(),
			CategoryID:       cat.ID,
			Permission:       p,
			Value:            true,
		})
		if err != nil {
			t.Fatalf("set %s failed: %v", p, err)
		}
	}

	// Revoking edit must leave view standing.
	row, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionEdit,
		Value:            false,
	})
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if !row.CanView {
		t.Error("revoking edit clobbered can_view")
	}
	if row.CanEdit {
		t.Error("expected can_edit false after revoke")
	}

	// And the matrix holds exactly one row for the pair.
	rows, err := env.permissions.ListMatrix(ctx, basic.ID.String())
	if err != nil {
		t.Fatalf("list matrix failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("expected a single matrix row, got %d", len(rows))
	}
}

func TestSetPermission_UnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := env.createCategory(t, "tools")
	basic := env.tierByName(t, "basic")

	_, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: uuid.New().String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionView,
		Value:            true,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown tier: expected not-found, got %v", err)
	}

	_, err = env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       uuid.New().String(),
		Permission:       model.PermissionView,
		Value:            true,
	})
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown category: expected not-found, got %v", err)
	}

	_, err = env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionType("publish"),
		Value:            true,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("unknown permission type: expected validation error, got %v", err)
	}
}

func TestCheckPermission(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cat := env.createCategory(t, "tools")
	basic := env.tierByName(t, "basic")
	email := env.approvedMember(t, "member@example.com", "basic")

	_, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       cat.ID,
		Permission:       model.PermissionView,
		Value:            true,
	})
	if err != nil {
		t.Fatalf("set permission failed: %v", err)
	}

	ok, err := env.permissions.CheckPermission(ctx, email, false, "tools", model.PermissionView)
	if err != nil || !ok {
		t.Errorf("expected view allowed, got ok=%v err=%v", ok, err)
	}
	ok, err = env.permissions.CheckPermission(ctx, email, false, "tools", model.PermissionDelete)
	if err != nil || ok {
		t.Errorf("expected delete denied, got ok=%v err=%v", ok, err)
	}

	if _, err := env.permissions.CheckPermission(ctx, email, false, "tools", "publish"); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("invalid permission type: expected validation error, got %v", err)
	}

	// Unknown category resolves to an error, which callers treat as deny.
	ok, err = env.permissions.CheckPermission(ctx, email, false, "no-such-category", model.PermissionView)
	if ok {
		t.Error("unknown category must not grant access")
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestListMatrix_UnknownTier(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.permissions.ListMatrix(context.Background(), uuid.New().String())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

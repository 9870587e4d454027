package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/pkg/apperr"
)

func TestCreateTier(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tier, err := env.tiers.CreateTier(ctx, CreateTierRequest{Name: "gold", DisplayName: "Gold"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if tier.Name != "gold" {
		t.Errorf("expected name gold, got %q", tier.Name)
	}

	// Duplicate machine name.
	if _, err := env.tiers.CreateTier(ctx, CreateTierRequest{Name: "gold", DisplayName: "Gold Again"}); !apperr.Is(err, apperr.KindConflict) {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdateTier_NameImmutable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	basic := env.tierByName(t, "basic")
	updated, err := env.tiers.UpdateTier(ctx, basic.ID.String(), UpdateTierRequest{
		DisplayName: "Standard",
		Description: "renamed for display only",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "basic" {
		t.Errorf("machine name must not change, got %q", updated.Name)
	}
	if updated.DisplayName != "Standard" {
		t.Errorf("expected display name Standard, got %q", updated.DisplayName)
	}
}

func TestDeleteTier_ReservedAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.tierByName(t, model.ReservedAdminTier)
	if err := env.tiers.DeleteTier(ctx, admin.ID.String()); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("deleting the reserved admin tier must fail, got %v", err)
	}

	gold, err := env.tiers.CreateTier(ctx, CreateTierRequest{Name: "gold", DisplayName: "Gold"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := env.tiers.DeleteTier(ctx, gold.ID); err != nil {
		t.Errorf("deleting a regular tier failed: %v", err)
	}
}

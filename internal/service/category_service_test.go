package service

import (
	"context"
	"testing"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

func TestCreateCategory_AppendsAtTail(t *testing.T) {
	env := newTestEnv(t)

	for i, name := range []string{"a", "b", "c"} {
		cat := env.createCategory(t, name)
		if cat.OrderIndex != i+1 {
			t.Errorf("category %q: expected order %d, got %d", name, i+1, cat.OrderIndex)
		}
	}
}

func TestListCategories_Ordered(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createCategory(t, "a")
	b := env.createCategory(t, "b")
	env.createCategory(t, "c")

	if err := env.categories.MoveCategory(ctx, b.ID, repository.MoveUp); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	list, err := env.categories.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := make([]string, 0, len(list))
	for _, c := range list {
		got = append(got, c.Name)
	}
	want := []string{"b", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestDeleteCategory_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.createCategory(t, "a")
	b := env.createCategory(t, "b")
	env.createCategory(t, "c")
	basic := env.tierByName(t, "basic")

	if _, err := env.items.CreateItem(ctx, b.ID, CreateItemRequest{Title: "t", Link: "https://example.com"}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	_, err := env.permissions.SetPermission(ctx, SetPermissionRequest{
		MembershipTierID: basic.ID.String(),
		CategoryID:       b.ID,
		Permission:       model.PermissionView,
		Value:            true,
	})
	if err != nil {
		t.Fatalf("set permission failed: %v", err)
	}
	if err := env.categories.SetPassword(ctx, b.ID, SetCategoryPasswordRequest{Password: "secret"}); err != nil {
		t.Fatalf("set password failed: %v", err)
	}

	if err := env.categories.DeleteCategory(ctx, b.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	// Items, matrix rows and the password gate are gone.
	bID := uuid.MustParse(b.ID)
	if items, err := env.itemRepo.ListByCategory(ctx, bID); err != nil || len(items) != 0 {
		t.Errorf("expected no surviving items, got %d (err=%v)", len(items), err)
	}
	if _, err := env.permRepo.FindByTierAndCategory(ctx, basic.ID, bID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected matrix row deleted, got %v", err)
	}
	if _, err := env.categoryRepo.FindPassword(ctx, bID); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected password gate deleted, got %v", err)
	}

	// Survivors are repacked to 1..2.
	list, err := env.categories.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].Name != "a" || list[0].OrderIndex != 1 || list[1].Name != "c" || list[1].OrderIndex != 2 {
		t.Errorf("expected a=1 c=2 after repack, got %+v", list)
	}
}

func TestDeleteCategory_Unknown(t *testing.T) {
	env := newTestEnv(t)

	if err := env.categories.DeleteCategory(context.Background(), uuid.New().String()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

func TestCategoryPasswordGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := env.createCategory(t, "vault")

	// No gate: always open.
	ok, err := env.categories.VerifyPassword(ctx, VerifyCategoryPasswordRequest{CategoryName: "vault", Password: "anything"})
	if err != nil || !ok {
		t.Errorf("ungated category should verify, got ok=%v err=%v", ok, err)
	}

	if err := env.categories.SetPassword(ctx, cat.ID, SetCategoryPasswordRequest{Password: "secret"}); err != nil {
		t.Fatalf("set password failed: %v", err)
	}

	ok, err = env.categories.VerifyPassword(ctx, VerifyCategoryPasswordRequest{CategoryName: "vault", Password: "wrong"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("wrong password must not verify")
	}

	ok, err = env.categories.VerifyPassword(ctx, VerifyCategoryPasswordRequest{CategoryName: "vault", Password: "secret"})
	if err != nil || !ok {
		t.Errorf("correct password should verify, got ok=%v err=%v", ok, err)
	}

	// The gate shows up on listings without leaking the hash.
	list, err := env.categories.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !list[0].HasPassword {
		t.Error("expected has_password true")
	}

	// Empty password clears the gate.
	if err := env.categories.SetPassword(ctx, cat.ID, SetCategoryPasswordRequest{}); err != nil {
		t.Fatalf("clear password failed: %v", err)
	}
	ok, err = env.categories.VerifyPassword(ctx, VerifyCategoryPasswordRequest{CategoryName: "vault", Password: ""})
	if err != nil || !ok {
		t.Errorf("cleared gate should verify anything, got ok=%v err=%v", ok, err)
	}
}

func TestUpdateCategory_ReportsPasswordGate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := env.createCategory(t, "vault")
	if err := env.categories.SetPassword(ctx, cat.ID, SetCategoryPasswordRequest{Password: "secret"}); err != nil {
		t.Fatalf("set password failed: %v", err)
	}

	updated, err := env.categories.UpdateCategory(ctx, cat.ID, UpdateCategoryRequest{DisplayName: "Vault"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.DisplayName != "Vault" {
		t.Errorf("expected display name Vault, got %q", updated.DisplayName)
	}
	if !updated.HasPassword {
		t.Error("update response must still report the password gate")
	}
}

func TestItems_OrderWithinCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := env.createCategory(t, "links")

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		item, err := env.items.CreateItem(ctx, cat.ID, CreateItemRequest{Title: title, Link: "https://example.com"})
		if err != nil {
			t.Fatalf("create item failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	if err := env.items.MoveItem(ctx, ids[2], repository.MoveUp); err != nil {
		t.Fatalf("move failed: %v", err)
	}

	list, err := env.items.ListItems(ctx, cat.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := make([]string, 0, len(list))
	for _, i := range list {
		got = append(got, i.Title)
	}
	want := []string{"first", "third", "second"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDeleteItem_RepacksSiblings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := env.createCategory(t, "links")
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		item, err := env.items.CreateItem(ctx, cat.ID, CreateItemRequest{Title: title, Link: "https://example.com"})
		if err != nil {
			t.Fatalf("create item failed: %v", err)
		}
		ids = append(ids, item.ID)
	}

	if err := env.items.DeleteItem(ctx, ids[0]); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	list, err := env.items.ListItems(ctx, cat.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 2 || list[0].OrderIndex != 1 || list[1].OrderIndex != 2 {
		t.Errorf("expected contiguous 1..2 after delete, got %+v", list)
	}
}

func TestOwningCategory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cat := env.createCategory(t, "links")
	item, err := env.items.CreateItem(ctx, cat.ID, CreateItemRequest{Title: "t", Link: "https://example.com"})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	owner, err := env.items.OwningCategory(ctx, item.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if owner.ID.String() != cat.ID {
		t.Errorf("expected owner %s, got %s", cat.ID, owner.ID)
	}

	if _, err := env.items.OwningCategory(ctx, uuid.New().String()); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not-found, got %v", err)
	}
}

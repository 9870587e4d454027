package service

import (
	"context"
	"path/filepath"
	"testing"

	"backend/internal/database"
	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack against a throwaway sqlite database,
// seeded with the default tiers.
type testEnv struct {
	db *gorm.DB

	tierRepo     repository.TierRepository
	categoryRepo repository.CategoryRepository
	itemRepo     repository.ItemRepository
	permRepo     repository.PermissionRepository
	profileRepo  repository.ProfileRepository

	tiers       TierService
	permissions PermissionService
	memberships MembershipService
	categories  CategoryService
	items       ItemService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if err := database.Seed(context.Background(), db); err != nil {
		t.Fatalf("failed to seed tiers: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()

	env := &testEnv{
		db:           db,
		tierRepo:     repository.NewTierRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		itemRepo:     repository.NewItemRepository(db),
		permRepo:     repository.NewPermissionRepository(db),
		profileRepo:  repository.NewProfileRepository(db),
	}
	txm := repository.NewTransactionManager(db)
	env.tiers = NewTierService(env.tierRepo)
	env.permissions = NewPermissionService(env.tierRepo, env.categoryRepo, env.permRepo, env.profileRepo, txm)
	env.memberships = NewMembershipService(env.profileRepo, env.tierRepo, txm)
	env.categories = NewCategoryService(db, env.categoryRepo, env.itemRepo, env.permRepo, txm, hub)
	env.items = NewItemService(db, env.itemRepo, env.categoryRepo, txm, hub)
	return env
}

func (e *testEnv) tierByName(t *testing.T, name string) *model.MembershipTier {
	t.Helper()
	tier, err := e.tierRepo.FindByName(context.Background(), name)
	if err != nil {
		t.Fatalf("failed to load tier %q: %v", name, err)
	}
	return tier
}

func (e *testEnv) createCategory(t *testing.T, name string) *CategoryResponse {
	t.Helper()
	cat, err := e.categories.CreateCategory(context.Background(), CreateCategoryRequest{
		Name:        name,
		DisplayName: name,
	})
	if err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return cat
}

// approvedMember applies and approves a profile on the named tier and returns
// its email.
func (e *testEnv) approvedMember(t *testing.T, email, tierName string) string {
	t.Helper()
	ctx := context.Background()

	profile, err := e.memberships.Apply(ctx, ApplyRequest{Email: email, TierName: tierName})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	approved := model.StatusApproved
	if _, err := e.memberships.UpdateStatus(ctx, profile.ID, UpdateStatusRequest{Status: &approved}); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	return email
}

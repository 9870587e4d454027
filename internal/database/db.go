package database

import (
	"context"
	"fmt"
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate creates/updates the schema for all core models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.MembershipTier{},
		&model.Category{},
		&model.Item{},
		&model.CategoryPermission{},
		&model.CategoryPassword{},
		&model.Profile{},
		&model.Announcement{},
	)
}

// Seed makes sure the reserved admin tier and the self-service application
// tiers exist. Idempotent: existing tiers are left untouched so admin edits to
// display names survive restarts.
func Seed(ctx context.Context, db *gorm.DB) error {
	defaultTiers := []model.MembershipTier{
		{Name: model.ReservedAdminTier, DisplayName: "管理員", Description: "Full access to every category"},
		{Name: "basic", DisplayName: "一般會員", Description: "Standard membership"},
		{Name: "premium", DisplayName: "進階會員", Description: "Premium membership"},
	}

	for i := range defaultTiers {
		tier := &defaultTiers[i]
		err := db.WithContext(ctx).
			Where("name = ?", tier.Name).
			FirstOrCreate(tier).Error
		if err != nil {
			return fmt.Errorf("failed to seed tier %q: %w", tier.Name, err)
		}
	}

	return nil
}

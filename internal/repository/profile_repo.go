package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	List(ctx context.Context, offset, limit int) ([]model.Profile, int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return translate(GetDB(ctx, r.db).Create(profile).Error, "profile")
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return translate(GetDB(ctx, r.db).Save(profile).Error, "profile")
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	err := GetDB(ctx, r.db).
		Preload("MembershipTier").
		First(&profile, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "profile")
	}
	return &profile, nil
}

func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	err := GetDB(ctx, r.db).
		Preload("MembershipTier").
		Where("email = ?", email).
		First(&profile).Error
	if err != nil {
		return nil, translate(err, "profile")
	}
	return &profile, nil
}

// List returns profiles newest application first, plus the total row count for
// the pagination metadata.
func (r *profileRepository) List(ctx context.Context, offset, limit int) ([]model.Profile, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.Profile{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, "profile")
	}

	var profiles []model.Profile
	err := db.
		Preload("MembershipTier").
		Order("applied_at desc").
		Offset(offset).
		Limit(limit).
		Find(&profiles).Error
	if err != nil {
		return nil, 0, translate(err, "profile")
	}
	return profiles, total, nil
}

package repository

import (
	"context"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TierRepository interface {
	Create(ctx context.Context, tier *model.MembershipTier) error
	Update(ctx context.Context, tier *model.MembershipTier) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.MembershipTier, error)
	FindByName(ctx context.Context, name string) (*model.MembershipTier, error)
	ListAll(ctx context.Context) ([]model.MembershipTier, error)
}

type tierRepository struct {
	db *gorm.DB
}

func NewTierRepository(db *gorm.DB) TierRepository {
	return &tierRepository{db: db}
}

func (r *tierRepository) Create(ctx context.Context, tier *model.MembershipTier) error {
	return translate(GetDB(ctx, r.db).Create(tier).Error, "tier")
}

func (r *tierRepository) Update(ctx context.Context, tier *model.MembershipTier) error {
	return translate(GetDB(ctx, r.db).Save(tier).Error, "tier")
}

func (r *tierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.MembershipTier{})
	if res.Error != nil {
		return translate(res.Error, "tier")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("tier not found")
	}
	return nil
}

func (r *tierRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.MembershipTier, error) {
	var tier model.MembershipTier
	if err := GetDB(ctx, r.db).First(&tier, "id = ?", id).Error; err != nil {
		return nil, translate(err, "tier")
	}
	return &tier, nil
}

func (r *tierRepository) FindByName(ctx context.Context, name string) (*model.MembershipTier, error) {
	var tier model.MembershipTier
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&tier).Error; err != nil {
		return nil, translate(err, "tier")
	}
	return &tier, nil
}

func (r *tierRepository) ListAll(ctx context.Context) ([]model.MembershipTier, error) {
	var tiers []model.MembershipTier
	if err := GetDB(ctx, r.db).Order("name asc").Find(&tiers).Error; err != nil {
		return nil, translate(err, "tier")
	}
	return tiers, nil
}

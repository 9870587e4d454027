package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PermissionRepository interface {
	FindByTierAndCategory(ctx context.Context, tierID, categoryID uuid.UUID) (*model.CategoryPermission, error)
	ListByTier(ctx context.Context, tierID uuid.UUID) ([]model.CategoryPermission, error)
	Create(ctx context.Context, perm *model.CategoryPermission) error
	UpdateFlag(ctx context.Context, id uuid.UUID, permType model.PermissionType, value bool) error
	DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error
}

type permissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) PermissionRepository {
	return &permissionRepository{db: db}
}

func (r *permissionRepository) FindByTierAndCategory(ctx context.Context, tierID, categoryID uuid.UUID) (*model.CategoryPermission, error) {
	var perm model.CategoryPermission
	err := GetDB(ctx, r.db).
		Where("membership_tier_id = ? AND category_id = ?", tierID, categoryID).
		First(&perm).Error
	if err != nil {
		return nil, translate(err, "permission")
	}
	return &perm, nil
}

func (r *permissionRepository) ListByTier(ctx context.Context, tierID uuid.UUID) ([]model.CategoryPermission, error) {
	var perms []model.CategoryPermission
	err := GetDB(ctx, r.db).
		Where("membership_tier_id = ?", tierID).
		Find(&perms).Error
	if err != nil {
		return nil, translate(err, "permission")
	}
	return perms, nil
}

func (r *permissionRepository) Create(ctx context.Context, perm *model.CategoryPermission) error {
	return translate(GetDB(ctx, r.db).Create(perm).Error, "permission")
}

// UpdateFlag changes exactly one of the three flags and nothing else.
func (r *permissionRepository) UpdateFlag(ctx context.Context, id uuid.UUID, permType model.PermissionType, value bool) error {
	return translate(GetDB(ctx, r.db).
		Model(&model.CategoryPermission{}).
		Where("id = ?", id).
		UpdateColumn("can_"+string(permType), value).Error, "permission")
}

// DeleteByCategory removes the matrix column of a deleted category.
func (r *permissionRepository) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error {
	return translate(GetDB(ctx, r.db).
		Where("category_id = ?", categoryID).
		Delete(&model.CategoryPermission{}).Error, "permission")
}

package repository

import (
	"context"
	"errors"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, name string) (*model.Category, error)
	ListOrdered(ctx context.Context) ([]model.Category, error)

	UpsertPassword(ctx context.Context, categoryID uuid.UUID, passwordHash string) error
	FindPassword(ctx context.Context, categoryID uuid.UUID) (*model.CategoryPassword, error)
	DeletePassword(ctx context.Context, categoryID uuid.UUID) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return translate(GetDB(ctx, r.db).Create(category).Error, "category")
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return translate(GetDB(ctx, r.db).Save(category).Error, "category")
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Category{})
	if res.Error != nil {
		return translate(res.Error, "category")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("category not found")
	}
	return nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	if err := GetDB(ctx, r.db).First(&category, "id = ?", id).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var category model.Category
	if err := GetDB(ctx, r.db).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translate(err, "category")
	}
	return &category, nil
}

func (r *categoryRepository) ListOrdered(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := GetDB(ctx, r.db).Order("order_index asc").Find(&categories).Error; err != nil {
		return nil, translate(err, "category")
	}
	return categories, nil
}

func (r *categoryRepository) UpsertPassword(ctx context.Context, categoryID uuid.UUID, passwordHash string) error {
	db := GetDB(ctx, r.db)

	var existing model.CategoryPassword
	err := db.Where("category_id = ?", categoryID).First(&existing).Error
	switch {
	case err == nil:
		existing.PasswordHash = passwordHash
		return translate(db.Save(&existing).Error, "category password")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return translate(db.Create(&model.CategoryPassword{
			CategoryID:   categoryID,
			PasswordHash: passwordHash,
		}).Error, "category password")
	default:
		return translate(err, "category password")
	}
}

func (r *categoryRepository) FindPassword(ctx context.Context, categoryID uuid.UUID) (*model.CategoryPassword, error) {
	var pw model.CategoryPassword
	if err := GetDB(ctx, r.db).Where("category_id = ?", categoryID).First(&pw).Error; err != nil {
		return nil, translate(err, "category password")
	}
	return &pw, nil
}

func (r *categoryRepository) DeletePassword(ctx context.Context, categoryID uuid.UUID) error {
	return translate(GetDB(ctx, r.db).
		Where("category_id = ?", categoryID).
		Delete(&model.CategoryPassword{}).Error, "category password")
}

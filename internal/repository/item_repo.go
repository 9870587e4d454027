package repository

import (
	"context"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	Update(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Item, error)
	DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return translate(GetDB(ctx, r.db).Create(item).Error, "item")
}

func (r *itemRepository) Update(ctx context.Context, item *model.Item) error {
	return translate(GetDB(ctx, r.db).Save(item).Error, "item")
}

func (r *itemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Item{})
	if res.Error != nil {
		return translate(res.Error, "item")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("item not found")
	}
	return nil
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err, "item")
	}
	return &item, nil
}

func (r *itemRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Item, error) {
	var items []model.Item
	err := GetDB(ctx, r.db).
		Where("category_id = ?", categoryID).
		Order("order_index asc").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "item")
	}
	return items, nil
}

// DeleteByCategory removes every item of a category. Used by the category
// cascade; no repacking needed since the whole scope goes away.
func (r *itemRepository) DeleteByCategory(ctx context.Context, categoryID uuid.UUID) error {
	return translate(GetDB(ctx, r.db).
		Where("category_id = ?", categoryID).
		Delete(&model.Item{}).Error, "item")
}

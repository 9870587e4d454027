package repository

import (
	"context"

	"backend/internal/model"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnnouncementRepository interface {
	Create(ctx context.Context, a *model.Announcement) error
	Update(ctx context.Context, a *model.Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error)
	List(ctx context.Context, activeOnly bool) ([]model.Announcement, error)
}

type announcementRepository struct {
	db *gorm.DB
}

func NewAnnouncementRepository(db *gorm.DB) AnnouncementRepository {
	return &announcementRepository{db: db}
}

func (r *announcementRepository) Create(ctx context.Context, a *model.Announcement) error {
	return translate(GetDB(ctx, r.db).Create(a).Error, "announcement")
}

func (r *announcementRepository) Update(ctx context.Context, a *model.Announcement) error {
	return translate(GetDB(ctx, r.db).Save(a).Error, "announcement")
}

func (r *announcementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Announcement{})
	if res.Error != nil {
		return translate(res.Error, "announcement")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("announcement not found")
	}
	return nil
}

func (r *announcementRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Announcement, error) {
	var a model.Announcement
	if err := GetDB(ctx, r.db).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err, "announcement")
	}
	return &a, nil
}

func (r *announcementRepository) List(ctx context.Context, activeOnly bool) ([]model.Announcement, error) {
	db := GetDB(ctx, r.db)
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	var announcements []model.Announcement
	if err := db.Order("created_at desc").Find(&announcements).Error; err != nil {
		return nil, translate(err, "announcement")
	}
	return announcements, nil
}

package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
}

type UpdateCategoryRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type MoveRequest struct {
	Direction repository.Direction `json:"direction" binding:"required"`
}

type SetCategoryPasswordRequest struct {
	// Empty password removes the gate.
	Password string `json:"password"`
}

type VerifyCategoryPasswordRequest struct {
	CategoryName string `json:"category_name" binding:"required"`
	Password     string `json:"password"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	OrderIndex  int    `json:"order_index"`
	HasPassword bool   `json:"has_password"`
}

// --- Interface ---

type CategoryService interface {
	ListCategories(ctx context.Context) ([]CategoryResponse, error)
	GetCategory(ctx context.Context, id string) (*CategoryResponse, error)
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*CategoryResponse, error)
	// DeleteCategory cascades: items, matrix rows and the password gate go
	// with the category, and the remaining categories are repacked, all in
	// one transaction.
	DeleteCategory(ctx context.Context, id string) error
	MoveCategory(ctx context.Context, id string, dir repository.Direction) error
	SetPassword(ctx context.Context, id string, req SetCategoryPasswordRequest) error
	// VerifyPassword reports whether the given password opens the category.
	// A category without a gate is always open.
	VerifyPassword(ctx context.Context, req VerifyCategoryPasswordRequest) (bool, error)
}

type categoryService struct {
	db         *gorm.DB
	categories repository.CategoryRepository
	items      repository.ItemRepository
	perms      repository.PermissionRepository
	txm        repository.TransactionManager
	hub        *ws.Hub
}

func NewCategoryService(
	db *gorm.DB,
	categories repository.CategoryRepository,
	items repository.ItemRepository,
	perms repository.PermissionRepository,
	txm repository.TransactionManager,
	hub *ws.Hub,
) CategoryService {
	return &categoryService{
		db:         db,
		categories: categories,
		items:      items,
		perms:      perms,
		txm:        txm,
		hub:        hub,
	}
}

// --- Implementation ---

func (s *categoryService) ListCategories(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categories.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		c := &categories[i]
		hasPassword := false
		if _, err := s.categories.FindPassword(ctx, c.ID); err == nil {
			hasPassword = true
		} else if !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
		res = append(res, toCategoryResponse(c, hasPassword))
	}
	return res, nil
}

func (s *categoryService) GetCategory(ctx context.Context, id string) (*CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid category id: %v", err)
	}

	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	hasPassword := false
	if _, err := s.categories.FindPassword(ctx, categoryID); err == nil {
		hasPassword = true
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	resp := toCategoryResponse(category, hasPassword)
	return &resp, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	if req.Name == "" || req.DisplayName == "" {
		return nil, apperr.Validation("name and display name are required")
	}

	category := &model.Category{
		Name:        req.Name,
		DisplayName: req.DisplayName,
	}

	// Append at the tail of the ordering inside the insert transaction.
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		next, err := repository.NextIndex(txCtx, s.db, repository.CategoryScope())
		if err != nil {
			return err
		}
		category.OrderIndex = next
		return s.categories.Create(txCtx, category)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventCategoriesChanged, "")
	resp := toCategoryResponse(category, false)
	return &resp, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*CategoryResponse, error) {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid category id: %v", err)
	}

	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	category.DisplayName = req.DisplayName
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	hasPassword := false
	if _, err := s.categories.FindPassword(ctx, categoryID); err == nil {
		hasPassword = true
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	s.hub.Publish(ws.EventCategoriesChanged, "")
	resp := toCategoryResponse(category, hasPassword)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, id string) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid category id: %v", err)
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		category, err := s.categories.FindByID(txCtx, categoryID)
		if err != nil {
			return err
		}

		if err := s.items.DeleteByCategory(txCtx, categoryID); err != nil {
			return err
		}
		if err := s.perms.DeleteByCategory(txCtx, categoryID); err != nil {
			return err
		}
		if err := s.categories.DeletePassword(txCtx, categoryID); err != nil {
			return err
		}
		if err := s.categories.Delete(txCtx, categoryID); err != nil {
			return err
		}
		return repository.Repack(txCtx, s.db, repository.CategoryScope(), category.OrderIndex)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(ws.EventCategoriesChanged, "")
	return nil
}

func (s *categoryService) MoveCategory(ctx context.Context, id string, dir repository.Direction) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid category id: %v", err)
	}

	if err := repository.Move(ctx, s.db, repository.CategoryScope(), categoryID, dir); err != nil {
		return err
	}

	s.hub.Publish(ws.EventCategoriesChanged, "")
	return nil
}

func (s *categoryService) SetPassword(ctx context.Context, id string, req SetCategoryPasswordRequest) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid category id: %v", err)
	}
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return err
	}

	if req.Password == "" {
		return s.categories.DeletePassword(ctx, categoryID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Store(err, "failed to hash password")
	}
	return s.categories.UpsertPassword(ctx, categoryID, string(hash))
}

func (s *categoryService) VerifyPassword(ctx context.Context, req VerifyCategoryPasswordRequest) (bool, error) {
	category, err := s.categories.FindByName(ctx, req.CategoryName)
	if err != nil {
		return false, err
	}

	pw, err := s.categories.FindPassword(ctx, category.ID)
	if apperr.Is(err, apperr.KindNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if bcrypt.CompareHashAndPassword([]byte(pw.PasswordHash), []byte(req.Password)) != nil {
		return false, nil
	}
	return true, nil
}

func toCategoryResponse(c *model.Category, hasPassword bool) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		DisplayName: c.DisplayName,
		OrderIndex:  c.OrderIndex,
		HasPassword: hasPassword,
	}
}

package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Link        string `json:"link" binding:"required"`
	Description string `json:"description"`
}

type UpdateItemRequest struct {
	Title       string `json:"title" binding:"required"`
	Link        string `json:"link" binding:"required"`
	Description string `json:"description"`
}

type ItemResponse struct {
	ID          string `json:"id"`
	CategoryID  string `json:"category_id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

// --- Interface ---

type ItemService interface {
	ListItems(ctx context.Context, categoryID string) ([]ItemResponse, error)
	CreateItem(ctx context.Context, categoryID string, req CreateItemRequest) (*ItemResponse, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*ItemResponse, error)
	// DeleteItem removes the item and repacks its siblings so the category's
	// ordering stays gap-free.
	DeleteItem(ctx context.Context, id string) error
	MoveItem(ctx context.Context, id string, dir repository.Direction) error
	// OwningCategory resolves the category an item belongs to, for
	// permission checks on item writes.
	OwningCategory(ctx context.Context, id string) (*model.Category, error)
}

type itemService struct {
	db         *gorm.DB
	items      repository.ItemRepository
	categories repository.CategoryRepository
	txm        repository.TransactionManager
	hub        *ws.Hub
}

func NewItemService(
	db *gorm.DB,
	items repository.ItemRepository,
	categories repository.CategoryRepository,
	txm repository.TransactionManager,
	hub *ws.Hub,
) ItemService {
	return &itemService{db: db, items: items, categories: categories, txm: txm, hub: hub}
}

// --- Implementation ---

func (s *itemService) ListItems(ctx context.Context, categoryID string) ([]ItemResponse, error) {
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category id: %v", err)
	}
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return nil, err
	}

	items, err := s.items.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]ItemResponse, 0, len(items))
	for i := range items {
		res = append(res, toItemResponse(&items[i]))
	}
	return res, nil
}

func (s *itemService) CreateItem(ctx context.Context, categoryID string, req CreateItemRequest) (*ItemResponse, error) {
	id, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category id: %v", err)
	}
	if req.Title == "" || req.Link == "" {
		return nil, apperr.Validation("title and link are required")
	}

	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return nil, err
	}

	item := &model.Item{
		CategoryID:  id,
		Title:       req.Title,
		Link:        req.Link,
		Description: req.Description,
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		next, err := repository.NextIndex(txCtx, s.db, repository.ItemScope(id))
		if err != nil {
			return err
		}
		item.OrderIndex = next
		return s.items.Create(txCtx, item)
	})
	if err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventItemsChanged, id.String())
	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*ItemResponse, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid item id: %v", err)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Title = req.Title
	item.Link = req.Link
	item.Description = req.Description
	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventItemsChanged, item.CategoryID.String())
	resp := toItemResponse(item)
	return &resp, nil
}

func (s *itemService) DeleteItem(ctx context.Context, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid item id: %v", err)
	}

	var categoryID uuid.UUID
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.items.FindByID(txCtx, itemID)
		if err != nil {
			return err
		}
		categoryID = item.CategoryID

		if err := s.items.Delete(txCtx, itemID); err != nil {
			return err
		}
		return repository.Repack(txCtx, s.db, repository.ItemScope(item.CategoryID), item.OrderIndex)
	})
	if err != nil {
		return err
	}

	s.hub.Publish(ws.EventItemsChanged, categoryID.String())
	return nil
}

func (s *itemService) MoveItem(ctx context.Context, id string, dir repository.Direction) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid item id: %v", err)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	if err := repository.Move(ctx, s.db, repository.ItemScope(item.CategoryID), itemID, dir); err != nil {
		return err
	}

	s.hub.Publish(ws.EventItemsChanged, item.CategoryID.String())
	return nil
}

func (s *itemService) OwningCategory(ctx context.Context, id string) (*model.Category, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid item id: %v", err)
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return s.categories.FindByID(ctx, item.CategoryID)
}

func toItemResponse(i *model.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID.String(),
		CategoryID:  i.CategoryID.String(),
		Title:       i.Title,
		Link:        i.Link,
		Description: i.Description,
		OrderIndex:  i.OrderIndex,
	}
}

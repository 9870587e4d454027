package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateTierRequest struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name" binding:"required"`
	Description string `json:"description"`
}

// UpdateTierRequest edits presentation fields only; the machine name is the
// tier's immutable identity.
type UpdateTierRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Description string `json:"description"`
}

type TierResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type TierService interface {
	ListTiers(ctx context.Context) ([]TierResponse, error)
	CreateTier(ctx context.Context, req CreateTierRequest) (*TierResponse, error)
	UpdateTier(ctx context.Context, id string, req UpdateTierRequest) (*TierResponse, error)
	DeleteTier(ctx context.Context, id string) error
}

type tierService struct {
	tiers repository.TierRepository
}

func NewTierService(tiers repository.TierRepository) TierService {
	return &tierService{tiers: tiers}
}

// --- Implementation ---

func (s *tierService) ListTiers(ctx context.Context) ([]TierResponse, error) {
	tiers, err := s.tiers.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]TierResponse, 0, len(tiers))
	for i := range tiers {
		res = append(res, toTierResponse(&tiers[i]))
	}
	return res, nil
}

func (s *tierService) CreateTier(ctx context.Context, req CreateTierRequest) (*TierResponse, error) {
	if req.Name == "" || req.DisplayName == "" {
		return nil, apperr.Validation("name and display name are required")
	}

	if _, err := s.tiers.FindByName(ctx, req.Name); err == nil {
		return nil, apperr.Conflict("tier %q already exists", req.Name)
	}

	tier := &model.MembershipTier{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
	}
	if err := s.tiers.Create(ctx, tier); err != nil {
		return nil, err
	}

	resp := toTierResponse(tier)
	return &resp, nil
}

func (s *tierService) UpdateTier(ctx context.Context, id string, req UpdateTierRequest) (*TierResponse, error) {
	tierID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid tier id: %v", err)
	}

	tier, err := s.tiers.FindByID(ctx, tierID)
	if err != nil {
		return nil, err
	}

	tier.DisplayName = req.DisplayName
	tier.Description = req.Description
	if err := s.tiers.Update(ctx, tier); err != nil {
		return nil, err
	}

	resp := toTierResponse(tier)
	return &resp, nil
}

func (s *tierService) DeleteTier(ctx context.Context, id string) error {
	tierID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid tier id: %v", err)
	}

	tier, err := s.tiers.FindByID(ctx, tierID)
	if err != nil {
		return err
	}

	if tier.Name == model.ReservedAdminTier {
		return apperr.Validation("the %q tier is reserved and cannot be deleted", model.ReservedAdminTier)
	}

	return s.tiers.Delete(ctx, tierID)
}

func toTierResponse(t *model.MembershipTier) TierResponse {
	return TierResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		DisplayName: t.DisplayName,
		Description: t.Description,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}

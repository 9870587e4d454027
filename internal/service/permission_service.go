package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

// PermissionSet is the effective {view, edit, delete} decision for one actor
// on one category.
type PermissionSet struct {
	CanView   bool `json:"can_view"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

var fullAccess = PermissionSet{CanView: true, CanEdit: true, CanDelete: true}

type SetPermissionRequest struct {
	MembershipTierID string               `json:"membership_tier_id" binding:"required"`
	CategoryID       string               `json:"category_id" binding:"required"`
	Permission       model.PermissionType `json:"permission" binding:"required"`
	Value            bool                 `json:"value"`
}

type PermissionRowResponse struct {
	ID               string `json:"id"`
	MembershipTierID string `json:"membership_tier_id"`
	CategoryID       string `json:"category_id"`
	CanView          bool   `json:"can_view"`
	CanEdit          bool   `json:"can_edit"`
	CanDelete        bool   `json:"can_delete"`
}

// --- Interface ---

type PermissionService interface {
	// Resolve computes the effective permissions of an actor on a category.
	// Global admins get full access unconditionally; everyone else needs an
	// approved profile and an explicit matrix row, otherwise default-deny.
	Resolve(ctx context.Context, email string, isGlobalAdmin bool, categoryName string) (PermissionSet, error)
	// CheckPermission answers a single flag. A false with a non-nil error
	// means the check failed, not that access was decided; callers deny
	// on error (fail-closed).
	CheckPermission(ctx context.Context, email string, isGlobalAdmin bool, categoryName string, permType model.PermissionType) (bool, error)
	SetPermission(ctx context.Context, req SetPermissionRequest) (*PermissionRowResponse, error)
	ListMatrix(ctx context.Context, tierID string) ([]PermissionRowResponse, error)
}

type permissionService struct {
	tiers      repository.TierRepository
	categories repository.CategoryRepository
	perms      repository.PermissionRepository
	profiles   repository.ProfileRepository
	txm        repository.TransactionManager
}

func NewPermissionService(
	tiers repository.TierRepository,
	categories repository.CategoryRepository,
	perms repository.PermissionRepository,
	profiles repository.ProfileRepository,
	txm repository.TransactionManager,
) PermissionService {
	return &permissionService{
		tiers:      tiers,
		categories: categories,
		perms:      perms,
		profiles:   profiles,
		txm:        txm,
	}
}

// --- Implementation ---

func (s *permissionService) Resolve(ctx context.Context, email string, isGlobalAdmin bool, categoryName string) (PermissionSet, error) {
	if isGlobalAdmin {
		return fullAccess, nil
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		return PermissionSet{}, nil
	}
	if err != nil {
		return PermissionSet{}, err
	}
	if profile.Status != model.StatusApproved {
		return PermissionSet{}, nil
	}

	category, err := s.categories.FindByName(ctx, categoryName)
	if err != nil {
		return PermissionSet{}, err
	}

	row, err := s.perms.FindByTierAndCategory(ctx, profile.MembershipTierID, category.ID)
	if apperr.Is(err, apperr.KindNotFound) {
		// No explicit grant: deny everything.
		return PermissionSet{}, nil
	}
	if err != nil {
		return PermissionSet{}, err
	}

	// Flags are honored literally as stored; can_edit does not imply can_view.
	return PermissionSet{
		CanView:   row.CanView,
		CanEdit:   row.CanEdit,
		CanDelete: row.CanDelete,
	}, nil
}

func (s *permissionService) CheckPermission(ctx context.Context, email string, isGlobalAdmin bool, categoryName string, permType model.PermissionType) (bool, error) {
	if !permType.Valid() {
		return false, apperr.Validation("invalid permission type %q", permType)
	}

	set, err := s.Resolve(ctx, email, isGlobalAdmin, categoryName)
	if err != nil {
		return false, err
	}

	switch permType {
	case model.PermissionView:
		return set.CanView, nil
	case model.PermissionEdit:
		return set.CanEdit, nil
	default:
		return set.CanDelete, nil
	}
}

// SetPermission upserts a single flag for a (tier, category) key. When the row
// exists only the named flag changes; when absent a new row is created with
// the named flag set and the other two false. Inserting a fresh single-flag
// row over an existing one would silently revoke earlier grants, hence the
// read-then-update inside one transaction.
func (s *permissionService) SetPermission(ctx context.Context, req SetPermissionRequest) (*PermissionRowResponse, error) {
	tierID, err := uuid.Parse(req.MembershipTierID)
	if err != nil {
		return nil, apperr.Validation("invalid tier id: %v", err)
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return nil, apperr.Validation("invalid category id: %v", err)
	}
	if !req.Permission.Valid() {
		return nil, apperr.Validation("invalid permission type %q", req.Permission)
	}

	var result *model.CategoryPermission
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.tiers.FindByID(txCtx, tierID); err != nil {
			return err
		}
		if _, err := s.categories.FindByID(txCtx, categoryID); err != nil {
			return err
		}

		row, err := s.perms.FindByTierAndCategory(txCtx, tierID, categoryID)
		switch {
		case err == nil:
			if err := s.perms.UpdateFlag(txCtx, row.ID, req.Permission, req.Value); err != nil {
				return err
			}
			row.SetFlag(req.Permission, req.Value)
			result = row
			return nil
		case apperr.Is(err, apperr.KindNotFound):
			row = &model.CategoryPermission{
				MembershipTierID: tierID,
				CategoryID:       categoryID,
			}
			row.SetFlag(req.Permission, req.Value)
			if err := s.perms.Create(txCtx, row); err != nil {
				return err
			}
			result = row
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	resp := toPermissionRowResponse(result)
	return &resp, nil
}

func (s *permissionService) ListMatrix(ctx context.Context, tierID string) ([]PermissionRowResponse, error) {
	id, err := uuid.Parse(tierID)
	if err != nil {
		return nil, apperr.Validation("invalid tier id: %v", err)
	}
	if _, err := s.tiers.FindByID(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.perms.ListByTier(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]PermissionRowResponse, 0, len(rows))
	for i := range rows {
		res = append(res, toPermissionRowResponse(&rows[i]))
	}
	return res, nil
}

func toPermissionRowResponse(p *model.CategoryPermission) PermissionRowResponse {
	return PermissionRowResponse{
		ID:               p.ID.String(),
		MembershipTierID: p.MembershipTierID.String(),
		CategoryID:       p.CategoryID.String(),
		CanView:          p.CanView,
		CanEdit:          p.CanEdit,
		CanDelete:        p.CanDelete,
	}
}

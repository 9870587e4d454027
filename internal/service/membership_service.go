package service

import (
	"context"
	"regexp"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type ApplyRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name"`
	TierName    string `json:"membership_tier_name" binding:"required"`
}

// UpdateStatusRequest carries an optional status transition and/or an optional
// tier reassignment; either alone is valid.
type UpdateStatusRequest struct {
	Status           *string `json:"status"`
	MembershipTierID *string `json:"membership_tier_id"`
}

type ProfileResponse struct {
	ID               string  `json:"id"`
	Email            string  `json:"email"`
	DisplayName      string  `json:"display_name"`
	Status           string  `json:"status"`
	MembershipTierID string  `json:"membership_tier_id"`
	TierName         string  `json:"tier_name,omitempty"`
	TierDisplayName  string  `json:"tier_display_name,omitempty"`
	AppliedAt        string  `json:"applied_at"`
	ApprovedAt       *string `json:"approved_at"`
	UserID           *string `json:"user_id"`
}

// --- Interface ---

type MembershipService interface {
	// Apply creates a profile for a new email or resets the existing one back
	// to pending. Re-application by an approved member intentionally demotes
	// them until re-approved: self-service tier changes go through the same
	// review as first applications.
	Apply(ctx context.Context, req ApplyRequest) (*ProfileResponse, error)
	// UpdateStatus performs an admin transition along the lifecycle edges
	// and/or reassigns the tier.
	UpdateStatus(ctx context.Context, profileID string, req UpdateStatusRequest) (*ProfileResponse, error)
	// BindIdentity links an authenticated user id to the approved, unbound
	// profile for that email. Returns the profile when bound or already
	// bound to this identity, nil when the email has no claim to elevation.
	BindIdentity(ctx context.Context, email, userID string) (*ProfileResponse, error)
	GetProfileByEmail(ctx context.Context, email string) (*ProfileResponse, error)
	ListProfiles(ctx context.Context, offset, limit int) ([]ProfileResponse, int64, error)
}

type membershipService struct {
	profiles repository.ProfileRepository
	tiers    repository.TierRepository
	txm      repository.TransactionManager
}

func NewMembershipService(
	profiles repository.ProfileRepository,
	tiers repository.TierRepository,
	txm repository.TransactionManager,
) MembershipService {
	return &membershipService{profiles: profiles, tiers: tiers, txm: txm}
}

// --- Implementation ---

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Status transitions allowed for admin updates. Rejected profiles re-enter
// the lifecycle only through Apply.
var statusTransitions = map[string][]string{
	model.StatusPending:   {model.StatusApproved, model.StatusRejected},
	model.StatusApproved:  {model.StatusSuspended},
	model.StatusSuspended: {model.StatusApproved},
	model.StatusRejected:  {},
}

func transitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s *membershipService) Apply(ctx context.Context, req ApplyRequest) (*ProfileResponse, error) {
	if req.Email == "" || req.TierName == "" {
		return nil, apperr.Validation("email and membership tier name are required")
	}
	if !emailRegex.MatchString(req.Email) {
		return nil, apperr.Validation("invalid email format")
	}

	tier, err := s.tiers.FindByName(ctx, req.TierName)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation("invalid membership tier %q", req.TierName)
	}
	if err != nil {
		return nil, err
	}

	var profile *model.Profile
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		existing, err := s.profiles.FindByEmail(txCtx, req.Email)
		switch {
		case err == nil:
			// One profile per email: the application overwrites tier choice
			// and forces the lifecycle back to pending.
			existing.DisplayName = req.DisplayName
			existing.MembershipTierID = tier.ID
			existing.Status = model.StatusPending
			existing.AppliedAt = time.Now().UTC()
			profile = existing
			return s.profiles.Update(txCtx, existing)
		case apperr.Is(err, apperr.KindNotFound):
			profile = &model.Profile{
				Email:            req.Email,
				DisplayName:      req.DisplayName,
				MembershipTierID: tier.ID,
				Status:           model.StatusPending,
				AppliedAt:        time.Now().UTC(),
			}
			return s.profiles.Create(txCtx, profile)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	profile.MembershipTier = tier
	resp := toProfileResponse(profile)
	return &resp, nil
}

func (s *membershipService) UpdateStatus(ctx context.Context, profileID string, req UpdateStatusRequest) (*ProfileResponse, error) {
	id, err := uuid.Parse(profileID)
	if err != nil {
		return nil, apperr.Validation("invalid profile id: %v", err)
	}
	if req.Status == nil && req.MembershipTierID == nil {
		return nil, apperr.Validation("nothing to update")
	}

	var updated *model.Profile
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		profile, err := s.profiles.FindByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Status != nil {
			next := *req.Status
			if !model.ValidStatus(next) {
				return apperr.Validation("invalid status %q", next)
			}
			if !transitionAllowed(profile.Status, next) {
				return apperr.Validation("cannot transition from %s to %s", profile.Status, next)
			}
			if next == model.StatusApproved && profile.Status == model.StatusPending {
				now := time.Now().UTC()
				profile.ApprovedAt = &now
			}
			// suspended -> approved keeps the original approval timestamp.
			profile.Status = next
		}

		if req.MembershipTierID != nil {
			tierID, err := uuid.Parse(*req.MembershipTierID)
			if err != nil {
				return apperr.Validation("invalid tier id: %v", err)
			}
			tier, err := s.tiers.FindByID(txCtx, tierID)
			if err != nil {
				return err
			}
			profile.MembershipTierID = tier.ID
			profile.MembershipTier = tier
		}

		updated = profile
		return s.profiles.Update(txCtx, profile)
	})
	if err != nil {
		return nil, err
	}

	resp := toProfileResponse(updated)
	return &resp, nil
}

func (s *membershipService) BindIdentity(ctx context.Context, email, userID string) (*ProfileResponse, error) {
	if email == "" || userID == "" {
		return nil, apperr.Validation("email and user id are required")
	}

	profile, err := s.profiles.FindByEmail(ctx, email)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if profile.Status != model.StatusApproved {
		return nil, nil
	}
	if profile.UserID != nil {
		if *profile.UserID == userID {
			resp := toProfileResponse(profile)
			return &resp, nil
		}
		// Bound to a different identity: no elevation for this login.
		return nil, nil
	}

	profile.UserID = &userID
	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}

	resp := toProfileResponse(profile)
	return &resp, nil
}

func (s *membershipService) GetProfileByEmail(ctx context.Context, email string) (*ProfileResponse, error) {
	profile, err := s.profiles.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

func (s *membershipService) ListProfiles(ctx context.Context, offset, limit int) ([]ProfileResponse, int64, error) {
	profiles, total, err := s.profiles.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		res = append(res, toProfileResponse(&profiles[i]))
	}
	return res, total, nil
}

func toProfileResponse(p *model.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:               p.ID.String(),
		Email:            p.Email,
		DisplayName:      p.DisplayName,
		Status:           p.Status,
		MembershipTierID: p.MembershipTierID.String(),
		AppliedAt:        p.AppliedAt.Format(time.RFC3339),
		UserID:           p.UserID,
	}
	if p.ApprovedAt != nil {
		s := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	if p.MembershipTier != nil {
		resp.TierName = p.MembershipTier.Name
		resp.TierDisplayName = p.MembershipTier.DisplayName
	}
	return resp
}

package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	ws "backend/internal/websocket"
	"backend/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

type UpdateAnnouncementRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

type AnnouncementResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// --- Interface ---

type AnnouncementService interface {
	// ListAnnouncements returns newest first; non-admin callers only see
	// active ones.
	ListAnnouncements(ctx context.Context, includeInactive bool) ([]AnnouncementResponse, error)
	CreateAnnouncement(ctx context.Context, req CreateAnnouncementRequest) (*AnnouncementResponse, error)
	UpdateAnnouncement(ctx context.Context, id string, req UpdateAnnouncementRequest) (*AnnouncementResponse, error)
	DeleteAnnouncement(ctx context.Context, id string) error
}

type announcementService struct {
	announcements repository.AnnouncementRepository
	hub           *ws.Hub
}

func NewAnnouncementService(announcements repository.AnnouncementRepository, hub *ws.Hub) AnnouncementService {
	return &announcementService{announcements: announcements, hub: hub}
}

// --- Implementation ---

func (s *announcementService) ListAnnouncements(ctx context.Context, includeInactive bool) ([]AnnouncementResponse, error) {
	announcements, err := s.announcements.List(ctx, !includeInactive)
	if err != nil {
		return nil, err
	}

	res := make([]AnnouncementResponse, 0, len(announcements))
	for i := range announcements {
		res = append(res, toAnnouncementResponse(&announcements[i]))
	}
	return res, nil
}

func (s *announcementService) CreateAnnouncement(ctx context.Context, req CreateAnnouncementRequest) (*AnnouncementResponse, error) {
	if req.Title == "" || req.Content == "" {
		return nil, apperr.Validation("title and content are required")
	}

	a := &model.Announcement{
		Title:    req.Title,
		Content:  req.Content,
		IsActive: true,
	}
	if err := s.announcements.Create(ctx, a); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventAnnouncementsChanged, "")
	resp := toAnnouncementResponse(a)
	return &resp, nil
}

func (s *announcementService) UpdateAnnouncement(ctx context.Context, id string, req UpdateAnnouncementRequest) (*AnnouncementResponse, error) {
	announcementID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.Validation("invalid announcement id: %v", err)
	}

	a, err := s.announcements.FindByID(ctx, announcementID)
	if err != nil {
		return nil, err
	}

	a.Title = req.Title
	a.Content = req.Content
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if err := s.announcements.Update(ctx, a); err != nil {
		return nil, err
	}

	s.hub.Publish(ws.EventAnnouncementsChanged, "")
	resp := toAnnouncementResponse(a)
	return &resp, nil
}

func (s *announcementService) DeleteAnnouncement(ctx context.Context, id string) error {
	announcementID, err := uuid.Parse(id)
	if err != nil {
		return apperr.Validation("invalid announcement id: %v", err)
	}

	if err := s.announcements.Delete(ctx, announcementID); err != nil {
		return err
	}

	s.hub.Publish(ws.EventAnnouncementsChanged, "")
	return nil
}

func toAnnouncementResponse(a *model.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID.String(),
		Title:     a.Title,
		Content:   a.Content,
		IsActive:  a.IsActive,
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}

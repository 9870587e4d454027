package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcements service.AnnouncementService
}

func NewAnnouncementHandler(announcements service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

func (h *AnnouncementHandler) RegisterRoutes(router *gin.RouterGroup) {
	announcements := router.Group("/api/announcements")
	announcements.Use(middleware.Authenticate())
	{
		announcements.GET("", h.ListAnnouncements)

		admin := announcements.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", h.CreateAnnouncement)
			admin.PUT("/:id", h.UpdateAnnouncement)
			admin.DELETE("/:id", h.DeleteAnnouncement)
		}
	}
}

func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	// Admins also see deactivated announcements.
	announcements, err := h.announcements.ListAnnouncements(c.Request.Context(), middleware.IsGlobalAdmin(c))
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, announcements))
}

func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	announcement, err := h.announcements.CreateAnnouncement(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, announcement))
}

func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	var req service.UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	announcement, err := h.announcements.UpdateAnnouncement(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, announcement))
}

func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	if err := h.announcements.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Announcement deleted successfully"}))
}

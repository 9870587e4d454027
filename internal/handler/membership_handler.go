package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/apperr"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	memberships service.MembershipService
}

func NewMembershipHandler(memberships service.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup
func (h *MembershipHandler) RegisterRoutes(router *gin.RouterGroup) {
	// Public: the application form is the front door.
	router.POST("/api/membership/apply", h.Apply)

	// Authenticated self-service
	router.GET("/api/me", middleware.Authenticate(), h.GetMe)

	// Admin review
	profiles := router.Group("/api/profiles")
	profiles.Use(middleware.Authenticate(), middleware.RequireAdmin())
	{
		profiles.GET("", h.ListProfiles)
		profiles.PATCH("/:id/status", h.UpdateStatus)
	}
}

// Apply submits or renews a membership application
// @Summary      Apply for membership
// @Description  Creates a profile for a new email, or resets an existing profile back to pending with the newly chosen tier.
// @Tags         membership
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ApplyRequest  true  "Application payload"
// @Success      200      {object}  response.Response{data=service.ProfileResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/membership/apply [post]
func (h *MembershipHandler) Apply(c *gin.Context) {
	var req service.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.memberships.Apply(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

// GetMe returns the caller's profile, binding the authenticated identity to an
// approved, unbound profile on first login.
func (h *MembershipHandler) GetMe(c *gin.Context) {
	email := middleware.ActorEmail(c)
	userID := middleware.ActorUserID(c)

	if userID != "" {
		if _, err := h.memberships.BindIdentity(c.Request.Context(), email, userID); err != nil {
			c.JSON(response.StatusFor(err), response.FromError(err))
			return
		}
	}

	profile, err := h.memberships.GetProfileByEmail(c.Request.Context(), email)
	if err != nil && !apperr.Is(err, apperr.KindNotFound) {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"email":           email,
		"is_global_admin": middleware.IsGlobalAdmin(c),
		"profile":         profile, // null when the email never applied
	}))
}

// ListProfiles returns applications newest first for the admin review queue
func (h *MembershipHandler) ListProfiles(c *gin.Context) {
	params := pagination.Parse(c)

	profiles, total, err := h.memberships.ListProfiles(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"profiles":   profiles,
		"pagination": params.MetaFor(total),
	}))
}

// UpdateStatus performs an admin lifecycle transition and/or tier reassignment
// @Summary      Update a profile's status or tier
// @Tags         membership
// @Accept       json
// @Produce      json
// @Param        id       path      string                        true  "Profile ID"
// @Param        payload  body      service.UpdateStatusRequest   true  "Status and/or tier"
// @Success      200      {object}  response.Response{data=service.ProfileResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/profiles/{id}/status [patch]
func (h *MembershipHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	profile, err := h.memberships.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, profile))
}

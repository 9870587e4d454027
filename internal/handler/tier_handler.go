package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type TierHandler struct {
	tiers service.TierService
}

func NewTierHandler(tiers service.TierService) *TierHandler {
	return &TierHandler{tiers: tiers}
}

func (h *TierHandler) RegisterRoutes(router *gin.RouterGroup) {
	tiers := router.Group("/api/tiers")
	{
		// Public: the application form lists the tiers to choose from.
		tiers.GET("", h.ListTiers)

		admin := tiers.Group("")
		admin.Use(middleware.Authenticate(), middleware.RequireAdmin())
		{
			admin.POST("", h.CreateTier)
			admin.PUT("/:id", h.UpdateTier)
			admin.DELETE("/:id", h.DeleteTier)
		}
	}
}

func (h *TierHandler) ListTiers(c *gin.Context) {
	tiers, err := h.tiers.ListTiers(c.Request.Context())
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tiers))
}

func (h *TierHandler) CreateTier(c *gin.Context) {
	var req service.CreateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tier, err := h.tiers.CreateTier(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, tier))
}

func (h *TierHandler) UpdateTier(c *gin.Context) {
	var req service.UpdateTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	tier, err := h.tiers.UpdateTier(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, tier))
}

// DeleteTier removes a tier. The reserved admin tier is refused.
func (h *TierHandler) DeleteTier(c *gin.Context) {
	if err := h.tiers.DeleteTier(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Tier deleted successfully"}))
}

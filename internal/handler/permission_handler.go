package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	permissions service.PermissionService
}

func NewPermissionHandler(permissions service.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

func (h *PermissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	perms := router.Group("/api/permissions")
	perms.Use(middleware.Authenticate())
	{
		perms.GET("/check", h.Check)
		perms.GET("", middleware.RequireAdmin(), h.ListMatrix)
		perms.PUT("", middleware.RequireAdmin(), h.SetPermission)
	}
}

// Check answers one permission flag for the calling identity
// @Summary      Check a permission
// @Description  Resolves the caller's effective permission on a category. Fail-closed: any resolution error denies.
// @Tags         permissions
// @Produce      json
// @Param        category  query     string  true  "Category name"
// @Param        type      query     string  true  "view | edit | delete"
// @Success      200       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /api/permissions/check [get]
func (h *PermissionHandler) Check(c *gin.Context) {
	categoryName := c.Query("category")
	permType := model.PermissionType(c.Query("type"))
	if categoryName == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "category query parameter is required"))
		return
	}

	allowed, err := h.permissions.CheckPermission(
		c.Request.Context(),
		middleware.ActorEmail(c),
		middleware.IsGlobalAdmin(c),
		categoryName,
		permType,
	)
	if err != nil {
		// Deny on error, but surface the failure so callers can tell a
		// broken check apart from a legitimate denial.
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"allowed": allowed}))
}

// ListMatrix returns a tier's permission rows for the admin grid
func (h *PermissionHandler) ListMatrix(c *gin.Context) {
	tierID := c.Query("tier_id")
	if tierID == "" {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "tier_id query parameter is required"))
		return
	}

	rows, err := h.permissions.ListMatrix(c.Request.Context(), tierID)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rows))
}

// SetPermission upserts a single flag of the permission matrix
// @Summary      Set one permission flag
// @Description  Updates the named flag when the (tier, category) row exists; otherwise creates the row with the other flags false.
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SetPermissionRequest  true  "Flag to set"
// @Success      200      {object}  response.Response{data=service.PermissionRowResponse}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/permissions [put]
func (h *PermissionHandler) SetPermission(c *gin.Context) {
	var req service.SetPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	row, err := h.permissions.SetPermission(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, row))
}

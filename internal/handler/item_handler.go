package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type ItemHandler struct {
	items       service.ItemService
	categories  service.CategoryService
	permissions service.PermissionService
}

func NewItemHandler(
	items service.ItemService,
	categories service.CategoryService,
	permissions service.PermissionService,
) *ItemHandler {
	return &ItemHandler{items: items, categories: categories, permissions: permissions}
}

func (h *ItemHandler) RegisterRoutes(router *gin.RouterGroup) {
	categoryItems := router.Group("/api/categories/:id/items")
	categoryItems.Use(middleware.Authenticate())
	{
		categoryItems.GET("", h.ListItems)
		categoryItems.POST("", h.CreateItem)
	}

	items := router.Group("/api/items")
	items.Use(middleware.Authenticate())
	{
		items.PUT("/:id", h.UpdateItem)
		items.DELETE("/:id", h.DeleteItem)
		items.POST("/:id/move", h.MoveItem)
	}
}

// allow resolves the actor's effective permission on a category and writes
// the refusal response itself when access is denied. Fail-closed: resolution
// errors deny.
func (h *ItemHandler) allow(c *gin.Context, categoryName string, permType model.PermissionType) bool {
	allowed, err := h.permissions.CheckPermission(
		c.Request.Context(),
		middleware.ActorEmail(c),
		middleware.IsGlobalAdmin(c),
		categoryName,
		permType,
	)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return false
	}
	if !allowed {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Access denied: missing "+string(permType)+" permission"))
		return false
	}
	return true
}

func (h *ItemHandler) ListItems(c *gin.Context) {
	category, err := h.categories.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	if !h.allow(c, category.Name, model.PermissionView) {
		return
	}

	items, err := h.items.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}

func (h *ItemHandler) CreateItem(c *gin.Context) {
	category, err := h.categories.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	if !h.allow(c, category.Name, model.PermissionEdit) {
		return
	}

	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.items.CreateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

func (h *ItemHandler) UpdateItem(c *gin.Context) {
	category, err := h.items.OwningCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	if !h.allow(c, category.Name, model.PermissionEdit) {
		return
	}

	var req service.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.items.UpdateItem(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

func (h *ItemHandler) DeleteItem(c *gin.Context) {
	category, err := h.items.OwningCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	if !h.allow(c, category.Name, model.PermissionDelete) {
		return
	}

	if err := h.items.DeleteItem(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Item deleted successfully"}))
}

func (h *ItemHandler) MoveItem(c *gin.Context) {
	category, err := h.items.OwningCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	if !h.allow(c, category.Name, model.PermissionEdit) {
		return
	}

	var req service.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.items.MoveItem(c.Request.Context(), c.Param("id"), req.Direction); err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Item moved"}))
}

package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	categories service.CategoryService
}

func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/api/categories")
	categories.Use(middleware.Authenticate())
	{
		categories.GET("", h.ListCategories)
		categories.POST("/verify-password", h.VerifyPassword)

		admin := categories.Group("")
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", h.CreateCategory)
			admin.PUT("/:id", h.UpdateCategory)
			admin.DELETE("/:id", h.DeleteCategory)
			admin.POST("/:id/move", h.MoveCategory)
			admin.POST("/:id/password", h.SetPassword)
		}
	}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, categories))
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, category))
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	category, err := h.categories.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, category))
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.categories.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Category deleted successfully"}))
}

// MoveCategory shifts a category one step up or down in the display order
// @Summary      Reorder a category
// @Description  Swaps the category with its neighbor. Moving past the edge of the list is a no-op.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id       path      string               true  "Category ID"
// @Param        payload  body      service.MoveRequest  true  "Direction: up or down"
// @Success      200      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/categories/{id}/move [post]
func (h *CategoryHandler) MoveCategory(c *gin.Context) {
	var req service.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.categories.MoveCategory(c.Request.Context(), c.Param("id"), req.Direction); err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Category moved"}))
}

func (h *CategoryHandler) SetPassword(c *gin.Context) {
	var req service.SetCategoryPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.categories.SetPassword(c.Request.Context(), c.Param("id"), req); err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Category password updated"}))
}

func (h *CategoryHandler) VerifyPassword(c *gin.Context) {
	var req service.VerifyCategoryPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	ok, err := h.categories.VerifyPassword(c.Request.Context(), req)
	if err != nil {
		c.JSON(response.StatusFor(err), response.FromError(err))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"valid": ok}))
}

package handler

import (
	"net/http"

	"memo-notes/src/domain"
	"memo-notes/src/usecase"
	"memo-notes/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	categoryUsecase usecase.CategoryUsecase
	validator       *validator.CustomValidator
	logger          *logrus.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryUsecase usecase.CategoryUsecase, v *validator.CustomValidator, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryUsecase: categoryUsecase,
		validator:       v,
		logger:          logger,
	}
}

func (h *CategoryHandler) categoryID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid category ID",
			Message: err.Error(),
		})
		return "", false
	}
	return id, true
}

// ListCategories returns the categories, optionally filtered by slug
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var filterDTO CategoryFilterDTO
	if err := c.ShouldBindQuery(&filterDTO); err != nil {
		respondValidation(c, h.logger, "Invalid query parameters", err)
		return
	}
	if err := h.validator.Validate(&filterDTO); err != nil {
		respondValidation(c, h.logger, "Invalid query parameters", err)
		return
	}

	categories, err := h.categoryUsecase.ListCategories(c.Request.Context(), domain.CategoryFilter{
		Slug:  filterDTO.Slug,
		Limit: filterDTO.Limit,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to get categories", err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a category by ID
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, ok := h.categoryID(c)
	if !ok {
		return
	}

	category, err := h.categoryUsecase.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get category", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// GetCategoryBySlug retrieves a category by slug
func (h *CategoryHandler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.categoryUsecase.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.logger, "Failed to get category", err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondValidation(c, h.logger, "Validation failed", err)
		return
	}

	category, err := h.categoryUsecase.CreateCategory(c.Request.Context(), usecase.CreateCategoryRequest{
		Name:  req.Name,
		Slug:  req.Slug,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to create category", err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// UpdateCategory updates a category
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, ok := h.categoryID(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondValidation(c, h.logger, "Validation failed", err)
		return
	}

	category, err := h.categoryUsecase.UpdateCategory(c.Request.Context(), id, usecase.UpdateCategoryRequest{
		Name:  req.Name,
		Slug:  req.Slug,
		Color: req.Color,
		Icon:  req.Icon,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to update category", err)
		return
	}

	c.JSON(http.StatusOK, category)
}

// DeleteCategory deletes a category. Memos keep the dangling reference.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, ok := h.categoryID(c)
	if !ok {
		return
	}

	if err := h.categoryUsecase.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete category", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponseDTO{Message: "Category deleted"})
}

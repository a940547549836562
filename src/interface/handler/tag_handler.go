package handler

import (
	"net/http"

	"memo-notes/src/domain"
	"memo-notes/src/usecase"
	"memo-notes/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TagHandler handles HTTP requests for tag operations
type TagHandler struct {
	tagUsecase usecase.TagUsecase
	validator  *validator.CustomValidator
	logger     *logrus.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagUsecase usecase.TagUsecase, v *validator.CustomValidator, logger *logrus.Logger) *TagHandler {
	return &TagHandler{
		tagUsecase: tagUsecase,
		validator:  v,
		logger:     logger,
	}
}

func (h *TagHandler) tagID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid tag ID",
			Message: err.Error(),
		})
		return "", false
	}
	return id, true
}

// ListTags returns the tags, optionally filtered by name
func (h *TagHandler) ListTags(c *gin.Context) {
	var filterDTO TagFilterDTO
	if err := c.ShouldBindQuery(&filterDTO); err != nil {
		respondValidation(c, h.logger, "Invalid query parameters", err)
		return
	}
	if err := h.validator.Validate(&filterDTO); err != nil {
		respondValidation(c, h.logger, "Invalid query parameters", err)
		return
	}

	tags, err := h.tagUsecase.ListTags(c.Request.Context(), domain.TagFilter{
		Name:  filterDTO.Name,
		Limit: filterDTO.Limit,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to get tags", err)
		return
	}

	c.JSON(http.StatusOK, tags)
}

// GetTag retrieves a tag by ID
func (h *TagHandler) GetTag(c *gin.Context) {
	id, ok := h.tagID(c)
	if !ok {
		return
	}

	tag, err := h.tagUsecase.GetTag(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get tag", err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

// CreateTag creates a new tag
func (h *TagHandler) CreateTag(c *gin.Context) {
	var req CreateTagRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondValidation(c, h.logger, "Validation failed", err)
		return
	}

	tag, err := h.tagUsecase.CreateTag(c.Request.Context(), usecase.CreateTagRequest{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to create tag", err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// UpdateTag updates a tag
func (h *TagHandler) UpdateTag(c *gin.Context) {
	id, ok := h.tagID(c)
	if !ok {
		return
	}

	var req UpdateTagRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondValidation(c, h.logger, "Validation failed", err)
		return
	}

	tag, err := h.tagUsecase.UpdateTag(c.Request.Context(), id, usecase.UpdateTagRequest{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to update tag", err)
		return
	}

	c.JSON(http.StatusOK, tag)
}

// DeleteTag deletes a tag. Memos keep the dangling reference.
func (h *TagHandler) DeleteTag(c *gin.Context) {
	id, ok := h.tagID(c)
	if !ok {
		return
	}

	if err := h.tagUsecase.DeleteTag(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete tag", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponseDTO{Message: "Tag deleted"})
}

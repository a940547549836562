package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"memo-notes/src/domain"
	"memo-notes/src/usecase"
	"memo-notes/src/validator"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// MemoHandler handles HTTP requests for memo operations
type MemoHandler struct {
	memoUsecase usecase.MemoUsecase
	validator   *validator.CustomValidator
	logger      *logrus.Logger
}

// NewMemoHandler creates a new memo handler
func NewMemoHandler(memoUsecase usecase.MemoUsecase, v *validator.CustomValidator, logger *logrus.Logger) *MemoHandler {
	return &MemoHandler{
		memoUsecase: memoUsecase,
		validator:   v,
		logger:      logger,
	}
}

// memoID returns the validated :id path parameter. On failure the 400
// response has already been written.
func (h *MemoHandler) memoID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := h.validator.ValidateID(id); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponseDTO{
			Error:   "Invalid memo ID",
			Message: err.Error(),
		})
		return "", false
	}
	return id, true
}

// CreateMemo creates a new memo
func (h *MemoHandler) CreateMemo(c *gin.Context) {
	var req CreateMemoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondValidation(c, h.logger, "Validation failed", err)
		return
	}

	memo, err := h.memoUsecase.CreateMemo(c.Request.Context(), h.toCreateRequest(req))
	if err != nil {
		respondError(c, h.logger, "Failed to create memo", err)
		return
	}

	c.JSON(http.StatusCreated, h.toMemoResponseDTO(memo))
}

// GetMemo retrieves a memo by ID
func (h *MemoHandler) GetMemo(c *gin.Context) {
	id, ok := h.memoID(c)
	if !ok {
		return
	}

	view, err := h.memoUsecase.GetMemo(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "Failed to get memo", err)
		return
	}

	c.JSON(http.StatusOK, MemoDetailResponseDTO{
		MemoResponseDTO: h.toMemoResponseDTO(&view.Memo),
		Prev:            view.Prev,
		Next:            view.Next,
	})
}

// ListMemos retrieves memos with filtering
func (h *MemoHandler) ListMemos(c *gin.Context) {
	var filterDTO MemoFilterDTO
	if err := c.ShouldBindQuery(&filterDTO); err != nil {
		respondValidation(c, h.logger, "Invalid query parameters", err)
		return
	}
	if err := h.validator.Validate(&filterDTO); err != nil {
		respondValidation(c, h.logger, "Invalid query parameters", err)
		return
	}

	filter, err := h.toDomainFilter(filterDTO)
	if err != nil {
		respondValidation(c, h.logger, "Invalid query parameters", err)
		return
	}

	memos, err := h.memoUsecase.ListMemos(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, "Failed to get memos", err)
		return
	}

	c.JSON(http.StatusOK, h.toMemoResponseDTOs(memos))
}

// ReplaceMemo overwrites a memo (PUT)
func (h *MemoHandler) ReplaceMemo(c *gin.Context) {
	id, ok := h.memoID(c)
	if !ok {
		return
	}

	var req CreateMemoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondValidation(c, h.logger, "Validation failed", err)
		return
	}

	memo, err := h.memoUsecase.ReplaceMemo(c.Request.Context(), id, h.toCreateRequest(req))
	if err != nil {
		respondError(c, h.logger, "Failed to update memo", err)
		return
	}

	c.JSON(http.StatusOK, h.toMemoResponseDTO(memo))
}

// UpdateMemo applies a partial update (PATCH)
func (h *MemoHandler) UpdateMemo(c *gin.Context) {
	id, ok := h.memoID(c)
	if !ok {
		return
	}

	var req UpdateMemoRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		respondValidation(c, h.logger, "Invalid request format", err)
		return
	}

	memo, err := h.memoUsecase.UpdateMemo(c.Request.Context(), id, usecase.UpdateMemoRequest{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       req.Tags,
		IsPinned:   req.IsPinned,
		IsArchived: req.IsArchived,
	})
	if err != nil {
		respondError(c, h.logger, "Failed to update memo", err)
		return
	}

	c.JSON(http.StatusOK, h.toMemoResponseDTO(memo))
}

// DeleteMemo deletes a memo
func (h *MemoHandler) DeleteMemo(c *gin.Context) {
	id, ok := h.memoID(c)
	if !ok {
		return
	}

	if err := h.memoUsecase.DeleteMemo(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "Failed to delete memo", err)
		return
	}

	c.JSON(http.StatusOK, MessageResponseDTO{Message: "Memo deleted"})
}

// ArchiveMemo archives a memo
func (h *MemoHandler) ArchiveMemo(c *gin.Context) {
	h.toggle(c, "Failed to archive memo", h.memoUsecase.ArchiveMemo)
}

// RestoreMemo restores an archived memo
func (h *MemoHandler) RestoreMemo(c *gin.Context) {
	h.toggle(c, "Failed to restore memo", h.memoUsecase.RestoreMemo)
}

// PinMemo pins a memo
func (h *MemoHandler) PinMemo(c *gin.Context) {
	h.toggle(c, "Failed to pin memo", func(ctx context.Context, id string) (*domain.Memo, error) {
		return h.memoUsecase.PinMemo(ctx, id, true)
	})
}

// UnpinMemo unpins a memo
func (h *MemoHandler) UnpinMemo(c *gin.Context) {
	h.toggle(c, "Failed to unpin memo", func(ctx context.Context, id string) (*domain.Memo, error) {
		return h.memoUsecase.PinMemo(ctx, id, false)
	})
}

func (h *MemoHandler) toggle(c *gin.Context, summary string, apply func(ctx context.Context, id string) (*domain.Memo, error)) {
	id, ok := h.memoID(c)
	if !ok {
		return
	}

	memo, err := apply(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, summary, err)
		return
	}

	h.logger.WithFields(logrus.Fields{
		"memo_id":     id,
		"is_pinned":   memo.IsPinned,
		"is_archived": memo.IsArchived,
	}).Debug("メモの状態を変更しました")
	c.JSON(http.StatusOK, h.toMemoResponseDTO(memo))
}

// Helper methods for conversion

func (h *MemoHandler) toCreateRequest(req CreateMemoRequestDTO) usecase.CreateMemoRequest {
	return usecase.CreateMemoRequest{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Tags:     req.Tags,
		IsPinned: req.IsPinned != nil && *req.IsPinned,
	}
}

func (h *MemoHandler) toMemoResponseDTO(memo *domain.Memo) MemoResponseDTO {
	tags := memo.Tags
	if tags == nil {
		tags = []string{}
	}
	return MemoResponseDTO{
		ID:         memo.ID,
		Title:      memo.Title,
		Content:    memo.Content,
		Category:   memo.Category,
		Tags:       tags,
		CreatedAt:  memo.CreatedAt,
		UpdatedAt:  memo.UpdatedAt,
		IsPinned:   memo.IsPinned,
		IsArchived: memo.IsArchived,
	}
}

func (h *MemoHandler) toMemoResponseDTOs(memos []domain.Memo) []MemoResponseDTO {
	result := make([]MemoResponseDTO, len(memos))
	for i := range memos {
		result[i] = h.toMemoResponseDTO(&memos[i])
	}
	return result
}

func (h *MemoHandler) toDomainFilter(dto MemoFilterDTO) (domain.MemoFilter, error) {
	filter := domain.MemoFilter{
		Category: dto.Category,
		Search:   dto.Search,
	}

	if dto.Tags != "" {
		for _, tag := range strings.Split(dto.Tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	if dto.IsPinned != "" {
		pinned := dto.IsPinned == "true"
		filter.IsPinned = &pinned
	}
	if dto.IsArchived != "" {
		archived := dto.IsArchived == "true"
		filter.IsArchived = &archived
	}

	if dto.Sort != "" || dto.Order != "" {
		order := domain.OrderBy{Field: domain.SortByUpdatedAt, Direction: domain.Desc}
		if dto.Sort != "" {
			order.Field = domain.SortField(dto.Sort)
		}
		if dto.Order != "" {
			order.Direction = domain.Direction(dto.Order)
		}
		filter.OrderBy = &order
	}

	if dto.Limit != "" {
		limit, err := strconv.Atoi(dto.Limit)
		if err != nil {
			return filter, usecase.ErrInvalidLimit
		}
		filter.Limit = limit
	}

	return filter, nil
}

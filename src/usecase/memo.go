package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"memo-notes/src/domain"
)

const maxTitleLength = 200

var (
	ErrInvalidTitle    = errors.New("title is required and must be at most 200 characters")
	ErrInvalidContent  = errors.New("content is required")
	ErrInvalidCategory = errors.New("category is required")
	ErrInvalidSort     = errors.New("sort must be createdAt, updatedAt or title")
	ErrInvalidOrder    = errors.New("order must be asc or desc")
	ErrInvalidLimit    = errors.New("limit must not be negative")
)

// CreateMemoRequest represents input for creating or replacing a memo
type CreateMemoRequest struct {
	Title    string
	Content  string
	Category string
	Tags     []string
	IsPinned bool
}

// UpdateMemoRequest represents input for a partial memo update
type UpdateMemoRequest struct {
	Title      *string
	Content    *string
	Category   *string
	Tags       []string
	IsPinned   *bool
	IsArchived *bool
}

// MemoUsecase defines the interface for memo business logic
type MemoUsecase interface {
	CreateMemo(ctx context.Context, req CreateMemoRequest) (*domain.Memo, error)
	GetMemo(ctx context.Context, id string) (*domain.MemoView, error)
	ListMemos(ctx context.Context, filter domain.MemoFilter) ([]domain.Memo, error)
	ReplaceMemo(ctx context.Context, id string, req CreateMemoRequest) (*domain.Memo, error)
	UpdateMemo(ctx context.Context, id string, req UpdateMemoRequest) (*domain.Memo, error)
	DeleteMemo(ctx context.Context, id string) error
	ArchiveMemo(ctx context.Context, id string) (*domain.Memo, error)
	RestoreMemo(ctx context.Context, id string) (*domain.Memo, error)
	PinMemo(ctx context.Context, id string, pinned bool) (*domain.Memo, error)
}

type memoUsecase struct {
	memoRepo domain.MemoRepository
}

// NewMemoUsecase creates a new memo usecase
func NewMemoUsecase(memoRepo domain.MemoRepository) MemoUsecase {
	return &memoUsecase{
		memoRepo: memoRepo,
	}
}

// CreateMemo creates a new, unarchived memo
func (u *memoUsecase) CreateMemo(ctx context.Context, req CreateMemoRequest) (*domain.Memo, error) {
	if err := u.validateCreateRequest(req); err != nil {
		return nil, err
	}

	memo := &domain.Memo{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		Tags:       u.normalizeTags(req.Tags),
		IsPinned:   req.IsPinned,
		IsArchived: false,
	}

	return u.memoRepo.Create(ctx, memo)
}

// GetMemo retrieves a memo by ID with its navigation neighbours
func (u *memoUsecase) GetMemo(ctx context.Context, id string) (*domain.MemoView, error) {
	return u.memoRepo.Find(ctx, id)
}

// ListMemos retrieves memos with filtering. Without an explicit order the
// most recently updated memos come first.
func (u *memoUsecase) ListMemos(ctx context.Context, filter domain.MemoFilter) ([]domain.Memo, error) {
	if err := u.validateAndNormalizeFilter(&filter); err != nil {
		return nil, err
	}

	return u.memoRepo.FindMany(ctx, filter)
}

// ReplaceMemo overwrites the editable fields of a memo. Tags default to
// none and the pinned flag to false, as when creating.
func (u *memoUsecase) ReplaceMemo(ctx context.Context, id string, req CreateMemoRequest) (*domain.Memo, error) {
	if err := u.validateCreateRequest(req); err != nil {
		return nil, err
	}

	return u.memoRepo.Update(ctx, id, domain.MemoPatch{
		Title:    &req.Title,
		Content:  &req.Content,
		Category: &req.Category,
		Tags:     u.normalizeTags(req.Tags),
		IsPinned: &req.IsPinned,
	})
}

// UpdateMemo applies the fields present in req
func (u *memoUsecase) UpdateMemo(ctx context.Context, id string, req UpdateMemoRequest) (*domain.Memo, error) {
	if err := u.validateUpdateRequest(req); err != nil {
		return nil, err
	}

	patch := domain.MemoPatch{
		Title:      req.Title,
		Content:    req.Content,
		Category:   req.Category,
		IsPinned:   req.IsPinned,
		IsArchived: req.IsArchived,
	}
	if req.Tags != nil {
		patch.Tags = u.normalizeTags(req.Tags)
	}

	return u.memoRepo.Update(ctx, id, patch)
}

// DeleteMemo permanently deletes a memo
func (u *memoUsecase) DeleteMemo(ctx context.Context, id string) error {
	return u.memoRepo.Delete(ctx, id)
}

// ArchiveMemo archives a memo
func (u *memoUsecase) ArchiveMemo(ctx context.Context, id string) (*domain.Memo, error) {
	archived := true
	return u.memoRepo.Update(ctx, id, domain.MemoPatch{IsArchived: &archived})
}

// RestoreMemo restores an archived memo
func (u *memoUsecase) RestoreMemo(ctx context.Context, id string) (*domain.Memo, error) {
	archived := false
	return u.memoRepo.Update(ctx, id, domain.MemoPatch{IsArchived: &archived})
}

// PinMemo pins or unpins a memo
func (u *memoUsecase) PinMemo(ctx context.Context, id string, pinned bool) (*domain.Memo, error) {
	return u.memoRepo.Update(ctx, id, domain.MemoPatch{IsPinned: &pinned})
}

func validTitle(title string) bool {
	return strings.TrimSpace(title) != "" && utf8.RuneCountInString(title) <= maxTitleLength
}

// validateCreateRequest validates create memo request
func (u *memoUsecase) validateCreateRequest(req CreateMemoRequest) error {
	if !validTitle(req.Title) {
		return ErrInvalidTitle
	}
	if strings.TrimSpace(req.Content) == "" {
		return ErrInvalidContent
	}
	if strings.TrimSpace(req.Category) == "" {
		return ErrInvalidCategory
	}
	return nil
}

// validateUpdateRequest validates update memo request
func (u *memoUsecase) validateUpdateRequest(req UpdateMemoRequest) error {
	if req.Title != nil && !validTitle(*req.Title) {
		return ErrInvalidTitle
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return ErrInvalidContent
	}
	if req.Category != nil && strings.TrimSpace(*req.Category) == "" {
		return ErrInvalidCategory
	}
	return nil
}

// validateAndNormalizeFilter validates and normalizes filter
func (u *memoUsecase) validateAndNormalizeFilter(filter *domain.MemoFilter) error {
	if filter.Limit < 0 {
		return ErrInvalidLimit
	}

	if filter.OrderBy == nil {
		filter.OrderBy = &domain.OrderBy{Field: domain.SortByUpdatedAt, Direction: domain.Desc}
		return nil
	}
	if !filter.OrderBy.Field.IsValid() {
		return ErrInvalidSort
	}
	if !filter.OrderBy.Direction.IsValid() {
		return ErrInvalidOrder
	}
	return nil
}

// normalizeTags normalizes tags by removing empty ones and duplicates
func (u *memoUsecase) normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(tags))

	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" && !seen[trimmed] {
			seen[trimmed] = true
			result = append(result, trimmed)
		}
	}

	return result
}

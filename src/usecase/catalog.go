package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"memo-notes/src/domain"

	"github.com/google/uuid"
)

// defaultColor is used when a category or tag is created without a color
const defaultColor = "#6B7280"

var (
	ErrInvalidName  = errors.New("name is required")
	ErrInvalidSlug  = errors.New("slug must be lowercase letters, digits and single hyphens")
	ErrInvalidColor = errors.New("color must be a #RRGGBB hex value")
)

var (
	slugPattern    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	colorPattern   = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	nonSlugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

// CreateCategoryRequest represents input for creating a category
type CreateCategoryRequest struct {
	Name  string
	Slug  string
	Color string
	Icon  string
}

// UpdateCategoryRequest represents input for updating a category
type UpdateCategoryRequest struct {
	Name  *string
	Slug  *string
	Color *string
	Icon  *string
}

// CreateTagRequest represents input for creating a tag
type CreateTagRequest struct {
	Name  string
	Color string
}

// UpdateTagRequest represents input for updating a tag
type UpdateTagRequest struct {
	Name  *string
	Color *string
}

// CategoryUsecase defines the interface for category business logic
type CategoryUsecase interface {
	CreateCategory(ctx context.Context, req CreateCategoryRequest) (*domain.Category, error)
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// TagUsecase defines the interface for tag business logic
type TagUsecase interface {
	CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error)
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	ListTags(ctx context.Context, filter domain.TagFilter) ([]domain.Tag, error)
	UpdateTag(ctx context.Context, id string, req UpdateTagRequest) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id string) error
}

type categoryUsecase struct {
	categoryRepo domain.CategoryRepository
}

// NewCategoryUsecase creates a new category usecase
func NewCategoryUsecase(categoryRepo domain.CategoryRepository) CategoryUsecase {
	return &categoryUsecase{categoryRepo: categoryRepo}
}

// Slugify derives a URL-safe slug from a display name
func Slugify(name string) string {
	slug := nonSlugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// fallbackSlug returns a slug for names with no ASCII letters or digits
func fallbackSlug() string {
	return "category-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

func (u *categoryUsecase) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	slug := req.Slug
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		// 英数字を含まない名前（例: 日本語・韓国語）は自動生成
		slug = fallbackSlug()
	}
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	color := req.Color
	if color == "" {
		color = defaultColor
	}
	if !colorPattern.MatchString(color) {
		return nil, ErrInvalidColor
	}

	return u.categoryRepo.Create(ctx, &domain.Category{
		Name:  name,
		Slug:  slug,
		Color: color,
		Icon:  req.Icon,
	})
}

func (u *categoryUsecase) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	return u.categoryRepo.FindByID(ctx, id)
}

func (u *categoryUsecase) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return u.categoryRepo.FindBySlug(ctx, slug)
}

func (u *categoryUsecase) ListCategories(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	if filter.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	return u.categoryRepo.FindMany(ctx, filter)
}

func (u *categoryUsecase) UpdateCategory(ctx context.Context, id string, req UpdateCategoryRequest) (*domain.Category, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrInvalidName
	}
	if req.Slug != nil && !slugPattern.MatchString(*req.Slug) {
		return nil, ErrInvalidSlug
	}
	if req.Color != nil && !colorPattern.MatchString(*req.Color) {
		return nil, ErrInvalidColor
	}

	return u.categoryRepo.Update(ctx, id, domain.CategoryPatch{
		Name:  req.Name,
		Slug:  req.Slug,
		Color: req.Color,
		Icon:  req.Icon,
	})
}

func (u *categoryUsecase) DeleteCategory(ctx context.Context, id string) error {
	return u.categoryRepo.Delete(ctx, id)
}

type tagUsecase struct {
	tagRepo domain.TagRepository
}

// NewTagUsecase creates a new tag usecase
func NewTagUsecase(tagRepo domain.TagRepository) TagUsecase {
	return &tagUsecase{tagRepo: tagRepo}
}

func (u *tagUsecase) CreateTag(ctx context.Context, req CreateTagRequest) (*domain.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}

	color := req.Color
	if color == "" {
		color = defaultColor
	}
	if !colorPattern.MatchString(color) {
		return nil, ErrInvalidColor
	}

	return u.tagRepo.Create(ctx, &domain.Tag{Name: name, Color: color})
}

func (u *tagUsecase) GetTag(ctx context.Context, id string) (*domain.Tag, error) {
	return u.tagRepo.FindByID(ctx, id)
}

func (u *tagUsecase) ListTags(ctx context.Context, filter domain.TagFilter) ([]domain.Tag, error) {
	if filter.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	return u.tagRepo.FindMany(ctx, filter)
}

func (u *tagUsecase) UpdateTag(ctx context.Context, id string, req UpdateTagRequest) (*domain.Tag, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrInvalidName
	}
	if req.Color != nil && !colorPattern.MatchString(*req.Color) {
		return nil, ErrInvalidColor
	}

	return u.tagRepo.Update(ctx, id, domain.TagPatch{Name: req.Name, Color: req.Color})
}

func (u *tagUsecase) DeleteTag(ctx context.Context, id string) error {
	return u.tagRepo.Delete(ctx, id)
}

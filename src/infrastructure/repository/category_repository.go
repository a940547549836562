package repository

import (
	"context"
	"slices"

	"memo-notes/src/domain"
	"memo-notes/src/infrastructure/store"

	"github.com/sirupsen/logrus"
)

// CategoryRepository implements domain.CategoryRepository over the record store
type CategoryRepository struct {
	store  *store.Store
	logger *logrus.Logger
	cfg    config
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(s *store.Store, logger *logrus.Logger, opts ...Option) domain.CategoryRepository {
	return &CategoryRepository{
		store:  s,
		logger: logger,
		cfg:    newConfig(opts),
	}
}

func slugTaken(categories []domain.Category, slug, exceptID string) bool {
	return slices.ContainsFunc(categories, func(c domain.Category) bool {
		return c.Slug == slug && c.ID != exceptID
	})
}

// Create assigns an id and appends the category
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	created := *category
	created.ID = r.cfg.newID()

	err := r.store.Mutate(ctx, store.Categories, "create", func(d *store.Data) error {
		if slugTaken(d.Categories, created.Slug, "") {
			return domain.ErrDuplicateSlug
		}
		d.Categories = append(d.Categories, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("category_id", created.ID).Info("カテゴリを作成しました")
	return &created, nil
}

func (r *CategoryRepository) findOne(pred domain.Predicate[domain.Category]) (*domain.Category, error) {
	var found *domain.Category
	r.store.View(func(d *store.Data) {
		if i := slices.IndexFunc(d.Categories, pred); i >= 0 {
			c := d.Categories[i]
			found = &c
		}
	})
	if found == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return found, nil
}

// FindByID returns the category with the given id
func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.findOne(domain.CategoryWithID(id))
}

// FindBySlug returns the category with the given slug
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(domain.CategoryWithSlug(slug))
}

// FindMany returns the categories matching the filter in collection order
func (r *CategoryRepository) FindMany(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error) {
	var result []domain.Category
	r.store.View(func(d *store.Data) {
		result = domain.Select(d.Categories, filter.Predicate())
	})
	return domain.Truncate(result, filter.Limit), nil
}

// Update merges the patch into the category
func (r *CategoryRepository) Update(ctx context.Context, id string, patch domain.CategoryPatch) (*domain.Category, error) {
	var updated domain.Category
	err := r.store.Mutate(ctx, store.Categories, "update", func(d *store.Data) error {
		i := slices.IndexFunc(d.Categories, domain.CategoryWithID(id))
		if i < 0 {
			return domain.ErrCategoryNotFound
		}

		category := d.Categories[i]
		if patch.Name != nil {
			category.Name = *patch.Name
		}
		if patch.Slug != nil {
			if slugTaken(d.Categories, *patch.Slug, id) {
				return domain.ErrDuplicateSlug
			}
			category.Slug = *patch.Slug
		}
		if patch.Color != nil {
			category.Color = *patch.Color
		}
		if patch.Icon != nil {
			category.Icon = *patch.Icon
		}

		d.Categories[i] = category
		updated = category
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("category_id", id).Info("カテゴリを更新しました")
	return &updated, nil
}

// Delete removes the category. Memos referring to it are left untouched.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Mutate(ctx, store.Categories, "delete", func(d *store.Data) error {
		i := slices.IndexFunc(d.Categories, domain.CategoryWithID(id))
		if i < 0 {
			return domain.ErrCategoryNotFound
		}
		d.Categories = slices.Delete(d.Categories, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.WithField("category_id", id).Info("カテゴリを削除しました")
	return nil
}

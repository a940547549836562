package repository

import (
	"context"
	"slices"

	"memo-notes/src/domain"
	"memo-notes/src/infrastructure/store"

	"github.com/sirupsen/logrus"
)

// TagRepository implements domain.TagRepository over the record store
type TagRepository struct {
	store  *store.Store
	logger *logrus.Logger
	cfg    config
}

// NewTagRepository creates a new tag repository
func NewTagRepository(s *store.Store, logger *logrus.Logger, opts ...Option) domain.TagRepository {
	return &TagRepository{
		store:  s,
		logger: logger,
		cfg:    newConfig(opts),
	}
}

// Create assigns an id and appends the tag
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) (*domain.Tag, error) {
	created := *tag
	created.ID = r.cfg.newID()

	err := r.store.Mutate(ctx, store.Tags, "create", func(d *store.Data) error {
		d.Tags = append(d.Tags, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("tag_id", created.ID).Info("タグを作成しました")
	return &created, nil
}

func (r *TagRepository) findOne(pred domain.Predicate[domain.Tag]) (*domain.Tag, error) {
	var found *domain.Tag
	r.store.View(func(d *store.Data) {
		if i := slices.IndexFunc(d.Tags, pred); i >= 0 {
			t := d.Tags[i]
			found = &t
		}
	})
	if found == nil {
		return nil, domain.ErrTagNotFound
	}
	return found, nil
}

// FindByID returns the tag with the given id
func (r *TagRepository) FindByID(ctx context.Context, id string) (*domain.Tag, error) {
	return r.findOne(domain.TagWithID(id))
}

// FindByName returns the first tag with the given name
func (r *TagRepository) FindByName(ctx context.Context, name string) (*domain.Tag, error) {
	return r.findOne(domain.TagWithName(name))
}

// FindMany returns the tags matching the filter in collection order
func (r *TagRepository) FindMany(ctx context.Context, filter domain.TagFilter) ([]domain.Tag, error) {
	var result []domain.Tag
	r.store.View(func(d *store.Data) {
		result = domain.Select(d.Tags, filter.Predicate())
	})
	return domain.Truncate(result, filter.Limit), nil
}

// Update merges the patch into the tag
func (r *TagRepository) Update(ctx context.Context, id string, patch domain.TagPatch) (*domain.Tag, error) {
	var updated domain.Tag
	err := r.store.Mutate(ctx, store.Tags, "update", func(d *store.Data) error {
		i := slices.IndexFunc(d.Tags, domain.TagWithID(id))
		if i < 0 {
			return domain.ErrTagNotFound
		}

		tag := d.Tags[i]
		if patch.Name != nil {
			tag.Name = *patch.Name
		}
		if patch.Color != nil {
			tag.Color = *patch.Color
		}

		d.Tags[i] = tag
		updated = tag
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("tag_id", id).Info("タグを更新しました")
	return &updated, nil
}

// Delete removes the tag. Memos referring to it are left untouched.
func (r *TagRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Mutate(ctx, store.Tags, "delete", func(d *store.Data) error {
		i := slices.IndexFunc(d.Tags, domain.TagWithID(id))
		if i < 0 {
			return domain.ErrTagNotFound
		}
		d.Tags = slices.Delete(d.Tags, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.WithField("tag_id", id).Info("タグを削除しました")
	return nil
}

package repository

import (
	"context"
	"slices"

	"memo-notes/src/domain"
	"memo-notes/src/infrastructure/store"

	"github.com/sirupsen/logrus"
)

// MemoRepository implements domain.MemoRepository over the record store
type MemoRepository struct {
	store  *store.Store
	logger *logrus.Logger
	cfg    config
}

// NewMemoRepository creates a new memo repository
func NewMemoRepository(s *store.Store, logger *logrus.Logger, opts ...Option) domain.MemoRepository {
	return &MemoRepository{
		store:  s,
		logger: logger,
		cfg:    newConfig(opts),
	}
}

func copyMemo(m domain.Memo) domain.Memo {
	m.Tags = slices.Clone(m.Tags)
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}

func memoIndex(memos []domain.Memo, id string) int {
	return slices.IndexFunc(memos, func(m domain.Memo) bool { return m.ID == id })
}

// Create assigns an id and timestamps and appends the memo
func (r *MemoRepository) Create(ctx context.Context, memo *domain.Memo) (*domain.Memo, error) {
	now := r.cfg.now()
	created := copyMemo(*memo)
	created.ID = r.cfg.newID()
	created.CreatedAt = now
	created.UpdatedAt = now

	err := r.store.Mutate(ctx, store.Memos, "create", func(d *store.Data) error {
		d.Memos = append(d.Memos, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("memo_id", created.ID).Info("メモを作成しました")
	result := copyMemo(created)
	return &result, nil
}

// Find returns the memo with its ring neighbours in collection order
func (r *MemoRepository) Find(ctx context.Context, id string) (*domain.MemoView, error) {
	var view *domain.MemoView
	r.store.View(func(d *store.Data) {
		i := memoIndex(d.Memos, id)
		if i < 0 {
			return
		}
		n := len(d.Memos)
		view = &domain.MemoView{
			Memo: copyMemo(d.Memos[i]),
			Prev: d.Memos[(i-1+n)%n].ID,
			Next: d.Memos[(i+1)%n].ID,
		}
	})
	if view == nil {
		return nil, domain.ErrMemoNotFound
	}
	return view, nil
}

// FindMany filters, orders and truncates the memo collection
func (r *MemoRepository) FindMany(ctx context.Context, filter domain.MemoFilter) ([]domain.Memo, error) {
	var result []domain.Memo
	r.store.View(func(d *store.Data) {
		result = domain.Select(d.Memos, filter.Predicate())
	})
	for i := range result {
		result[i] = copyMemo(result[i])
	}

	if filter.OrderBy != nil {
		domain.SortMemos(result, *filter.OrderBy)
	}
	return domain.Truncate(result, filter.Limit), nil
}

// Update merges the patch into the memo. id and createdAt never change and
// updatedAt never moves backwards.
func (r *MemoRepository) Update(ctx context.Context, id string, patch domain.MemoPatch) (*domain.Memo, error) {
	var updated domain.Memo
	err := r.store.Mutate(ctx, store.Memos, "update", func(d *store.Data) error {
		i := memoIndex(d.Memos, id)
		if i < 0 {
			return domain.ErrMemoNotFound
		}

		memo := d.Memos[i]
		if patch.Title != nil {
			memo.Title = *patch.Title
		}
		if patch.Content != nil {
			memo.Content = *patch.Content
		}
		if patch.Category != nil {
			memo.Category = *patch.Category
		}
		if patch.Tags != nil {
			memo.Tags = slices.Clone(patch.Tags)
		}
		if patch.IsPinned != nil {
			memo.IsPinned = *patch.IsPinned
		}
		if patch.IsArchived != nil {
			memo.IsArchived = *patch.IsArchived
		}

		now := r.cfg.now()
		if now.Before(memo.UpdatedAt) {
			now = memo.UpdatedAt
		}
		memo.UpdatedAt = now

		d.Memos[i] = memo
		updated = copyMemo(memo)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.WithField("memo_id", id).Info("メモを更新しました")
	return &updated, nil
}

// Delete removes the memo permanently
func (r *MemoRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Mutate(ctx, store.Memos, "delete", func(d *store.Data) error {
		i := memoIndex(d.Memos, id)
		if i < 0 {
			return domain.ErrMemoNotFound
		}
		d.Memos = slices.Delete(d.Memos, i, i+1)
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.WithField("memo_id", id).Info("メモを削除しました")
	return nil
}

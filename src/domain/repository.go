package domain

import "context"

// MemoRepository defines the interface for memo data operations
type MemoRepository interface {
	Create(ctx context.Context, memo *Memo) (*Memo, error)
	Find(ctx context.Context, id string) (*MemoView, error)
	FindMany(ctx context.Context, filter MemoFilter) ([]Memo, error)
	Update(ctx context.Context, id string, patch MemoPatch) (*Memo, error)
	Delete(ctx context.Context, id string) error
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) (*Category, error)
	FindByID(ctx context.Context, id string) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindMany(ctx context.Context, filter CategoryFilter) ([]Category, error)
	Update(ctx context.Context, id string, patch CategoryPatch) (*Category, error)
	Delete(ctx context.Context, id string) error
}

// TagRepository defines the interface for tag data operations
type TagRepository interface {
	Create(ctx context.Context, tag *Tag) (*Tag, error)
	FindByID(ctx context.Context, id string) (*Tag, error)
	FindByName(ctx context.Context, name string) (*Tag, error)
	FindMany(ctx context.Context, filter TagFilter) ([]Tag, error)
	Update(ctx context.Context, id string, patch TagPatch) (*Tag, error)
	Delete(ctx context.Context, id string) error
}

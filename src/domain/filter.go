package domain

import (
	"slices"
	"strings"
)

// Predicate reports whether a record satisfies a condition
type Predicate[T any] func(T) bool

// All combines predicates with AND. An empty list matches everything.
func All[T any](preds ...Predicate[T]) Predicate[T] {
	return func(v T) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Select returns the records matching pred, preserving order
func Select[T any](items []T, pred Predicate[T]) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			result = append(result, item)
		}
	}
	return result
}

// Truncate cuts items to limit when limit is positive
func Truncate[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// MemoInCategory matches memos of the given category
func MemoInCategory(category string) Predicate[Memo] {
	return func(m Memo) bool {
		return m.Category == category
	}
}

// MemoHasAnyTag matches memos sharing at least one tag with tags
func MemoHasAnyTag(tags []string) Predicate[Memo] {
	return func(m Memo) bool {
		for _, tag := range tags {
			if slices.Contains(m.Tags, tag) {
				return true
			}
		}
		return false
	}
}

// MemoPinned matches memos whose pinned flag equals pinned
func MemoPinned(pinned bool) Predicate[Memo] {
	return func(m Memo) bool {
		return m.IsPinned == pinned
	}
}

// MemoArchived matches memos whose archived flag equals archived
func MemoArchived(archived bool) Predicate[Memo] {
	return func(m Memo) bool {
		return m.IsArchived == archived
	}
}

// MemoMatches is a case-insensitive substring match on title or content
func MemoMatches(search string) Predicate[Memo] {
	term := strings.ToLower(search)
	return func(m Memo) bool {
		return strings.Contains(strings.ToLower(m.Title), term) ||
			strings.Contains(strings.ToLower(m.Content), term)
	}
}

// Predicate builds the conjunction of every criterion set on the filter,
// in the order category, tags, pinned, archived, search.
func (f MemoFilter) Predicate() Predicate[Memo] {
	var preds []Predicate[Memo]
	if f.Category != "" {
		preds = append(preds, MemoInCategory(f.Category))
	}
	if len(f.Tags) > 0 {
		preds = append(preds, MemoHasAnyTag(f.Tags))
	}
	if f.IsPinned != nil {
		preds = append(preds, MemoPinned(*f.IsPinned))
	}
	if f.IsArchived != nil {
		preds = append(preds, MemoArchived(*f.IsArchived))
	}
	if f.Search != "" {
		preds = append(preds, MemoMatches(f.Search))
	}
	return All(preds...)
}

// SortMemos orders memos in place by a single field. The sort is stable so
// equal keys keep their collection order.
func SortMemos(memos []Memo, order OrderBy) {
	cmp := func(a, b Memo) int {
		switch order.Field {
		case SortByCreatedAt:
			return a.CreatedAt.Compare(b.CreatedAt)
		case SortByTitle:
			return strings.Compare(a.Title, b.Title)
		default:
			return a.UpdatedAt.Compare(b.UpdatedAt)
		}
	}
	slices.SortStableFunc(memos, func(a, b Memo) int {
		if order.Direction == Desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
}

// CategoryWithID matches the category with the given id
func CategoryWithID(id string) Predicate[Category] {
	return func(c Category) bool {
		return c.ID == id
	}
}

// CategoryWithSlug matches the category with the given slug
func CategoryWithSlug(slug string) Predicate[Category] {
	return func(c Category) bool {
		return c.Slug == slug
	}
}

// Predicate builds the conjunction of the category filter criteria
func (f CategoryFilter) Predicate() Predicate[Category] {
	var preds []Predicate[Category]
	if f.ID != "" {
		preds = append(preds, CategoryWithID(f.ID))
	}
	if f.Slug != "" {
		preds = append(preds, CategoryWithSlug(f.Slug))
	}
	return All(preds...)
}

// TagWithID matches the tag with the given id
func TagWithID(id string) Predicate[Tag] {
	return func(t Tag) bool {
		return t.ID == id
	}
}

// TagWithName matches the tag with the given name
func TagWithName(name string) Predicate[Tag] {
	return func(t Tag) bool {
		return t.Name == name
	}
}

// Predicate builds the conjunction of the tag filter criteria
func (f TagFilter) Predicate() Predicate[Tag] {
	var preds []Predicate[Tag]
	if f.ID != "" {
		preds = append(preds, TagWithID(f.ID))
	}
	if f.Name != "" {
		preds = append(preds, TagWithName(f.Name))
	}
	return All(preds...)
}

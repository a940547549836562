package domain

import (
	"time"
)

// Memo represents a memo domain entity
type Memo struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	IsPinned   bool      `json:"isPinned"`
	IsArchived bool      `json:"isArchived"`
}

// MemoView is a memo together with the ids of its neighbours
type MemoView struct {
	Memo
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// MemoPatch holds a partial memo update. Nil fields are left untouched.
type MemoPatch struct {
	Title      *string
	Content    *string
	Category   *string
	Tags       []string
	IsPinned   *bool
	IsArchived *bool
}

// Category represents the single required classification of a memo
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Slug  string `json:"slug" yaml:"slug"`
	Color string `json:"color" yaml:"color"`
	Icon  string `json:"icon" yaml:"icon"`
}

// CategoryPatch holds a partial category update
type CategoryPatch struct {
	Name  *string
	Slug  *string
	Color *string
	Icon  *string
}

// Tag represents an optional, multi-valued label of a memo
type Tag struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color" yaml:"color"`
}

// TagPatch holds a partial tag update
type TagPatch struct {
	Name  *string
	Color *string
}

// SortField is a memo field usable for ordering
type SortField string

const (
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
	SortByTitle     SortField = "title"
)

// Direction is the ordering direction
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// OrderBy describes a single-field ordering
type OrderBy struct {
	Field     SortField
	Direction Direction
}

// MemoFilter represents filter criteria for memo queries
type MemoFilter struct {
	Category   string
	Tags       []string
	IsPinned   *bool
	IsArchived *bool
	Search     string
	OrderBy    *OrderBy
	// Limit truncates the result when greater than zero
	Limit int
}

// CategoryFilter represents filter criteria for category queries
type CategoryFilter struct {
	ID    string
	Slug  string
	Limit int
}

// TagFilter represents filter criteria for tag queries
type TagFilter struct {
	ID    string
	Name  string
	Limit int
}

// IsValid validates if the sort field is known
func (f SortField) IsValid() bool {
	switch f {
	case SortByCreatedAt, SortByUpdatedAt, SortByTitle:
		return true
	default:
		return false
	}
}

// IsValid validates if the direction is known
func (d Direction) IsValid() bool {
	switch d {
	case Asc, Desc:
		return true
	default:
		return false
	}
}

// String returns string representation of SortField
func (f SortField) String() string {
	return string(f)
}

// String returns string representation of Direction
func (d Direction) String() string {
	return string(d)
}

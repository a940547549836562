package handler

import (
	"time"

	"memo-notes/src/validator"
)

// CreateMemoRequestDTO represents HTTP request for creating or replacing a memo
type CreateMemoRequestDTO struct {
	Title    string   `json:"title" validate:"required,max=200,safe_text"`
	Content  string   `json:"content" validate:"required,safe_text"`
	Category string   `json:"category" validate:"required,record_id"`
	Tags     []string `json:"tags" validate:"omitempty,dive,record_id"`
	IsPinned *bool    `json:"isPinned"`
}

// UpdateMemoRequestDTO represents HTTP request for a partial memo update
type UpdateMemoRequestDTO struct {
	Title      *string  `json:"title,omitempty" validate:"omitempty,max=200,safe_text"`
	Content    *string  `json:"content,omitempty" validate:"omitempty,safe_text"`
	Category   *string  `json:"category,omitempty" validate:"omitempty,record_id"`
	Tags       []string `json:"tags,omitempty" validate:"omitempty,dive,record_id"`
	IsPinned   *bool    `json:"isPinned,omitempty"`
	IsArchived *bool    `json:"isArchived,omitempty"`
}

// MemoResponseDTO represents HTTP response for a memo
type MemoResponseDTO struct {
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

// MemoDetailResponseDTO is a memo with the ids of its neighbours
type MemoDetailResponseDTO struct {
	MemoResponseDTO
	Prev string `json:"prev,omitempty"`
	Next string `json:"next,omitempty"`
}

// MemoFilterDTO represents HTTP query parameters for filtering memos.
// Booleans and the limit are parsed by the handler so that an empty
// parameter means "not set".
type MemoFilterDTO struct {
	Category   string `form:"category" validate:"omitempty,record_id"`
	Tags       string `form:"tags" validate:"omitempty,max=500"`
	Search     string `form:"search" validate:"omitempty,max=200,safe_text"`
	IsPinned   string `form:"isPinned" validate:"omitempty,oneof=true false"`
	IsArchived string `form:"isArchived" validate:"omitempty,oneof=true false"`
	Sort       string `form:"sort" validate:"omitempty,oneof=createdAt updatedAt title"`
	Order      string `form:"order" validate:"omitempty,oneof=asc desc"`
	Limit      string `form:"limit" validate:"omitempty,numeric"`
}

// CreateCategoryRequestDTO represents HTTP request for creating a category
type CreateCategoryRequestDTO struct {
	Name  string `json:"name" validate:"required,max=50,safe_text"`
	Slug  string `json:"slug" validate:"omitempty,max=50,slug"`
	Color string `json:"color" validate:"omitempty,color_hex"`
	Icon  string `json:"icon" validate:"omitempty,max=16"`
}

// UpdateCategoryRequestDTO represents HTTP request for updating a category
type UpdateCategoryRequestDTO struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=50,safe_text"`
	Slug  *string `json:"slug,omitempty" validate:"omitempty,max=50,slug"`
	Color *string `json:"color,omitempty" validate:"omitempty,color_hex"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=16"`
}

// CategoryFilterDTO represents HTTP query parameters for listing categories
type CategoryFilterDTO struct {
	Slug  string `form:"slug" validate:"omitempty,slug"`
	Limit int    `form:"limit" validate:"min=0"`
}

// CreateTagRequestDTO represents HTTP request for creating a tag
type CreateTagRequestDTO struct {
	Name  string `json:"name" validate:"required,max=30,safe_text"`
	Color string `json:"color" validate:"omitempty,color_hex"`
}

// UpdateTagRequestDTO represents HTTP request for updating a tag
type UpdateTagRequestDTO struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,max=30,safe_text"`
	Color *string `json:"color,omitempty" validate:"omitempty,color_hex"`
}

// TagFilterDTO represents HTTP query parameters for listing tags
type TagFilterDTO struct {
	Name  string `form:"name" validate:"omitempty,max=30"`
	Limit int    `form:"limit" validate:"min=0"`
}

// MessageResponseDTO represents a plain confirmation
type MessageResponseDTO struct {
	Message string `json:"message"`
}

// ErrorResponseDTO represents HTTP error response
type ErrorResponseDTO struct {
	Error   string                      `json:"error"`
	Message string                      `json:"message,omitempty"`
	Details []validator.ValidationError `json:"details,omitempty"`
}

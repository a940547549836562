package domain

import "errors"

var (
	ErrMemoNotFound     = errors.New("memo not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrDuplicateSlug    = errors.New("category slug already exists")
)

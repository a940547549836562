package usecase_test

import (
	"context"
	"testing"

	"memo-notes/src/domain"
	"memo-notes/src/infrastructure/repository"
	"memo-notes/src/infrastructure/store"
	"memo-notes/src/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (usecase.CategoryUsecase, usecase.TagUsecase) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	s := store.New(store.NewFileBackend(t.TempDir()), logger, store.Options{})
	require.NoError(t, s.Load(context.Background()))

	return usecase.NewCategoryUsecase(repository.NewCategoryRepository(s, logger)),
		usecase.NewTagUsecase(repository.NewTagRepository(s, logger))
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Home Office":    "home-office",
		"  Side  Jobs! ": "side-jobs",
		"R&D 2024":       "r-d-2024",
	}
	for name, expected := range tests {
		assert.Equal(t, expected, usecase.Slugify(name), name)
	}
}

func TestCategoryUsecase(t *testing.T) {
	ctx := context.Background()
	categories, _ := newCatalog(t)

	t.Run("スラッグと色の既定値", func(t *testing.T) {
		created, err := categories.CreateCategory(ctx, usecase.CreateCategoryRequest{Name: "Home Office"})
		require.NoError(t, err)

		assert.Equal(t, "home-office", created.Slug)
		assert.Equal(t, "#6B7280", created.Color)

		found, err := categories.GetCategoryBySlug(ctx, "home-office")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("英数字を含まない名前はスラッグを自動生成", func(t *testing.T) {
		first, err := categories.CreateCategory(ctx, usecase.CreateCategoryRequest{Name: "여행 메모"})
		require.NoError(t, err)
		assert.Equal(t, "여행 메모", first.Name)
		assert.Regexp(t, `^category-[0-9a-f]{8}$`, first.Slug)

		second, err := categories.CreateCategory(ctx, usecase.CreateCategoryRequest{Name: "旅行"})
		require.NoError(t, err)
		assert.NotEqual(t, first.Slug, second.Slug)

		found, err := categories.GetCategoryBySlug(ctx, first.Slug)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
	})

	t.Run("入力エラー", func(t *testing.T) {
		_, err := categories.CreateCategory(ctx, usecase.CreateCategoryRequest{Name: " "})
		assert.ErrorIs(t, err, usecase.ErrInvalidName)

		_, err = categories.CreateCategory(ctx, usecase.CreateCategoryRequest{Name: "X", Slug: "Bad Slug"})
		assert.ErrorIs(t, err, usecase.ErrInvalidSlug)

		_, err = categories.CreateCategory(ctx, usecase.CreateCategoryRequest{Name: "X", Color: "red"})
		assert.ErrorIs(t, err, usecase.ErrInvalidColor)

		_, err = categories.ListCategories(ctx, domain.CategoryFilter{Limit: -1})
		assert.ErrorIs(t, err, usecase.ErrInvalidLimit)
	})

	t.Run("スラッグの重複", func(t *testing.T) {
		_, err := categories.CreateCategory(ctx, usecase.CreateCategoryRequest{Name: "Work"})
		assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
	})

	t.Run("更新と削除", func(t *testing.T) {
		color := "#000000"
		updated, err := categories.UpdateCategory(ctx, "3", usecase.UpdateCategoryRequest{Color: &color})
		require.NoError(t, err)
		assert.Equal(t, "Ideas", updated.Name)
		assert.Equal(t, "#000000", updated.Color)

		require.NoError(t, categories.DeleteCategory(ctx, "3"))
		_, err = categories.GetCategory(ctx, "3")
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	})
}

func TestTagUsecase(t *testing.T) {
	ctx := context.Background()
	_, tags := newCatalog(t)

	created, err := tags.CreateTag(ctx, usecase.CreateTagRequest{Name: "  Later  "})
	require.NoError(t, err)
	assert.Equal(t, "Later", created.Name)
	assert.Equal(t, "#6B7280", created.Color)

	_, err = tags.CreateTag(ctx, usecase.CreateTagRequest{Name: ""})
	assert.ErrorIs(t, err, usecase.ErrInvalidName)

	empty := " "
	_, err = tags.UpdateTag(ctx, created.ID, usecase.UpdateTagRequest{Name: &empty})
	assert.ErrorIs(t, err, usecase.ErrInvalidName)

	all, err := tags.ListTags(ctx, domain.TagFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 7)

	require.NoError(t, tags.DeleteTag(ctx, created.ID))
	_, err = tags.GetTag(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}

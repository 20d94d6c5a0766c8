package usecase

import (
	"context"
	"testing"

	"github.com/qwaszxg/api-yamdb/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCategoryService(repo.Category, testLogger())

	resp, err := svc.CreateCategory(context.Background(), &request.CreateCategoryRequest{
		Name: "Books",
		Slug: "books",
	})
	require.NoError(t, err)
	assert.Equal(t, "Books", resp.Name)
	assert.Equal(t, "books", resp.Slug)
}

func TestCreateCategory_DuplicateSlug(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCategoryService(repo.Category, testLogger())

	_, err := svc.CreateCategory(context.Background(), &request.CreateCategoryRequest{
		Name: "Books", Slug: "books",
	})
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), &request.CreateCategoryRequest{
		Name: "Other books", Slug: "books",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateCategory_BadSlug(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCategoryService(repo.Category, testLogger())

	_, err := svc.CreateCategory(context.Background(), &request.CreateCategoryRequest{
		Name: "Books", Slug: "no spaces!",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestCreateGenre_DuplicateSlug(t *testing.T) {
	repo := newFakeRepository()
	svc := NewGenreService(repo.Genre, testLogger())

	_, err := svc.CreateGenre(context.Background(), &request.CreateGenreRequest{
		Name: "Sci-Fi", Slug: "sci-fi",
	})
	require.NoError(t, err)

	_, err = svc.CreateGenre(context.Background(), &request.CreateGenreRequest{
		Name: "Science Fiction", Slug: "sci-fi",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestGetAllCategories(t *testing.T) {
	repo := newFakeRepository()
	svc := NewCategoryService(repo.Category, testLogger())

	for _, slug := range []string{"books", "films", "music"} {
		_, err := svc.CreateCategory(context.Background(), &request.CreateCategoryRequest{
			Name: slug, Slug: slug,
		})
		require.NoError(t, err)
	}

	categories, total, err := svc.GetAllCategories(context.Background(), "", &request.PaginatedRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, categories, 3)
}

package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryServiceCreate(t *testing.T) {
	svc := NewCategoryService(repository.NewMockCategoryRepository())
	ctx := context.Background()

	c, err := svc.Create(ctx, "Books", "books")
	require.NoError(t, err)
	assert.Equal(t, "books", c.Slug)

	t.Run("duplicate slug", func(t *testing.T) {
		_, err := svc.Create(ctx, "More books", "books")
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "slug")
	})

	t.Run("bad slug", func(t *testing.T) {
		_, err := svc.Create(ctx, "Films", "фильмы")
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "slug")
	})
}

func TestCategoryServiceGetAndDelete(t *testing.T) {
	svc := NewCategoryService(repository.NewMockCategoryRepository())
	ctx := context.Background()

	_, err := svc.Create(ctx, "Books", "books")
	require.NoError(t, err)

	c, err := svc.GetBySlug(ctx, "books")
	require.NoError(t, err)
	assert.Equal(t, "Books", c.Name)

	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	require.NoError(t, svc.Delete(ctx, "books"))
	assert.ErrorIs(t, svc.Delete(ctx, "books"), ErrCategoryNotFound)
}

func TestGenreServiceCreateAndDelete(t *testing.T) {
	svc := NewGenreService(repository.NewMockGenreRepository())
	ctx := context.Background()

	g, err := svc.Create(ctx, "Drama", "drama")
	require.NoError(t, err)
	assert.Equal(t, "drama", g.Slug)

	_, err = svc.Create(ctx, "Drama again", "drama")
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "slug")

	_, err = svc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrGenreNotFound)

	require.NoError(t, svc.Delete(ctx, "drama"))
	assert.ErrorIs(t, svc.Delete(ctx, "drama"), ErrGenreNotFound)
}

func TestCatalogListSearch(t *testing.T) {
	repo := repository.NewMockGenreRepository()
	svc := NewGenreService(repo)
	ctx := context.Background()

	for _, pair := range [][2]string{{"Drama", "drama"}, {"Dark comedy", "dark-comedy"}, {"Horror", "horror"}} {
		_, err := svc.Create(ctx, pair[0], pair[1])
		require.NoError(t, err)
	}

	list, total, err := svc.List(ctx, "d", 20, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)
}

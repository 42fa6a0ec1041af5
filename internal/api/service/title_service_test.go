package service

import (
	"context"
	"testing"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleFixture struct {
	svc       TitleService
	titleRepo *repository.MockTitleRepository
}

func newTitleFixture(t *testing.T) *titleFixture {
	t.Helper()
	ctx := context.Background()

	categoryRepo := repository.NewMockCategoryRepository()
	genreRepo := repository.NewMockGenreRepository()
	require.NoError(t, categoryRepo.Create(ctx, &models.Category{Name: "Books", Slug: "books"}))
	require.NoError(t, categoryRepo.Create(ctx, &models.Category{Name: "Films", Slug: "films"}))
	require.NoError(t, genreRepo.Create(ctx, &models.Genre{Name: "Drama", Slug: "drama"}))
	require.NoError(t, genreRepo.Create(ctx, &models.Genre{Name: "Comedy", Slug: "comedy"}))

	titleRepo := repository.NewMockTitleRepository()
	return &titleFixture{
		svc:       NewTitleService(titleRepo, categoryRepo, genreRepo),
		titleRepo: titleRepo,
	}
}

func TestTitleServiceCreate(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	rt, err := f.svc.Create(ctx, TitleInput{
		Name:     "War and Peace",
		Year:     1869,
		Category: "books",
		Genre:    []string{"drama"},
	})
	require.NoError(t, err)
	assert.Equal(t, "War and Peace", rt.Title.Name)
	assert.Nil(t, rt.Rating)
	assert.Equal(t, []int64{1}, f.titleRepo.GenreLinks(rt.Title.ID))
}

func TestTitleServiceCreateValidation(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	t.Run("unknown category", func(t *testing.T) {
		_, err := f.svc.Create(ctx, TitleInput{
			Name: "X", Year: 2000, Category: "podcasts", Genre: []string{"drama"},
		})
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "category")
	})

	t.Run("unknown genre", func(t *testing.T) {
		_, err := f.svc.Create(ctx, TitleInput{
			Name: "X", Year: 2000, Category: "books", Genre: []string{"noir"},
		})
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "genre")
	})

	t.Run("future year", func(t *testing.T) {
		_, err := f.svc.Create(ctx, TitleInput{
			Name: "X", Year: time.Now().Year() + 1, Category: "books", Genre: []string{"drama"},
		})
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "year")
	})
}

func TestTitleServiceGenreEdgeCases(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	t.Run("duplicate slugs collapse to one link", func(t *testing.T) {
		rt, err := f.svc.Create(ctx, TitleInput{
			Name: "Twice", Year: 2000, Category: "books", Genre: []string{"drama", "drama"},
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{1}, f.titleRepo.GenreLinks(rt.Title.ID))
		assert.Len(t, rt.Title.Genres, 1)
	})

	t.Run("empty genre list creates no links", func(t *testing.T) {
		rt, err := f.svc.Create(ctx, TitleInput{
			Name: "Plain", Year: 2000, Category: "books",
		})
		require.NoError(t, err)
		assert.Empty(t, f.titleRepo.GenreLinks(rt.Title.ID))
	})

	t.Run("patch with duplicate slugs keeps the links", func(t *testing.T) {
		rt, err := f.svc.Create(ctx, TitleInput{
			Name: "Patched", Year: 2000, Category: "books", Genre: []string{"drama"},
		})
		require.NoError(t, err)

		updated, err := f.svc.Update(ctx, rt.Title.ID, TitlePatch{Genre: []string{"comedy", "comedy"}})
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, f.titleRepo.GenreLinks(rt.Title.ID))
		assert.Len(t, updated.Title.Genres, 1)
	})
}

func TestTitleServiceUpdate(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	rt, err := f.svc.Create(ctx, TitleInput{
		Name: "Original", Year: 1990, Category: "books", Genre: []string{"drama"},
	})
	require.NoError(t, err)
	id := rt.Title.ID

	t.Run("partial patch keeps untouched fields", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, id, TitlePatch{Name: ptr("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title.Name)
		assert.Equal(t, 1990, updated.Title.Year)
		assert.Equal(t, []int64{1}, f.titleRepo.GenreLinks(id))
	})

	t.Run("genre list replaced wholesale", func(t *testing.T) {
		_, err := f.svc.Update(ctx, id, TitlePatch{Genre: []string{"comedy"}})
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, f.titleRepo.GenreLinks(id))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := f.svc.Update(ctx, 9999, TitlePatch{Name: ptr("x")})
		assert.ErrorIs(t, err, ErrTitleNotFound)
	})
}

func TestTitleServiceReplace(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	rt, err := f.svc.Create(ctx, TitleInput{
		Name: "Original", Year: 1990, Category: "books", Genre: []string{"drama"},
	})
	require.NoError(t, err)

	replaced, err := f.svc.Replace(ctx, rt.Title.ID, TitleInput{
		Name: "Remake", Year: 2001, Category: "films", Genre: []string{"comedy"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Remake", replaced.Title.Name)
	assert.Equal(t, 2001, replaced.Title.Year)
	assert.Equal(t, []int64{2}, f.titleRepo.GenreLinks(rt.Title.ID))
}

func TestTitleServiceDelete(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	rt, err := f.svc.Create(ctx, TitleInput{
		Name: "Short lived", Year: 2000, Category: "books", Genre: []string{"drama"},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, rt.Title.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, rt.Title.ID), ErrTitleNotFound)
}

func TestTitleServiceRatingPassthrough(t *testing.T) {
	f := newTitleFixture(t)
	ctx := context.Background()

	rt, err := f.svc.Create(ctx, TitleInput{
		Name: "Scored", Year: 2000, Category: "books", Genre: []string{"drama"},
	})
	require.NoError(t, err)

	f.titleRepo.Ratings[rt.Title.ID] = 7.5

	got, err := f.svc.GetByID(ctx, rt.Title.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Rating)
	assert.InDelta(t, 7.5, *got.Rating, 0.001)
}

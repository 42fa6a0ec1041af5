package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

// TitleInput is the full write shape; category and genres arrive as slug
// references.
type TitleInput struct {
	Name        string
	Year        int
	Description *string
	Category    string
	Genre       []string
}

// TitlePatch is a partial update. A nil Genre leaves the links alone, an
// empty non-nil slice clears them.
type TitlePatch struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genre       []string
}

type TitleService interface {
	List(ctx context.Context, f repository.TitleFilter, limit, offset int) ([]repository.RatedTitle, int64, error)
	GetByID(ctx context.Context, id int64) (*repository.RatedTitle, error)
	Create(ctx context.Context, in TitleInput) (*repository.RatedTitle, error)
	Update(ctx context.Context, id int64, patch TitlePatch) (*repository.RatedTitle, error)
	Replace(ctx context.Context, id int64, in TitleInput) (*repository.RatedTitle, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	categoryRepo repository.CategoryRepository
	genreRepo    repository.GenreRepository
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	categoryRepo repository.CategoryRepository,
	genreRepo repository.GenreRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		categoryRepo: categoryRepo,
		genreRepo:    genreRepo,
	}
}

func (s *titleService) List(ctx context.Context, f repository.TitleFilter, limit, offset int) ([]repository.RatedTitle, int64, error) {
	return s.titleRepo.List(ctx, f, limit, offset)
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*repository.RatedTitle, error) {
	rt, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}
	return rt, nil
}

func (s *titleService) Create(ctx context.Context, in TitleInput) (*repository.RatedTitle, error) {
	fe := FieldErrors{}
	validateYear(fe, in.Year)
	category := s.resolveCategory(ctx, fe, in.Category)
	genres := s.resolveGenres(ctx, fe, in.Genre)
	if len(fe) > 0 {
		return nil, fe
	}

	t := &models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
		CategoryID:  &category.ID,
		Category:    category,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, t, genreIDs(genres)); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, t.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, patch TitlePatch) (*repository.RatedTitle, error) {
	rt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t := rt.Title

	fe := FieldErrors{}
	if patch.Year != nil {
		validateYear(fe, *patch.Year)
	}
	var category *models.Category
	if patch.Category != nil {
		category = s.resolveCategory(ctx, fe, *patch.Category)
	}
	var genres []models.Genre
	var ids []int64
	if patch.Genre != nil {
		genres = s.resolveGenres(ctx, fe, patch.Genre)
		ids = genreIDs(genres)
		if ids == nil {
			ids = []int64{}
		}
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Year != nil {
		t.Year = *patch.Year
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if category != nil {
		t.CategoryID = &category.ID
		t.Category = category
	}
	if patch.Genre != nil {
		t.Genres = genres
	}

	if err := s.titleRepo.Update(ctx, &t, ids); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *titleService) Replace(ctx context.Context, id int64, in TitleInput) (*repository.RatedTitle, error) {
	rt, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t := rt.Title

	fe := FieldErrors{}
	validateYear(fe, in.Year)
	category := s.resolveCategory(ctx, fe, in.Category)
	genres := s.resolveGenres(ctx, fe, in.Genre)
	if len(fe) > 0 {
		return nil, fe
	}

	t.Name = in.Name
	t.Year = in.Year
	t.Description = in.Description
	t.CategoryID = &category.ID
	t.Category = category
	t.Genres = genres

	ids := genreIDs(genres)
	if ids == nil {
		ids = []int64{}
	}
	if err := s.titleRepo.Update(ctx, &t, ids); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	if err := s.titleRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

func validateYear(fe FieldErrors, year int) {
	if year > time.Now().Year() {
		fe.Add("year", "must not be in the future")
	}
}

// resolveCategory looks a slug up, recording a field error on a miss.
// Returns nil whenever an error was recorded.
func (s *titleService) resolveCategory(ctx context.Context, fe FieldErrors, slug string) *models.Category {
	c, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		fe.Add("category", fmt.Sprintf("unknown category %q", slug))
		return nil
	}
	return c
}

// resolveGenres resolves every slug, recording a field error per unknown
// one. Repeated slugs collapse to a single link, matching the IN query
// the repository runs.
func (s *titleService) resolveGenres(ctx context.Context, fe FieldErrors, slugs []string) []models.Genre {
	seen := make(map[string]bool, len(slugs))
	uniq := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			uniq = append(uniq, slug)
		}
	}
	if len(uniq) == 0 {
		return []models.Genre{}
	}

	genres, err := s.genreRepo.GetBySlugs(ctx, uniq)
	if err != nil {
		fe.Add("genre", "could not resolve genres")
		return nil
	}
	if len(genres) != len(uniq) {
		known := make(map[string]bool, len(genres))
		for _, g := range genres {
			known[g.Slug] = true
		}
		for _, slug := range uniq {
			if !known[slug] {
				fe.Add("genre", fmt.Sprintf("unknown genre %q", slug))
			}
		}
		return nil
	}
	return genres
}

func genreIDs(genres []models.Genre) []int64 {
	if genres == nil {
		return nil
	}
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

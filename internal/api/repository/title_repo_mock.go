package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// MockTitleRepository is an in-memory implementation of TitleRepository.
// Ratings holds averages keyed by title id; tests set them directly.
type MockTitleRepository struct {
	mu      sync.RWMutex
	nextID  int64
	titles  map[int64]models.Title
	links   map[int64][]int64 // title id -> genre ids
	Ratings map[int64]float64
}

func NewMockTitleRepository() *MockTitleRepository {
	return &MockTitleRepository{
		titles:  make(map[int64]models.Title),
		links:   make(map[int64][]int64),
		Ratings: make(map[int64]float64),
	}
}

func (r *MockTitleRepository) List(ctx context.Context, f TitleFilter, limit, offset int) ([]RatedTitle, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]RatedTitle, 0, len(r.titles))
	for _, t := range r.titles {
		if f.Name != "" && !strings.Contains(strings.ToLower(t.Name), strings.ToLower(f.Name)) {
			continue
		}
		if f.Year != nil && t.Year != *f.Year {
			continue
		}
		if f.CategorySlug != "" && (t.Category == nil || t.Category.Slug != f.CategorySlug) {
			continue
		}
		if f.GenreSlug != "" && !hasGenreSlug(t.Genres, f.GenreSlug) {
			continue
		}
		matched = append(matched, r.rate(t))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Title.ID < matched[j].Title.ID })
	return pageOf(matched, limit, offset)
}

func (r *MockTitleRepository) GetByID(ctx context.Context, id int64) (*RatedTitle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.titles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	rt := r.rate(t)
	return &rt, nil
}

func (r *MockTitleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.titles[id]
	return ok, nil
}

func (r *MockTitleRepository) Create(ctx context.Context, t *models.Title, genreIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	t.ID = r.nextID
	r.titles[t.ID] = *t
	r.links[t.ID] = append([]int64(nil), genreIDs...)
	return nil
}

func (r *MockTitleRepository) Update(ctx context.Context, t *models.Title, genreIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.titles[t.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.titles[t.ID] = *t
	if genreIDs != nil {
		r.links[t.ID] = append([]int64(nil), genreIDs...)
	}
	return nil
}

func (r *MockTitleRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.titles[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.titles, id)
	delete(r.links, id)
	return nil
}

// GenreLinks exposes the stored join rows for assertions.
func (r *MockTitleRepository) GenreLinks(titleID int64) []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]int64(nil), r.links[titleID]...)
}

func (r *MockTitleRepository) rate(t models.Title) RatedTitle {
	rt := RatedTitle{Title: t}
	if avg, ok := r.Ratings[t.ID]; ok {
		rt.Rating = &avg
	}
	return rt
}

func hasGenreSlug(genres []models.Genre, slug string) bool {
	for _, g := range genres {
		if g.Slug == slug {
			return true
		}
	}
	return false
}

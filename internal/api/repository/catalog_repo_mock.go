package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]models.Category // keyed by slug
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{items: make(map[string]models.Category)}
}

func (r *MockCategoryRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Category, 0, len(r.items))
	for _, c := range r.items {
		if search == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(search)) {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return pageOf(matched, limit, offset)
}

func (r *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *MockCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[c.Slug]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	c.ID = r.nextID
	r.items[c.Slug] = *c
	return nil
}

func (r *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[slug]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, slug)
	return nil
}

// MockGenreRepository is an in-memory implementation of GenreRepository.
type MockGenreRepository struct {
	mu     sync.RWMutex
	nextID int64
	items  map[string]models.Genre
}

func NewMockGenreRepository() *MockGenreRepository {
	return &MockGenreRepository{items: make(map[string]models.Genre)}
}

func (r *MockGenreRepository) List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Genre, 0, len(r.items))
	for _, g := range r.items {
		if search == "" || strings.Contains(strings.ToLower(g.Name), strings.ToLower(search)) {
			matched = append(matched, g)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return pageOf(matched, limit, offset)
}

func (r *MockGenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.items[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &g, nil
}

// GetBySlugs returns one row per matching slug, like the IN query of
// the real repository: repeated input slugs do not repeat rows.
func (r *MockGenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(slugs))
	found := make([]models.Genre, 0, len(slugs))
	for _, slug := range slugs {
		if seen[slug] {
			continue
		}
		seen[slug] = true
		if g, ok := r.items[slug]; ok {
			found = append(found, g)
		}
	}
	return found, nil
}

func (r *MockGenreRepository) Create(ctx context.Context, g *models.Genre) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[g.Slug]; ok {
		return gorm.ErrDuplicatedKey
	}
	r.nextID++
	g.ID = r.nextID
	r.items[g.Slug] = *g
	return nil
}

func (r *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[slug]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.items, slug)
	return nil
}

// pageOf applies limit/offset to an already filtered, sorted slice.
func pageOf[T any](items []T, limit, offset int) ([]T, int64, error) {
	total := int64(len(items))
	if offset >= len(items) {
		return []T{}, total, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total, nil
}

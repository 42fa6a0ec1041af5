package repository

import (
	"context"
	"fmt"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// TitleFilter narrows a title listing. Zero values mean "not filtered".
type TitleFilter struct {
	Name         string
	Year         *int
	CategorySlug string
	GenreSlug    string
}

// RatedTitle pairs a title with its average review score. Rating is nil
// when the title has no reviews yet.
type RatedTitle struct {
	Title  models.Title
	Rating *float64
}

type TitleRepository interface {
	List(ctx context.Context, f TitleFilter, limit, offset int) ([]RatedTitle, int64, error)
	GetByID(ctx context.Context, id int64) (*RatedTitle, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, t *models.Title, genreIDs []int64) error
	Update(ctx context.Context, t *models.Title, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
}

type titleRepository struct {
	db *gorm.DB
}

func NewTitleRepository(db *gorm.DB) TitleRepository {
	return &titleRepository{db: db}
}

func (r *titleRepository) List(ctx context.Context, f TitleFilter, limit, offset int) ([]RatedTitle, int64, error) {
	var list []models.Title
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	if f.CategorySlug != "" {
		q = q.Joins("JOIN categories ON categories.id = titles.category_id").
			Where("categories.slug = ?", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Joins("JOIN title_genres tg ON tg.title_id = titles.id").
			Joins("JOIN genres ON genres.id = tg.genre_id").
			Where("genres.slug = ?", f.GenreSlug)
	}

	if err := q.Distinct("titles.id").Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count titles: %w", err)
	}

	err := q.Distinct().
		Preload("Category").
		Preload("Genres").
		Order("titles.id asc").
		Limit(limit).
		Offset(offset).
		Find(&list).Error
	if err != nil {
		return nil, 0, fmt.Errorf("get titles: %w", err)
	}

	rated, err := r.attachRatings(ctx, list)
	if err != nil {
		return nil, 0, err
	}
	return rated, total, nil
}

func (r *titleRepository) GetByID(ctx context.Context, id int64) (*RatedTitle, error) {
	var t models.Title
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Genres").
		First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	rated, err := r.attachRatings(ctx, []models.Title{t})
	if err != nil {
		return nil, err
	}
	return &rated[0], nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create persists the title and one join row per genre, atomically.
func (r *titleRepository) Create(ctx context.Context, t *models.Title, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Create(t).Error; err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		for _, genreID := range genreIDs {
			link := models.TitleGenre{TitleID: t.ID, GenreID: genreID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("link genre %d: %w", genreID, err)
			}
		}
		return nil
	})
}

// Update saves the title fields; a non-nil genreIDs replaces the genre
// links wholesale.
func (r *titleRepository) Update(ctx context.Context, t *models.Title, genreIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Genres", "Category").Save(t).Error; err != nil {
			return fmt.Errorf("update title: %w", err)
		}
		if genreIDs == nil {
			return nil
		}
		if err := tx.Where("title_id = ?", t.ID).Delete(&models.TitleGenre{}).Error; err != nil {
			return fmt.Errorf("unlink genres: %w", err)
		}
		for _, genreID := range genreIDs {
			link := models.TitleGenre{TitleID: t.ID, GenreID: genreID}
			if err := tx.Create(&link).Error; err != nil {
				return fmt.Errorf("link genre %d: %w", genreID, err)
			}
		}
		return nil
	})
}

func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// attachRatings resolves average scores for a page of titles with one
// grouped query.
func (r *titleRepository) attachRatings(ctx context.Context, titles []models.Title) ([]RatedTitle, error) {
	rated := make([]RatedTitle, 0, len(titles))
	if len(titles) == 0 {
		return rated, nil
	}

	ids := make([]int64, 0, len(titles))
	for _, t := range titles {
		ids = append(ids, t.ID)
	}

	var rows []struct {
		TitleID int64
		Average float64
	}
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("title_id, AVG(score) as average").
		Where("title_id IN ?", ids).
		Group("title_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("average scores: %w", err)
	}

	averages := make(map[int64]float64, len(rows))
	for _, row := range rows {
		averages[row.TitleID] = row.Average
	}

	for _, t := range titles {
		rt := RatedTitle{Title: t}
		if avg, ok := averages[t.ID]; ok {
			rt.Rating = &avg
		}
		rated = append(rated, rt)
	}
	return rated, nil
}

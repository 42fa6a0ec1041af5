package service

import (
	"context"
	"errors"
	"regexp"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

type CategoryService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, search string, limit, offset int) ([]models.Category, int64, error) {
	return s.categoryRepo.List(ctx, search, limit, offset)
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, name, slug string) (*models.Category, error) {
	fe := FieldErrors{}
	if !slugPattern.MatchString(slug) {
		fe.Add("slug", "may contain only letters, digits, hyphens and underscores")
	} else if _, err := s.categoryRepo.GetBySlug(ctx, slug); err == nil {
		fe.Add("slug", "already in use")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	c := &models.Category{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}

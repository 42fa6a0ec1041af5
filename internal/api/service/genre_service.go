package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type GenreService interface {
	List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	Create(ctx context.Context, name, slug string) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, search string, limit, offset int) ([]models.Genre, int64, error) {
	return s.genreRepo.List(ctx, search, limit, offset)
}

func (s *genreService) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	g, err := s.genreRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGenreNotFound
		}
		return nil, err
	}
	return g, nil
}

func (s *genreService) Create(ctx context.Context, name, slug string) (*models.Genre, error) {
	fe := FieldErrors{}
	if !slugPattern.MatchString(slug) {
		fe.Add("slug", "may contain only letters, digits, hyphens and underscores")
	} else if _, err := s.genreRepo.GetBySlug(ctx, slug); err == nil {
		fe.Add("slug", "already in use")
	}
	if len(fe) > 0 {
		return nil, fe
	}

	g := &models.Genre{Name: name, Slug: slug}
	if err := s.genreRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGenreNotFound
		}
		return err
	}
	return nil
}

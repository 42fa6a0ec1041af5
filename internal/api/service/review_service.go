package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

// ReviewPatch is a partial update; nil fields are left untouched.
type ReviewPatch struct {
	Text  *string
	Score *int
}

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error)
	GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	Create(ctx context.Context, actor *models.User, titleID int64, text string, score int) (*models.Review, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID int64, patch ReviewPatch) (*models.Review, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, limit, offset)
}

func (s *reviewService) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return review, nil
}

// Create adds the actor's review of a title. One review per author and
// title: a second submit fails with ErrReviewLimitExceeded whether it
// loses to the pre-check or to the unique index in a race.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, text string, score int) (*models.Review, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	fe := FieldErrors{}
	validateScore(fe, score)
	if len(fe) > 0 {
		return nil, fe
	}

	if _, err := s.reviewRepo.GetByTitleAndAuthor(ctx, titleID, actor.ID); err == nil {
		return nil, ErrReviewLimitExceeded
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     text,
		Score:    score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrReviewLimitExceeded
		}
		return nil, err
	}
	review.Author = *actor
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, patch ReviewPatch) (*models.Review, error) {
	review, err := s.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !permissions.EngagementAccess(actor, permissions.ActionUpdate, review.AuthorID) {
		return nil, ErrForbidden
	}

	if patch.Score != nil {
		fe := FieldErrors{}
		validateScore(fe, *patch.Score)
		if len(fe) > 0 {
			return nil, fe
		}
	}

	if patch.Text != nil {
		review.Text = *patch.Text
	}
	if patch.Score != nil {
		review.Score = *patch.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	review, err := s.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !permissions.EngagementAccess(actor, permissions.ActionDelete, review.AuthorID) {
		return ErrForbidden
	}
	return s.reviewRepo.Delete(ctx, titleID, reviewID)
}

func validateScore(fe FieldErrors, score int) {
	if score < 1 || score > 10 {
		fe.Add("score", "must be between 1 and 10")
	}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTitleNotFound
	}
	return nil
}

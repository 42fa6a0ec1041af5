package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/permissions"
	"reviewhub/internal/api/repository"

	"gorm.io/gorm"
)

type CommentService interface {
	ListByReview(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]models.Comment, int64, error)
	GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text string) (*models.Comment, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

func (s *commentService) ListByReview(ctx context.Context, titleID, reviewID int64, limit, offset int) ([]models.Comment, int64, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, limit, offset)
}

func (s *commentService) GetByID(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

// Create adds the actor's comment under a review. One comment per author
// and review, same double guard as review creation.
func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, text string) (*models.Comment, error) {
	if err := s.requireReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	if _, err := s.commentRepo.GetByReviewAndAuthor(ctx, reviewID, actor.ID); err == nil {
		return nil, ErrCommentLimitExceeded
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCommentLimitExceeded
		}
		return nil, err
	}
	comment.Author = *actor
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, text string) (*models.Comment, error) {
	comment, err := s.GetByID(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !permissions.EngagementAccess(actor, permissions.ActionUpdate, comment.AuthorID) {
		return nil, ErrForbidden
	}

	comment.Text = text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	comment, err := s.GetByID(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if !permissions.EngagementAccess(actor, permissions.ActionDelete, comment.AuthorID) {
		return ErrForbidden
	}
	return s.commentRepo.Delete(ctx, reviewID, commentID)
}

// requireReview checks the review exists under the given title, so stale
// or cross-title ids read as not found.
func (s *commentService) requireReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByID(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

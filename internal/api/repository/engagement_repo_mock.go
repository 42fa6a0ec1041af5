package repository

import (
	"context"
	"sort"
	"sync"

	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
// Create reproduces the store's unique (title, author) behavior.
type MockReviewRepository struct {
	mu      sync.RWMutex
	nextID  int64
	reviews map[int64]models.Review
}

func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{reviews: make(map[int64]models.Review)}
}

func (r *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.reviews {
		if existing.TitleID == review.TitleID && existing.AuthorID == review.AuthorID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	review.ID = r.nextID
	r.reviews[review.ID] = *review
	return nil
}

func (r *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reviews[review.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.reviews[review.ID] = *review
	return nil
}

func (r *MockReviewRepository) Delete(ctx context.Context, titleID, reviewID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return gorm.ErrRecordNotFound
	}
	delete(r.reviews, reviewID)
	return nil
}

func (r *MockReviewRepository) GetByID(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	review, ok := r.reviews[reviewID]
	if !ok || review.TitleID != titleID {
		return nil, gorm.ErrRecordNotFound
	}
	return &review, nil
}

func (r *MockReviewRepository) GetByTitleAndAuthor(ctx context.Context, titleID int64, authorID string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, review := range r.reviews {
		if review.TitleID == titleID && review.AuthorID == authorID {
			review := review
			return &review, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MockReviewRepository) ListByTitle(ctx context.Context, titleID int64, limit, offset int) ([]models.Review, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Review, 0, len(r.reviews))
	for _, review := range r.reviews {
		if review.TitleID == titleID {
			matched = append(matched, review)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return pageOf(matched, limit, offset)
}

// MockCommentRepository is an in-memory implementation of CommentRepository.
type MockCommentRepository struct {
	mu       sync.RWMutex
	nextID   int64
	comments map[int64]models.Comment
}

func NewMockCommentRepository() *MockCommentRepository {
	return &MockCommentRepository{comments: make(map[int64]models.Comment)}
}

func (r *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.comments {
		if existing.ReviewID == comment.ReviewID && existing.AuthorID == comment.AuthorID {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	comment.ID = r.nextID
	r.comments[comment.ID] = *comment
	return nil
}

func (r *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	r.comments[comment.ID] = *comment
	return nil
}

func (r *MockCommentRepository) Delete(ctx context.Context, reviewID, commentID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return gorm.ErrRecordNotFound
	}
	delete(r.comments, commentID)
	return nil
}

func (r *MockCommentRepository) GetByID(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comment, ok := r.comments[commentID]
	if !ok || comment.ReviewID != reviewID {
		return nil, gorm.ErrRecordNotFound
	}
	return &comment, nil
}

func (r *MockCommentRepository) GetByReviewAndAuthor(ctx context.Context, reviewID int64, authorID string) (*models.Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, comment := range r.comments {
		if comment.ReviewID == reviewID && comment.AuthorID == authorID {
			comment := comment
			return &comment, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *MockCommentRepository) ListByReview(ctx context.Context, reviewID int64, limit, offset int) ([]models.Comment, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Comment, 0, len(r.comments))
	for _, comment := range r.comments {
		if comment.ReviewID == reviewID {
			matched = append(matched, comment)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return pageOf(matched, limit, offset)
}

// MockRefreshTokenRepository is an in-memory RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	mu     sync.RWMutex
	tokens map[string]models.RefreshToken
}

func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{tokens: make(map[string]models.RefreshToken)}
}

func (r *MockRefreshTokenRepository) Create(ctx context.Context, refreshToken *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens[refreshToken.ID] = *refreshToken
	return nil
}

// Count reports how many refresh tokens are stored.
func (r *MockRefreshTokenRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tokens)
}

// MockConfirmationCodeStore is an in-memory ConfirmationCodeStore.
type MockConfirmationCodeStore struct {
	mu    sync.RWMutex
	codes map[string]string
}

func NewMockConfirmationCodeStore() *MockConfirmationCodeStore {
	return &MockConfirmationCodeStore{codes: make(map[string]string)}
}

func (s *MockConfirmationCodeStore) Save(ctx context.Context, username, codeHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[username] = codeHash
	return nil
}

func (s *MockConfirmationCodeStore) Get(ctx context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.codes[username]
	if !ok {
		return "", ErrCodeNotFound
	}
	return hash, nil
}

func (s *MockConfirmationCodeStore) Delete(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, username)
	return nil
}

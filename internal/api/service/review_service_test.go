package service

import (
	"context"
	"testing"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewFixture struct {
	svc        ReviewService
	reviewRepo *repository.MockReviewRepository
	titleRepo  *repository.MockTitleRepository
	titleID    int64
}

func newReviewFixture(t *testing.T) *reviewFixture {
	t.Helper()
	ctx := context.Background()

	titleRepo := repository.NewMockTitleRepository()
	title := &models.Title{Name: "Seeded", Year: 2000}
	require.NoError(t, titleRepo.Create(ctx, title, nil))

	reviewRepo := repository.NewMockReviewRepository()
	return &reviewFixture{
		svc:        NewReviewService(reviewRepo, titleRepo),
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		titleID:    title.ID,
	}
}

func reviewer(id, role string) *models.User {
	return &models.User{ID: id, Username: "u-" + id, Role: role}
}

func TestReviewCreate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	alice := reviewer("a1", models.RoleUser)

	review, err := f.svc.Create(ctx, alice, f.titleID, "great", 9)
	require.NoError(t, err)
	assert.Equal(t, alice.Username, review.Author.Username)
	assert.Equal(t, 9, review.Score)

	t.Run("missing title", func(t *testing.T) {
		_, err := f.svc.Create(ctx, alice, 9999, "x", 5)
		assert.ErrorIs(t, err, ErrTitleNotFound)
	})

	t.Run("second review of the same title", func(t *testing.T) {
		_, err := f.svc.Create(ctx, alice, f.titleID, "again", 8)
		assert.ErrorIs(t, err, ErrReviewLimitExceeded)
	})

	t.Run("another author may review", func(t *testing.T) {
		_, err := f.svc.Create(ctx, reviewer("b2", models.RoleUser), f.titleID, "fine", 6)
		assert.NoError(t, err)
	})
}

func TestReviewScoreValidation(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	alice := reviewer("a1", models.RoleUser)

	for _, score := range []int{0, -3, 11} {
		_, err := f.svc.Create(ctx, alice, f.titleID, "x", score)
		fe, ok := AsFieldErrors(err)
		require.True(t, ok, "score %d", score)
		assert.Contains(t, fe, "score")
	}

	review, err := f.svc.Create(ctx, alice, f.titleID, "fine", 5)
	require.NoError(t, err)

	t.Run("patch cannot zero the score", func(t *testing.T) {
		_, err := f.svc.Update(ctx, alice, f.titleID, review.ID, ReviewPatch{Score: ptr(0)})
		fe, ok := AsFieldErrors(err)
		require.True(t, ok)
		assert.Contains(t, fe, "score")

		got, err := f.svc.GetByID(ctx, f.titleID, review.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Score)
	})

	t.Run("patch rejects scores above ten", func(t *testing.T) {
		_, err := f.svc.Update(ctx, alice, f.titleID, review.ID, ReviewPatch{Score: ptr(11)})
		_, ok := AsFieldErrors(err)
		assert.True(t, ok)
	})
}

func TestReviewCreateLosingRaceMapsDuplicate(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	alice := reviewer("a1", models.RoleUser)

	// Insert behind the service's back to simulate losing the race to
	// the unique index after the pre-check passed.
	require.NoError(t, f.reviewRepo.Create(ctx, &models.Review{
		TitleID: f.titleID, AuthorID: alice.ID, Text: "sneaky", Score: 5,
	}))

	_, err := f.svc.Create(ctx, alice, f.titleID, "mine", 7)
	assert.ErrorIs(t, err, ErrReviewLimitExceeded)
}

func TestReviewUpdateAccess(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	alice := reviewer("a1", models.RoleUser)

	review, err := f.svc.Create(ctx, alice, f.titleID, "great", 9)
	require.NoError(t, err)

	t.Run("author edits own review", func(t *testing.T) {
		updated, err := f.svc.Update(ctx, alice, f.titleID, review.ID, ReviewPatch{Score: ptr(4)})
		require.NoError(t, err)
		assert.Equal(t, 4, updated.Score)
		assert.Equal(t, "great", updated.Text)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		_, err := f.svc.Update(ctx, reviewer("b2", models.RoleUser), f.titleID, review.ID, ReviewPatch{Score: ptr(1)})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("moderator may edit", func(t *testing.T) {
		_, err := f.svc.Update(ctx, reviewer("m3", models.RoleModerator), f.titleID, review.ID, ReviewPatch{Text: ptr("moderated")})
		assert.NoError(t, err)
	})

	t.Run("admin may edit", func(t *testing.T) {
		_, err := f.svc.Update(ctx, reviewer("ad4", models.RoleAdmin), f.titleID, review.ID, ReviewPatch{Text: ptr("admin pass")})
		assert.NoError(t, err)
	})
}

func TestReviewDeleteAccess(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	alice := reviewer("a1", models.RoleUser)

	review, err := f.svc.Create(ctx, alice, f.titleID, "great", 9)
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.Delete(ctx, reviewer("b2", models.RoleUser), f.titleID, review.ID), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, alice, f.titleID, review.ID))

	_, err = f.svc.GetByID(ctx, f.titleID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewScopedToTitle(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()
	alice := reviewer("a1", models.RoleUser)

	other := &models.Title{Name: "Other", Year: 2001}
	require.NoError(t, f.titleRepo.Create(ctx, other, nil))

	review, err := f.svc.Create(ctx, alice, f.titleID, "great", 9)
	require.NoError(t, err)

	// The same review id under a different title reads as missing.
	_, err = f.svc.GetByID(ctx, other.ID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewList(t *testing.T) {
	f := newReviewFixture(t)
	ctx := context.Background()

	for i, id := range []string{"a1", "b2", "c3"} {
		_, err := f.svc.Create(ctx, reviewer(id, models.RoleUser), f.titleID, "text", i+5)
		require.NoError(t, err)
	}

	reviews, total, err := f.svc.ListByTitle(ctx, f.titleID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, reviews, 2)

	_, _, err = f.svc.ListByTitle(ctx, 9999, 20, 0)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

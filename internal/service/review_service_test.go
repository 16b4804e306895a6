package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/notifications"
	"recipebox/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newReviewService(reviews *reviewRepoStub, recipes *recipeRepoStub, users *userRepoStub) *ReviewService {
	return NewReviewService(reviews, recipes, users, notifications.NewNotifier(nil))
}

func existingRecipe(id uint) *recipeRepoStub {
	return &recipeRepoStub{getByIDFn: func(_ context.Context, rid uint) (*models.Recipe, error) {
		if rid != id {
			return nil, models.NewNotFoundError("Recipe")
		}
		return &models.Recipe{ID: id, UserID: 99}, nil
	}}
}

func TestReviewService_AddReview_Validation(t *testing.T) {
	t.Parallel()
	svc := newReviewService(&reviewRepoStub{}, existingRecipe(1), noopUserRepo())

	tests := []struct {
		name    string
		rating  int
		comment string
	}{
		{"rating too low", 0, "fine"},
		{"rating too high", 6, "fine"},
		{"empty comment", 3, "  "},
		{"comment too long", 3, strings.Repeat("x", 1001)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddReview(context.Background(), AddReviewInput{UserID: 1, RecipeID: 1, Rating: tt.rating, Comment: tt.comment})
			assertValidationError(t, err)
		})
	}
}

func TestReviewService_AddReview_MissingRecipe(t *testing.T) {
	t.Parallel()
	svc := newReviewService(&reviewRepoStub{}, existingRecipe(1), noopUserRepo())
	_, err := svc.AddReview(context.Background(), AddReviewInput{UserID: 1, RecipeID: 2, Rating: 4, Comment: "ok"})
	assertCode(t, err, models.CodeNotFound)
}

func TestReviewService_AddReview_Duplicate(t *testing.T) {
	t.Parallel()
	created := false
	reviews := &reviewRepoStub{
		existsFn: func(context.Context, uint, uint) (bool, error) { return true, nil },
		createFn: func(context.Context, *models.Review) (models.RecipeAggregates, error) {
			created = true
			return models.RecipeAggregates{}, nil
		},
	}
	svc := newReviewService(reviews, existingRecipe(1), noopUserRepo())

	_, err := svc.AddReview(context.Background(), AddReviewInput{UserID: 1, RecipeID: 1, Rating: 4, Comment: "again"})
	assert.ErrorIs(t, err, repository.ErrDuplicateReview)
	assert.Equal(t, 400, models.StatusFor(err))
	assert.False(t, created)
}

func TestReviewService_AddReview_JoinsAuthor(t *testing.T) {
	t.Parallel()
	avatar := "https://img.example.com/a.png"
	users := noopUserRepo()
	users.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, FullName: "Ama K", Email: "ama@example.com", Avatar: &avatar}, nil
	}
	reviews := &reviewRepoStub{createFn: func(_ context.Context, r *models.Review) (models.RecipeAggregates, error) {
		r.ID = 10
		return models.RecipeAggregates{AverageRating: 4, RatingCount: 1, ReviewCount: 1, ReviewIDs: []uint{10}}, nil
	}}
	svc := newReviewService(reviews, existingRecipe(1), users)

	review, err := svc.AddReview(context.Background(), AddReviewInput{UserID: 5, RecipeID: 1, Rating: 4, Comment: "  nice  "})
	require.NoError(t, err)
	assert.Equal(t, uint(10), review.ID)
	assert.Equal(t, "nice", review.Comment)
	require.NotNil(t, review.User)
	assert.Equal(t, "Ama K", review.User.FullName)
	assert.Equal(t, &avatar, review.User.Avatar)
	assert.Empty(t, review.User.Email)
}

func TestReviewService_UpdateReview_Ownership(t *testing.T) {
	t.Parallel()
	reviews := &reviewRepoStub{getByIDFn: func(_ context.Context, id uint) (*models.Review, error) {
		return &models.Review{ID: id, UserID: 1, RecipeID: 3, Rating: 2, Comment: "meh"}, nil
	}}
	svc := newReviewService(reviews, existingRecipe(3), noopUserRepo())

	_, err := svc.UpdateReview(context.Background(), UpdateReviewInput{ReviewID: 7, UserID: 2, Rating: 5, Comment: "hijack"})
	assertCode(t, err, models.CodeForbidden)

	var updated *models.Review
	reviews.updateFn = func(_ context.Context, r *models.Review) (models.RecipeAggregates, error) {
		updated = r
		return models.RecipeAggregates{}, nil
	}
	review, err := svc.UpdateReview(context.Background(), UpdateReviewInput{ReviewID: 7, UserID: 1, Rating: 5, Comment: "better now"})
	require.NoError(t, err)
	assert.Equal(t, 5, review.Rating)
	require.NotNil(t, updated)
	assert.Equal(t, "better now", updated.Comment)
}

func TestReviewService_DeleteReview(t *testing.T) {
	t.Parallel()
	deleted := 0
	reviews := &reviewRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Review, error) {
			return &models.Review{ID: id, UserID: 1, RecipeID: 3}, nil
		},
		deleteFn: func(context.Context, *models.Review) (models.RecipeAggregates, error) {
			deleted++
			return models.RecipeAggregates{}, nil
		},
	}
	svc := newReviewService(reviews, existingRecipe(3), noopUserRepo())

	assertCode(t, svc.DeleteReview(context.Background(), 7, 2), models.CodeForbidden)
	assert.Zero(t, deleted)

	require.NoError(t, svc.DeleteReview(context.Background(), 7, 1))
	require.NoError(t, svc.DeleteReviewAsAdmin(context.Background(), 7))
	assert.Equal(t, 2, deleted)

	svc = newReviewService(&reviewRepoStub{}, existingRecipe(3), noopUserRepo())
	assertCode(t, svc.DeleteReviewAsAdmin(context.Background(), 8), models.CodeNotFound)
}

func TestReviewService_NotifiesRecipeOwner(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, notifications.UserChannel(99))
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	nextID := uint(0)
	reviews := &reviewRepoStub{
		createFn: func(_ context.Context, r *models.Review) (models.RecipeAggregates, error) {
			nextID++
			r.ID = nextID
			return models.RecipeAggregates{}, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Review, error) {
			return &models.Review{ID: id, UserID: 5, RecipeID: 1, Rating: 2}, nil
		},
	}
	svc := NewReviewService(reviews, existingRecipe(1), noopUserRepo(), notifications.NewNotifier(rdb))

	next := func() notifications.ReviewEvent {
		t.Helper()
		select {
		case msg := <-sub.Channel():
			var evt notifications.ReviewEvent
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &evt))
			return evt
		case <-time.After(2 * time.Second):
			t.Fatal("no owner notification received")
		}
		return notifications.ReviewEvent{}
	}

	// The owner reviewing their own recipe is not notified.
	_, err = svc.AddReview(ctx, AddReviewInput{UserID: 99, RecipeID: 1, Rating: 5, Comment: "mine"})
	require.NoError(t, err)

	_, err = svc.AddReview(ctx, AddReviewInput{UserID: 5, RecipeID: 1, Rating: 4, Comment: "tasty"})
	require.NoError(t, err)
	assert.Equal(t, notifications.ReviewEvent{
		Type: notifications.EventReviewAdded, RecipeID: 1, ReviewID: 2, ReviewerID: 5, Rating: 4,
	}, next())

	require.NoError(t, svc.DeleteReviewAsAdmin(ctx, 2))
	assert.Equal(t, notifications.ReviewEvent{
		Type: notifications.EventReviewRemoved, RecipeID: 1, ReviewID: 2, ReviewerID: 5, Rating: 2,
	}, next())
}

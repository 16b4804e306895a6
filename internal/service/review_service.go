package service

import (
	"context"
	"log/slog"
	"strings"

	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/notifications"
	"recipebox/internal/observability"
	"recipebox/internal/repository"
	"recipebox/internal/validation"
)

type ReviewService struct {
	reviewRepo repository.ReviewRepository
	recipeRepo repository.RecipeRepository
	userRepo   repository.UserRepository
	notifier   *notifications.Notifier
}

type AddReviewInput struct {
	UserID   uint
	RecipeID uint
	Rating   int
	Comment  string
}

type UpdateReviewInput struct {
	ReviewID uint
	UserID   uint
	Rating   int
	Comment  string
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	recipeRepo repository.RecipeRepository,
	userRepo repository.UserRepository,
	notifier *notifications.Notifier,
) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		recipeRepo: recipeRepo,
		userRepo:   userRepo,
		notifier:   notifier,
	}
}

// AddReview records the caller's single review of a recipe.
func (s *ReviewService) AddReview(ctx context.Context, in AddReviewInput) (*models.Review, error) {
	if err := validation.ValidateReview(in.Rating, in.Comment); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	recipe, err := s.recipeRepo.GetByID(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.Exists(ctx, in.UserID, in.RecipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, repository.ErrDuplicateReview
	}

	review := &models.Review{
		UserID:   in.UserID,
		RecipeID: in.RecipeID,
		Rating:   in.Rating,
		Comment:  strings.TrimSpace(in.Comment),
	}
	agg, err := s.reviewRepo.Create(ctx, review)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "create", review.RecipeID, agg)
	s.notifyOwner(ctx, recipe.UserID, notifications.EventReviewAdded, review)

	if author, err := s.userRepo.GetByID(ctx, in.UserID); err == nil {
		review.User = authorView(author)
	}
	return review, nil
}

func (s *ReviewService) UpdateReview(ctx context.Context, in UpdateReviewInput) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, in.ReviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != in.UserID {
		return nil, models.NewForbiddenError("Not authorized to update this review")
	}
	if err := validation.ValidateReview(in.Rating, in.Comment); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	review.Rating = in.Rating
	review.Comment = strings.TrimSpace(in.Comment)
	agg, err := s.reviewRepo.Update(ctx, review)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, "update", review.RecipeID, agg)

	if author, err := s.userRepo.GetByID(ctx, review.UserID); err == nil {
		review.User = authorView(author)
	}
	return review, nil
}

// DeleteReview removes the caller's own review.
func (s *ReviewService) DeleteReview(ctx context.Context, reviewID, userID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return models.NewForbiddenError("Not authorized to delete this review")
	}
	return s.remove(ctx, review, "delete")
}

// DeleteReviewAsAdmin removes any review.
func (s *ReviewService) DeleteReviewAsAdmin(ctx context.Context, reviewID uint) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	return s.remove(ctx, review, "admin_delete")
}

func (s *ReviewService) remove(ctx context.Context, review *models.Review, op string) error {
	agg, err := s.reviewRepo.Delete(ctx, review)
	if err != nil {
		return err
	}
	s.afterWrite(ctx, op, review.RecipeID, agg)
	if s.notifier.Enabled() {
		if recipe, err := s.recipeRepo.GetByID(ctx, review.RecipeID); err == nil {
			s.notifyOwner(ctx, recipe.UserID, notifications.EventReviewRemoved, review)
		}
	}
	return nil
}

func (s *ReviewService) ToggleHelpful(ctx context.Context, reviewID, userID uint) (int, bool, error) {
	return s.reviewRepo.ToggleHelpful(ctx, reviewID, userID)
}

func (s *ReviewService) ListRecipeReviews(ctx context.Context, recipeID uint, sort string, limit, offset int) ([]models.Review, int64, error) {
	return s.reviewRepo.ListByRecipe(ctx, recipeID, sort, limit, offset)
}

func (s *ReviewService) ListUserReviews(ctx context.Context, userID uint, limit, offset int) ([]models.Review, int64, error) {
	return s.reviewRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *ReviewService) afterWrite(ctx context.Context, op string, recipeID uint, agg models.RecipeAggregates) {
	observability.ReviewWrites.WithLabelValues(op).Inc()
	if err := s.notifier.PublishRecipeRating(ctx, recipeID, agg.AverageRating, agg.ReviewCount); err != nil {
		middleware.Logger.WarnContext(ctx, "publish rating update failed",
			slog.Uint64("recipe_id", uint64(recipeID)), slog.String("error", err.Error()))
	}
}

// notifyOwner tells the recipe owner about someone else's review.
func (s *ReviewService) notifyOwner(ctx context.Context, ownerID uint, eventType string, review *models.Review) {
	if ownerID == 0 || ownerID == review.UserID {
		return
	}
	evt := notifications.ReviewEvent{
		Type:       eventType,
		RecipeID:   review.RecipeID,
		ReviewID:   review.ID,
		ReviewerID: review.UserID,
		Rating:     review.Rating,
	}
	if err := s.notifier.PublishReviewToOwner(ctx, ownerID, evt); err != nil {
		middleware.Logger.WarnContext(ctx, "publish owner notification failed",
			slog.Uint64("owner_id", uint64(ownerID)), slog.String("event", eventType), slog.String("error", err.Error()))
	}
}

// authorView keeps only the author fields shown next to a review.
func authorView(u *models.User) *models.User {
	return &models.User{ID: u.ID, FullName: u.FullName, Avatar: u.Avatar}
}

package repository

import (
	"context"
	"errors"

	"recipebox/internal/cache"
	"recipebox/internal/models"

	"gorm.io/gorm"
)

var reviewOrders = map[string]string{
	"-createdAt": "created_at DESC, id DESC",
	"createdAt":  "created_at ASC, id ASC",
	"-rating":    "rating DESC, created_at DESC",
	"rating":     "rating ASC, created_at DESC",
	"-helpful":   "helpful DESC, created_at DESC",
	"helpful":    "helpful ASC, created_at DESC",
}

// DefaultReviewSort lists newest reviews first.
const DefaultReviewSort = "-createdAt"

// ErrDuplicateReview is returned when a user reviews the same recipe twice.
var ErrDuplicateReview = models.NewValidationError("You have already reviewed this recipe")

// ReviewFilter narrows admin review listings.
type ReviewFilter struct {
	Search string
	Rating int
	Limit  int
	Offset int
}

// ReviewRepository defines persistence operations for reviews.
// Every write recomputes the parent recipe's aggregates in the same transaction.
type ReviewRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Review, error)
	Exists(ctx context.Context, userID, recipeID uint) (bool, error)
	Create(ctx context.Context, review *models.Review) (models.RecipeAggregates, error)
	Update(ctx context.Context, review *models.Review) (models.RecipeAggregates, error)
	Delete(ctx context.Context, review *models.Review) (models.RecipeAggregates, error)
	ToggleHelpful(ctx context.Context, reviewID, userID uint) (helpful int, marked bool, err error)
	ListByRecipe(ctx context.Context, recipeID uint, sort string, limit, offset int) ([]models.Review, int64, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, int64, error)
	List(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository returns a new ReviewRepository implementation.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Review")
		}
		return nil, models.NewInternalError(err)
	}
	return &review, nil
}

func (r *reviewRepository) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) (models.RecipeAggregates, error) {
	return r.writeAndRecompute(ctx, review.RecipeID, func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			if isUniqueConstraintError(err) {
				return ErrDuplicateReview
			}
			return err
		}
		return setUserRating(tx, review.UserID, review.RecipeID, review.Rating)
	})
}

func (r *reviewRepository) Update(ctx context.Context, review *models.Review) (models.RecipeAggregates, error) {
	return r.writeAndRecompute(ctx, review.RecipeID, func(tx *gorm.DB) error {
		res := tx.Model(&models.Review{ID: review.ID}).
			Select("rating", "comment", "updated_at").
			Updates(review)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Review")
		}
		return setUserRating(tx, review.UserID, review.RecipeID, review.Rating)
	})
}

func (r *reviewRepository) Delete(ctx context.Context, review *models.Review) (models.RecipeAggregates, error) {
	return r.writeAndRecompute(ctx, review.RecipeID, func(tx *gorm.DB) error {
		if err := tx.Where("review_id = ?", review.ID).Delete(&models.ReviewHelpfulVote{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Review{}, review.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Review")
		}
		return removeUserRating(tx, review.UserID, review.RecipeID)
	})
}

// writeAndRecompute locks the recipe row, applies write, and rewrites every
// aggregate from the recipe's current reviews before committing.
func (r *reviewRepository) writeAndRecompute(ctx context.Context, recipeID uint, write func(tx *gorm.DB) error) (models.RecipeAggregates, error) {
	var agg models.RecipeAggregates
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := lockForUpdate(tx).Select("id").First(&recipe, recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Recipe")
			}
			return err
		}
		if err := write(tx); err != nil {
			return err
		}
		var err error
		agg, err = recomputeRecipeAggregates(tx, recipeID)
		return err
	})
	if err != nil {
		return models.RecipeAggregates{}, wrapTxError(err)
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return agg, nil
}

func recomputeRecipeAggregates(tx *gorm.DB, recipeID uint) (models.RecipeAggregates, error) {
	var reviews []models.Review
	if err := tx.Select("id", "rating").Where("recipe_id = ?", recipeID).Order("id ASC").Find(&reviews).Error; err != nil {
		return models.RecipeAggregates{}, err
	}
	agg := models.ComputeAggregates(reviews)

	var patch models.Recipe
	agg.Apply(&patch)
	err := tx.Model(&models.Recipe{ID: recipeID}).
		Select("average_rating", "rating_count", "review_count", "review_ids").
		Updates(&patch).Error
	return agg, err
}

// setUserRating upserts the (recipe, rating) pair on the user's record.
func setUserRating(tx *gorm.DB, userID, recipeID uint, rating int) error {
	return rewriteUserRatings(tx, userID, func(ratings []models.UserRating) []models.UserRating {
		for i := range ratings {
			if ratings[i].RecipeID == recipeID {
				ratings[i].Rating = rating
				return ratings
			}
		}
		return append(ratings, models.UserRating{RecipeID: recipeID, Rating: rating})
	})
}

func removeUserRating(tx *gorm.DB, userID, recipeID uint) error {
	return rewriteUserRatings(tx, userID, func(ratings []models.UserRating) []models.UserRating {
		kept := ratings[:0]
		for _, ur := range ratings {
			if ur.RecipeID != recipeID {
				kept = append(kept, ur)
			}
		}
		return kept
	})
}

func rewriteUserRatings(tx *gorm.DB, userID uint, edit func([]models.UserRating) []models.UserRating) error {
	var user models.User
	if err := tx.Select("id", "ratings").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	ratings := edit(user.Ratings)
	if ratings == nil {
		ratings = []models.UserRating{}
	}
	return tx.Model(&models.User{ID: userID}).
		Select("ratings").
		UpdateColumns(&models.User{Ratings: ratings}).Error
}

// ToggleHelpful flips the user's helpful vote on a review.
func (r *reviewRepository) ToggleHelpful(ctx context.Context, reviewID, userID uint) (int, bool, error) {
	var (
		helpful int
		marked  bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := lockForUpdate(tx).Select("id").First(&review, reviewID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Review")
			}
			return err
		}

		res := tx.Where("review_id = ? AND user_id = ?", reviewID, userID).Delete(&models.ReviewHelpfulVote{})
		if res.Error != nil {
			return res.Error
		}

		delta := gorm.Expr("CASE WHEN helpful > 0 THEN helpful - 1 ELSE 0 END")
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.ReviewHelpfulVote{ReviewID: reviewID, UserID: userID}).Error; err != nil {
				if isUniqueConstraintError(err) {
					return models.NewConflictError("Helpful vote already recorded")
				}
				return err
			}
			delta = gorm.Expr("helpful + 1")
			marked = true
		}

		if err := tx.Model(&models.Review{}).Where("id = ?", reviewID).UpdateColumn("helpful", delta).Error; err != nil {
			return err
		}
		var fresh models.Review
		if err := tx.Select("id", "helpful").First(&fresh, reviewID).Error; err != nil {
			return err
		}
		helpful = fresh.Helpful
		return nil
	})
	if err != nil {
		return 0, false, wrapTxError(err)
	}
	return helpful, marked, nil
}

func (r *reviewRepository) ListByRecipe(ctx context.Context, recipeID uint, sort string, limit, offset int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("recipe_id = ?", recipeID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	order, ok := reviewOrders[sort]
	if !ok {
		order = reviewOrders[DefaultReviewSort]
	}

	var reviews []models.Review
	err := q.Preload("User", authorColumns(false)).
		Order(order).Limit(limit).Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return reviews, total, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var reviews []models.Review
	err := q.Preload("Recipe", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "title", "images", "category")
	}).
		Order(reviewOrders[DefaultReviewSort]).Limit(limit).Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return reviews, total, nil
}

// List serves the admin review listing.
func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]models.Review, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Review{})
	if filter.Search != "" {
		q = q.Where("LOWER(comment) LIKE ?", likePattern(filter.Search))
	}
	if filter.Rating != 0 {
		q = q.Where("rating = ?", filter.Rating)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var reviews []models.Review
	err := q.Preload("User", authorColumns(true)).
		Preload("Recipe", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "images")
		}).
		Order(reviewOrders[DefaultReviewSort]).Limit(filter.Limit).Offset(filter.Offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return reviews, total, nil
}

package repository

import (
	"context"
	"errors"

	"recipebox/internal/cache"
	"recipebox/internal/models"

	"gorm.io/gorm"
)

// Recipe list orderings.
const (
	RecipeSortNewest  = "newest"
	RecipeSortRating  = "rating"
	RecipeSortPopular = "popular"
	RecipeSortViews   = "views"
)

var recipeOrders = map[string]string{
	RecipeSortNewest:  "created_at DESC, id DESC",
	RecipeSortRating:  "average_rating DESC, review_count DESC, id DESC",
	RecipeSortPopular: "likes DESC, id DESC",
	RecipeSortViews:   "views DESC, id DESC",
}

// recipeContentColumns are the owner-editable columns. Aggregates are never written through them.
var recipeContentColumns = []string{
	"title", "description", "image", "images", "prep_time", "difficulty",
	"category", "cuisine", "diet", "serves", "calories", "ingredients", "instructions",
}

// RecipeFilter narrows recipe listings. Empty fields do not filter.
type RecipeFilter struct {
	Search     string
	Category   string
	Cuisine    string
	Diet       string
	Difficulty string
	UserID     uint
	Sort       string
	Limit      int
	Offset     int

	// IncludeAuthorEmail exposes author emails, for admin listings only.
	IncludeAuthorEmail bool
}

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	IncrementViews(ctx context.Context, id uint) error
	List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error)
	ToggleLike(ctx context.Context, recipeID, userID uint) (likes int, liked bool, err error)
	SetImage(ctx context.Context, id uint, url string) error
	Delete(ctx context.Context, id uint) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository returns a new RecipeRepository implementation.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID reads through the recipe cache.
func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := cache.Aside(ctx, cache.RecipeKey(id), &recipe, cache.RecipeTTL, func() error {
		err := r.db.WithContext(ctx).
			Preload("User", authorColumns(false)).
			First(&recipe, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Recipe")
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{ID: recipe.ID}).
		Select(recipeContentColumns).
		Updates(recipe)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe")
	}
	cache.InvalidateRecipe(ctx, recipe.ID)
	return nil
}

func (r *recipeRepository) IncrementViews(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe")
	}
	return nil
}

func (r *recipeRepository) List(ctx context.Context, filter RecipeFilter) ([]models.Recipe, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Recipe{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", p, p)
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Cuisine != "" {
		q = q.Where("cuisine = ?", filter.Cuisine)
	}
	if filter.Diet != "" {
		q = q.Where("diet = ?", filter.Diet)
	}
	if filter.Difficulty != "" {
		q = q.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.UserID != 0 {
		q = q.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	order, ok := recipeOrders[filter.Sort]
	if !ok {
		order = recipeOrders[RecipeSortNewest]
	}

	var recipes []models.Recipe
	err := q.Preload("User", authorColumns(filter.IncludeAuthorEmail)).
		Order(order).
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return recipes, total, nil
}

// ToggleLike adds the user's like, or removes it when present.
func (r *recipeRepository) ToggleLike(ctx context.Context, recipeID, userID uint) (int, bool, error) {
	var (
		likes int
		liked bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := lockForUpdate(tx).Select("id").First(&recipe, recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Recipe")
			}
			return err
		}

		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.RecipeLike{})
		if res.Error != nil {
			return res.Error
		}

		delta := gorm.Expr("CASE WHEN likes > 0 THEN likes - 1 ELSE 0 END")
		if res.RowsAffected == 0 {
			if err := tx.Create(&models.RecipeLike{RecipeID: recipeID, UserID: userID}).Error; err != nil {
				if isUniqueConstraintError(err) {
					return models.NewConflictError("Like already recorded")
				}
				return err
			}
			delta = gorm.Expr("likes + 1")
			liked = true
		}

		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).UpdateColumn("likes", delta).Error; err != nil {
			return err
		}
		var fresh models.Recipe
		if err := tx.Select("id", "likes").First(&fresh, recipeID).Error; err != nil {
			return err
		}
		likes = fresh.Likes
		return nil
	})
	if err != nil {
		return 0, false, wrapTxError(err)
	}
	cache.InvalidateRecipe(ctx, recipeID)
	return likes, liked, nil
}

// SetImage replaces the primary image and the first gallery entry.
func (r *recipeRepository) SetImage(ctx context.Context, id uint, url string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := lockForUpdate(tx).Select("id", "image", "images").First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Recipe")
			}
			return err
		}
		images := recipe.Images
		if len(images) == 0 {
			images = []string{url}
		} else {
			images[0] = url
		}
		return tx.Model(&models.Recipe{ID: id}).
			Select("image", "images").
			Updates(&models.Recipe{Image: url, Images: images}).Error
	})
	if err != nil {
		return wrapTxError(err)
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}

// Delete removes the recipe with its reviews, votes and likes, and drops the recipe
// from the reviewers' rating lists, all in one transaction.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := lockForUpdate(tx).Select("id").First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Recipe")
			}
			return err
		}

		var reviews []models.Review
		if err := tx.Select("id", "user_id").Where("recipe_id = ?", id).Find(&reviews).Error; err != nil {
			return err
		}
		reviewIDs := make([]uint, 0, len(reviews))
		reviewers := make(map[uint]struct{}, len(reviews))
		for _, rv := range reviews {
			reviewIDs = append(reviewIDs, rv.ID)
			reviewers[rv.UserID] = struct{}{}
		}

		if len(reviewIDs) > 0 {
			if err := tx.Where("review_id IN ?", reviewIDs).Delete(&models.ReviewHelpfulVote{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeLike{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Recipe{}, id).Error; err != nil {
			return err
		}

		for userID := range reviewers {
			if err := removeUserRating(tx, userID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapTxError(err)
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}

// wrapTxError passes AppErrors through and wraps everything else as internal.
func wrapTxError(err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return models.NewInternalError(err)
}

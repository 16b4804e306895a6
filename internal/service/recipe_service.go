package service

import (
	"context"
	"log/slog"
	"strings"

	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/notifications"
	"recipebox/internal/repository"
	"recipebox/internal/validation"
)

type RecipeService struct {
	recipeRepo repository.RecipeRepository
	notifier   *notifications.Notifier
}

// RecipeContent is the owner-editable part of a recipe.
type RecipeContent struct {
	Title        string
	Description  string
	Image        string
	Images       []string
	PrepTime     int
	Difficulty   string
	Category     string
	Cuisine      string
	Diet         string
	Serves       int
	Calories     *int
	Ingredients  []string
	Instructions []string
}

type CreateRecipeInput struct {
	UserID uint
	RecipeContent
}

// UpdateRecipeInput is a partial edit. Nil fields are left unchanged.
type UpdateRecipeInput struct {
	RecipeID     uint
	UserID       uint
	Title        *string
	Description  *string
	Image        *string
	Images       []string
	PrepTime     *int
	Difficulty   *string
	Category     *string
	Cuisine      *string
	Diet         *string
	Serves       *int
	Calories     *int
	Ingredients  []string
	Instructions []string
}

func NewRecipeService(recipeRepo repository.RecipeRepository, notifier *notifications.Notifier) *RecipeService {
	return &RecipeService{recipeRepo: recipeRepo, notifier: notifier}
}

func (s *RecipeService) CreateRecipe(ctx context.Context, in CreateRecipeInput) (*models.Recipe, error) {
	c := in.RecipeContent
	recipe := &models.Recipe{
		Title:        strings.TrimSpace(c.Title),
		Description:  strings.TrimSpace(c.Description),
		Image:        strings.TrimSpace(c.Image),
		Images:       c.Images,
		PrepTime:     c.PrepTime,
		Difficulty:   c.Difficulty,
		Category:     c.Category,
		Cuisine:      c.Cuisine,
		Diet:         c.Diet,
		Serves:       c.Serves,
		Calories:     c.Calories,
		Ingredients:  c.Ingredients,
		Instructions: c.Instructions,
		UserID:       in.UserID,
		ReviewIDs:    []uint{},
	}
	if len(recipe.Images) == 0 && recipe.Image != "" {
		recipe.Images = []string{recipe.Image}
	}
	if err := validation.ValidateRecipe(recipe); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// GetRecipe returns a recipe and counts the view.
func (s *RecipeService) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	if err := s.recipeRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}
	return s.recipeRepo.GetByID(ctx, id)
}

func (s *RecipeService) ListRecipes(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, int64, error) {
	return s.recipeRepo.List(ctx, filter)
}

func (s *RecipeService) UpdateRecipe(ctx context.Context, in UpdateRecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, in.RecipeID)
	if err != nil {
		return nil, err
	}
	if recipe.UserID != in.UserID {
		return nil, models.NewForbiddenError("Not authorized to update this recipe")
	}

	setString(&recipe.Title, in.Title)
	setString(&recipe.Description, in.Description)
	setString(&recipe.Image, in.Image)
	setString(&recipe.Difficulty, in.Difficulty)
	setString(&recipe.Category, in.Category)
	setString(&recipe.Cuisine, in.Cuisine)
	setString(&recipe.Diet, in.Diet)
	if in.PrepTime != nil {
		recipe.PrepTime = *in.PrepTime
	}
	if in.Serves != nil {
		recipe.Serves = *in.Serves
	}
	if in.Calories != nil {
		recipe.Calories = in.Calories
	}
	if in.Images != nil {
		recipe.Images = in.Images
	}
	if in.Ingredients != nil {
		recipe.Ingredients = in.Ingredients
	}
	if in.Instructions != nil {
		recipe.Instructions = in.Instructions
	}

	if err := validation.ValidateRecipe(recipe); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := s.recipeRepo.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// DeleteRecipe removes the caller's own recipe with everything attached to it.
func (s *RecipeService) DeleteRecipe(ctx context.Context, recipeID, userID uint) error {
	recipe, err := s.recipeRepo.GetByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if recipe.UserID != userID {
		return models.NewForbiddenError("Not authorized to delete this recipe")
	}
	return s.remove(ctx, recipeID)
}

// DeleteRecipeAsAdmin removes any recipe with everything attached to it.
func (s *RecipeService) DeleteRecipeAsAdmin(ctx context.Context, recipeID uint) error {
	return s.remove(ctx, recipeID)
}

func (s *RecipeService) remove(ctx context.Context, recipeID uint) error {
	if err := s.recipeRepo.Delete(ctx, recipeID); err != nil {
		return err
	}
	if err := s.notifier.PublishRecipeDeleted(ctx, recipeID); err != nil {
		middleware.Logger.WarnContext(ctx, "publish recipe deletion failed",
			slog.Uint64("recipe_id", uint64(recipeID)), slog.String("error", err.Error()))
	}
	return nil
}

func (s *RecipeService) ToggleLike(ctx context.Context, recipeID, userID uint) (int, bool, error) {
	return s.recipeRepo.ToggleLike(ctx, recipeID, userID)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

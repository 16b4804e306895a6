package seed

import (
	"context"
	"fmt"
	"log"

	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// AdminEmail is the login of the seeded administrator.
const AdminEmail = "admin@recipebox.local"

// Seeder fills the database with demo users, recipes, likes and reviews.
// Reviews go through the review service so recipe aggregates and user ratings stay consistent.
type Seeder struct {
	db        *gorm.DB
	opts      Options
	factory   *Factory
	recipes   repository.RecipeRepository
	reviewSvc *service.ReviewService
}

// Result summarises one seeding run.
type Result struct {
	Users   []*models.User
	Recipes []*models.Recipe
	Reviews int
	Likes   int
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	if opts.Users <= 0 {
		opts.Users = 10
	}
	if opts.RecipesPerUser < 0 {
		opts.RecipesPerUser = 0
	}
	if opts.MaxReviews < 0 {
		opts.MaxReviews = 0
	}

	recipeRepo := repository.NewRecipeRepository(db)
	return &Seeder{
		db:      db,
		opts:    opts,
		factory: NewFactory(db, opts),
		recipes: recipeRepo,
		reviewSvc: service.NewReviewService(
			repository.NewReviewRepository(db),
			recipeRepo,
			repository.NewUserRepository(db),
			nil,
		),
	}
}

// Run creates one admin, opts.Users members, their recipes and a spread of reviews and likes.
func (s *Seeder) Run(ctx context.Context) (*Result, error) {
	log.Printf("🌱 Seeding %d users, %d recipes each, up to %d reviews per recipe...",
		s.opts.Users, s.opts.RecipesPerUser, s.opts.MaxReviews)

	res := &Result{}

	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.FullName = "RecipeBox Admin"
		u.Email = AdminEmail
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	res.Users = append(res.Users, admin)

	for i := 0; i < s.opts.Users; i++ {
		u, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		res.Users = append(res.Users, u)
	}
	log.Printf("✓ %d users created", len(res.Users))

	for _, author := range res.Users[1:] {
		for i := 0; i < s.opts.RecipesPerUser; i++ {
			recipe, err := s.factory.CreateRecipe(author)
			if err != nil {
				return nil, fmt.Errorf("failed to create recipe: %w", err)
			}
			res.Recipes = append(res.Recipes, recipe)
		}
	}
	log.Printf("✓ %d recipes created", len(res.Recipes))

	if s.opts.DryRun {
		log.Println("[dry-run] skipping reviews and likes")
		return res, nil
	}

	for _, recipe := range res.Recipes {
		reviewers := pickUsers(res.Users, gofakeit.Number(0, s.opts.MaxReviews))
		for _, reviewer := range reviewers {
			_, err := s.reviewSvc.AddReview(ctx, service.AddReviewInput{
				UserID:   reviewer.ID,
				RecipeID: recipe.ID,
				Rating:   gofakeit.Number(models.MinRating, models.MaxRating),
				Comment:  gofakeit.Sentence(gofakeit.Number(4, 20)),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to review recipe %d: %w", recipe.ID, err)
			}
			res.Reviews++
		}

		for _, fan := range pickUsers(res.Users, gofakeit.Number(0, len(res.Users)/2)) {
			if _, _, err := s.recipes.ToggleLike(ctx, recipe.ID, fan.ID); err != nil {
				return nil, fmt.Errorf("failed to like recipe %d: %w", recipe.ID, err)
			}
			res.Likes++
		}
	}
	log.Printf("✓ %d reviews and %d likes created", res.Reviews, res.Likes)

	return res, nil
}

// ClearAll removes every row the seeder can create, children first.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.ReviewHelpfulVote{},
			&models.RecipeLike{},
			&models.Review{},
			&models.Recipe{},
			&models.User{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return fmt.Errorf("clear %T: %w", model, err)
			}
		}
		return nil
	})
}

// pickUsers returns n distinct users in random order.
func pickUsers(users []*models.User, n int) []*models.User {
	if n > len(users) {
		n = len(users)
	}
	picked := make([]*models.User, len(users))
	copy(picked, users)
	gofakeit.ShuffleAnySlice(picked)
	return picked[:n]
}

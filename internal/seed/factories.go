// Package seed provides helpers to create demo data for the recipe database.
// These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"strings"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/validation"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DemoPassword is the password of every seeded account.
const DemoPassword = "password123"

var (
	categories   = []string{"Breakfast", "Lunch", "Dinner", "Dessert", "Snack", "Soup", "Drink", "Side"}
	cuisines     = []string{"West African", "Central African", "Italian", "Mexican", "Indian", "Chinese", "French", "Caribbean"}
	diets        = []string{"None", "Vegetarian", "Vegan", "Gluten-Free", "Keto"}
	difficulties = []string{"Easy", "Medium", "Hard"}
)

// Options tune the volume and shape of generated data.
type Options struct {
	Users          int
	RecipesPerUser int
	// MaxReviews caps reviews per recipe; each recipe draws 0..MaxReviews distinct reviewers.
	MaxReviews int
	// MaxDays spreads created_at over the trailing window so dashboards have history.
	MaxDays int
	// SkipBcrypt uses a cheap hash cost, for tests.
	SkipBcrypt bool
	// DryRun builds entities with synthetic IDs and never touches the database.
	DryRun bool
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	return &Factory{db: db, opts: opts, nextID: 1000}
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 180
	}
	back := time.Duration(gofakeit.Number(0, maxDays-1))*24*time.Hour +
		time.Duration(gofakeit.Number(0, 23))*time.Hour +
		time.Duration(gofakeit.Number(0, 59))*time.Minute
	return time.Now().Add(-back)
}

func (f *Factory) hashPassword() (string, error) {
	cost := bcrypt.DefaultCost
	if f.opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
	if err != nil {
		return "", fmt.Errorf("hash demo password: %w", err)
	}
	return string(hashed), nil
}

// CreateUser constructs and persists a sample user.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	avatar := fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID())
	user := &models.User{
		FullName: gofakeit.Name(),
		Email:    fmt.Sprintf("%s.%s@example.com", strings.ToLower(gofakeit.Username()), gofakeit.UUID()[:6]),
		Role:     models.RoleUser,
		Avatar:   &avatar,
		Bio:      gofakeit.Sentence(12),
		Location: gofakeit.City() + ", " + gofakeit.Country(),
		IsActive: true,
		SocialLinks: models.SocialLinks{
			Instagram: "@" + gofakeit.Username(),
		},
	}
	user.CreatedAt = f.pastTime()
	user.LastLogin = user.CreatedAt

	hashed, err := f.hashPassword()
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s <%s>", user.FullName, user.Email)
		return user, nil
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildRecipe constructs a recipe for the given author without persisting it.
func (f *Factory) BuildRecipe(author *models.User, overrides ...func(*models.Recipe)) *models.Recipe {
	dish := dishName()
	image := fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID())
	calories := gofakeit.Number(150, 950)

	ingredients := make([]string, gofakeit.Number(3, 9))
	for i := range ingredients {
		ingredients[i] = fmt.Sprintf("%d %s %s", gofakeit.Number(1, 4), gofakeit.RandomString([]string{"cup", "tbsp", "tsp", "pinch", "handful"}), ingredientName())
	}
	instructions := make([]string, gofakeit.Number(3, 7))
	for i := range instructions {
		instructions[i] = gofakeit.Sentence(gofakeit.Number(6, 14))
	}

	recipe := &models.Recipe{
		Title:        dish,
		Description:  gofakeit.Paragraph(1, 2, 12, " "),
		Image:        image,
		Images:       []string{image},
		PrepTime:     gofakeit.Number(5, 180),
		Difficulty:   gofakeit.RandomString(difficulties),
		Category:     gofakeit.RandomString(categories),
		Cuisine:      gofakeit.RandomString(cuisines),
		Diet:         gofakeit.RandomString(diets),
		Serves:       gofakeit.Number(1, 8),
		Calories:     &calories,
		Ingredients:  ingredients,
		Instructions: instructions,
		UserID:       author.ID,
		Views:        gofakeit.Number(0, 500),
		ReviewIDs:    []uint{},
	}
	recipe.CreatedAt = f.pastTime()
	if recipe.CreatedAt.Before(author.CreatedAt) {
		recipe.CreatedAt = author.CreatedAt
	}

	for _, override := range overrides {
		override(recipe)
	}
	return recipe
}

// CreateRecipe builds and persists a recipe for the given author.
func (f *Factory) CreateRecipe(author *models.User, overrides ...func(*models.Recipe)) (*models.Recipe, error) {
	recipe := f.BuildRecipe(author, overrides...)
	if err := validation.ValidateRecipe(recipe); err != nil {
		return nil, fmt.Errorf("invalid seed recipe: %w", err)
	}

	if f.opts.DryRun {
		f.nextID++
		recipe.ID = f.nextID
		log.Printf("[dry-run] CreateRecipe: author=%d title=%q", author.ID, recipe.Title)
		return recipe, nil
	}

	if err := f.db.Create(recipe).Error; err != nil {
		return nil, err
	}
	return recipe, nil
}

func dishName() string {
	switch gofakeit.Number(0, 4) {
	case 0:
		return gofakeit.Breakfast()
	case 1:
		return gofakeit.Lunch()
	case 2:
		return gofakeit.Dinner()
	case 3:
		return gofakeit.Snack()
	default:
		return gofakeit.Dessert()
	}
}

func ingredientName() string {
	if gofakeit.Bool() {
		return gofakeit.Vegetable()
	}
	return gofakeit.Fruit()
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// Recipe is a shared recipe with denormalized review aggregates.
type Recipe struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	Title        string   `gorm:"not null" json:"title"`
	Description  string   `gorm:"type:text;not null" json:"description"`
	Image        string   `gorm:"not null" json:"image"`
	Images       []string `gorm:"type:text;serializer:json" json:"images"`
	PrepTime     int      `gorm:"not null" json:"prepTime"`
	Difficulty   string   `gorm:"not null;index" json:"difficulty"`
	Category     string   `gorm:"not null;index" json:"category"`
	Cuisine      string   `gorm:"not null;index" json:"cuisine"`
	Diet         string   `gorm:"not null;index" json:"diet"`
	Serves       int      `gorm:"not null" json:"serves"`
	Calories     *int     `json:"calories,omitempty"`
	Ingredients  []string `gorm:"type:text;serializer:json" json:"ingredients"`
	Instructions []string `gorm:"type:text;serializer:json" json:"instructions"`
	UserID       uint     `gorm:"not null;index" json:"userId"`
	User         *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Likes        int      `gorm:"not null;default:0" json:"likes"`
	Views        int      `gorm:"not null;default:0" json:"views"`

	AverageRating float64 `gorm:"not null;default:0;index" json:"averageRating"`
	RatingCount   int     `gorm:"not null;default:0" json:"ratingCount"`
	ReviewIDs     []uint  `gorm:"column:review_ids;type:text;serializer:json" json:"reviewIds"`
	ReviewCount   int     `gorm:"not null;default:0" json:"reviewCount"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Rating and Reviews are the frontend aliases of AverageRating and ReviewCount.
	Rating  float64 `gorm:"-" json:"rating"`
	Reviews int     `gorm:"-" json:"reviews"`
}

// AfterFind fills the derived aliases.
func (r *Recipe) AfterFind(*gorm.DB) error {
	r.syncAliases()
	return nil
}

// AfterSave keeps the aliases current on the in-memory value.
func (r *Recipe) AfterSave(*gorm.DB) error {
	r.syncAliases()
	return nil
}

func (r *Recipe) syncAliases() {
	r.Rating = r.AverageRating
	r.Reviews = r.ReviewCount
}

// RecipeAggregates is the consistent set of review-derived values on a recipe.
type RecipeAggregates struct {
	AverageRating float64 `json:"averageRating"`
	RatingCount   int     `json:"ratingCount"`
	ReviewCount   int     `json:"reviewCount"`
	ReviewIDs     []uint  `json:"reviewIds"`
}

// ComputeAggregates derives aggregates from the recipe's full review set.
// The mean is unweighted; an empty set yields zeros.
func ComputeAggregates(reviews []Review) RecipeAggregates {
	agg := RecipeAggregates{ReviewIDs: make([]uint, 0, len(reviews))}
	if len(reviews) == 0 {
		return agg
	}
	sum := 0
	for _, rv := range reviews {
		sum += rv.Rating
		agg.ReviewIDs = append(agg.ReviewIDs, rv.ID)
	}
	agg.RatingCount = len(reviews)
	agg.ReviewCount = len(reviews)
	agg.AverageRating = float64(sum) / float64(len(reviews))
	return agg
}

// Apply copies aggregates onto the recipe.
func (a RecipeAggregates) Apply(r *Recipe) {
	r.AverageRating = a.AverageRating
	r.RatingCount = a.RatingCount
	r.ReviewCount = a.ReviewCount
	r.ReviewIDs = a.ReviewIDs
	r.syncAliases()
}

// RecipeLike records that a user liked a recipe.
type RecipeLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_recipe_likes_recipe_user" json:"recipeId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_recipe_likes_recipe_user;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

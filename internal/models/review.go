package models

import "time"

// Review limits.
const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 1000
)

// Review is one user's rating and comment on a recipe. A user reviews a recipe at most once.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_user_recipe" json:"userId"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_reviews_user_recipe;index" json:"recipeId"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"recipe,omitempty"`
	Rating    int       `gorm:"not null;index" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	Helpful   int       `gorm:"not null;default:0" json:"helpful"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReviewHelpfulVote records that a user marked a review as helpful.
type ReviewHelpfulVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null;uniqueIndex:idx_review_helpful_review_user" json:"reviewId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_review_helpful_review_user;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

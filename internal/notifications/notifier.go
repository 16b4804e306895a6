// Package notifications publishes domain events onto Redis channels.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Event types published on recipe channels.
const (
	EventRatingUpdated = "recipe_rating_updated"
	EventRecipeDeleted = "recipe_deleted"
)

// Event types published on a recipe owner's channel.
const (
	EventReviewAdded   = "review_added"
	EventReviewRemoved = "review_removed"
)

// RecipeRatingEvent carries a recipe's aggregates after a review write.
type RecipeRatingEvent struct {
	Type          string  `json:"type"`
	RecipeID      uint    `json:"recipeId"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// ReviewEvent tells a recipe owner that a review of their recipe was added or removed.
type ReviewEvent struct {
	Type       string `json:"type"`
	RecipeID   uint   `json:"recipeId"`
	ReviewID   uint   `json:"reviewId"`
	ReviewerID uint   `json:"reviewerId"`
	Rating     int    `json:"rating"`
}

// Notifier provides helpers to publish events into Redis channels.
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a Notifier. A nil client turns every publish into a no-op.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// Enabled reports whether publishes reach Redis.
func (n *Notifier) Enabled() bool {
	return n != nil && n.rdb != nil
}

func RecipeChannel(recipeID uint) string {
	return fmt.Sprintf("recipes:%d", recipeID)
}

func UserChannel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

// PublishRecipeRating announces new aggregates for a recipe.
func (n *Notifier) PublishRecipeRating(ctx context.Context, recipeID uint, average float64, reviewCount int) error {
	return n.publishJSON(ctx, RecipeChannel(recipeID), RecipeRatingEvent{
		Type:          EventRatingUpdated,
		RecipeID:      recipeID,
		AverageRating: average,
		ReviewCount:   reviewCount,
	})
}

// PublishRecipeDeleted announces that a recipe and its reviews are gone.
func (n *Notifier) PublishRecipeDeleted(ctx context.Context, recipeID uint) error {
	return n.publishJSON(ctx, RecipeChannel(recipeID), map[string]any{
		"type":     EventRecipeDeleted,
		"recipeId": recipeID,
	})
}

// PublishReviewToOwner sends a review event to the recipe owner's personal channel.
func (n *Notifier) PublishReviewToOwner(ctx context.Context, ownerID uint, evt ReviewEvent) error {
	return n.publishJSON(ctx, UserChannel(ownerID), evt)
}

func (n *Notifier) publishJSON(ctx context.Context, channel string, v any) error {
	if !n.Enabled() {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return n.rdb.Publish(ctx, channel, string(b)).Err()
}

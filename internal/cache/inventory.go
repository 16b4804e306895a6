package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	RecipeKeyPrefix = "recipe:%d"
	RevokedPrefix   = "blacklist:%s"
)

const RecipeTTL = 10 * time.Minute

func RecipeKey(recipeID uint) string {
	return fmt.Sprintf(RecipeKeyPrefix, recipeID)
}

// RevokedTokenKey is the key marking a token ID as revoked.
func RevokedTokenKey(jti string) string {
	return fmt.Sprintf(RevokedPrefix, jti)
}

func Invalidate(ctx context.Context, keys ...string) {
	if client != nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

func InvalidateRecipe(ctx context.Context, recipeID uint) {
	Invalidate(ctx, RecipeKey(recipeID))
}

package database

import "recipebox/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Recipe{},
		&models.RecipeLike{},
		&models.Review{},
		&models.ReviewHelpfulVote{},
	}
}

package repository

import (
	"fmt"
	"testing"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&config.Config{Env: "test", DBDriver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

var userSeq int

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	userSeq++
	u := &models.User{
		FullName: fmt.Sprintf("Cook %d", userSeq),
		Email:    fmt.Sprintf("cook%d@example.com", userSeq),
		Password: "hashed",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createTestRecipe(t *testing.T, db *gorm.DB, owner *models.User, title, category string) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		Title:        title,
		Description:  title + " description",
		Image:        "https://img.example.com/" + title + ".jpg",
		Images:       []string{"https://img.example.com/" + title + ".jpg"},
		PrepTime:     20,
		Difficulty:   "Easy",
		Category:     category,
		Cuisine:      "African",
		Diet:         "None",
		Serves:       2,
		Ingredients:  []string{"salt"},
		Instructions: []string{"stir"},
		UserID:       owner.ID,
	}
	require.NoError(t, db.Create(r).Error)
	return r
}

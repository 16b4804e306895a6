package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"recipebox/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name         string
		userID       uint
		mockBehavior func()
		wantStatus   int
		wantName     string
	}{
		{
			name:   "Success",
			userID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "full_name", "email", "role"}).
					AddRow(1, "Ada Cook", "ada@example.com", "user")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			wantName: "Ada Cook",
		},
		{
			name:   "Not Found",
			userID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE "users"."id" = $1 ORDER BY "users"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			wantStatus: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			user, err := repo.GetByID(ctx, tt.userID)

			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, models.StatusFor(err))
			} else if assert.NotNil(t, user) {
				assert.Equal(t, tt.wantName, user.FullName)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_CreateDuplicateIsConflict(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.User{FullName: "Ada", Email: "ada@example.com", Password: "x"})
	assert.Equal(t, 409, models.StatusFor(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_LifecycleOnSQLite(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &models.User{FullName: "  Bola  ", Email: " Bola@Example.COM ", Password: "hashed"}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, models.RoleUser, u.Role)

	byEmail, err := repo.GetByEmail(ctx, "BOLA@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, "Bola", byEmail.FullName)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Create(ctx, &models.User{FullName: "Dup", Email: "bola@example.com", Password: "x"})
	assert.Equal(t, 409, models.StatusFor(err))

	login := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(ctx, u.ID, login))
	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	require.NoError(t, repo.SetRole(ctx, u.ID, models.RoleAdmin))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.True(t, got.IsAdmin())
	assert.True(t, got.LastLogin.Equal(login))

	admins, err := repo.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, u.ID, admins[0].ID)

	assert.Equal(t, 404, models.StatusFor(repo.SetActive(ctx, 999, true)))
}

func TestUserRepository_BackfillRoles(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a := createTestUser(t, db)
	b := createTestUser(t, db)
	createTestUser(t, db)
	require.NoError(t, db.Exec("UPDATE users SET role = NULL WHERE id = ?", a.ID).Error)
	require.NoError(t, db.Exec("UPDATE users SET role = '' WHERE id = ?", b.ID).Error)

	found, updated, err := repo.BackfillRoles(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), found)
	assert.Equal(t, int64(2), updated)

	found, updated, err = repo.BackfillRoles(ctx)
	require.NoError(t, err)
	assert.Zero(t, found)
	assert.Zero(t, updated)
}

func TestUserRepository_ContentCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	reviews := NewReviewRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db)
	createTestRecipe(t, db, owner, "one", "Main")
	r2 := createTestRecipe(t, db, owner, "two", "Main")
	_, err := reviews.Create(ctx, &models.Review{UserID: owner.ID, RecipeID: r2.ID, Rating: 5, Comment: "mine"})
	require.NoError(t, err)

	recipes, revs, err := repo.ContentCounts(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), recipes)
	assert.Equal(t, int64(1), revs)
}

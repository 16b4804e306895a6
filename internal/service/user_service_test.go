package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"recipebox/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUserService_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	t.Run("blank full name", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, FullName: "original"}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, FullName: strPtr("  ")})
		assertValidationError(t, err)
	})

	t.Run("bio too long", func(t *testing.T) {
		t.Parallel()
		repo := noopUserRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		}
		svc := NewUserService(repo)
		_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Bio: strPtr(strings.Repeat("x", 501))})
		assertValidationError(t, err)
	})
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, FullName: "Old Name", Bio: "my bio", Location: "Douala"}, nil
	}
	var saved *models.User
	repo.updateFn = func(_ context.Context, u *models.User) error {
		saved = u
		return nil
	}
	svc := NewUserService(repo)

	user, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID:      1,
		FullName:    strPtr(" New Name "),
		Avatar:      strPtr("https://img.example.com/me.png"),
		SocialLinks: &models.SocialLinks{Instagram: "@cook"},
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.FullName)
	assert.Equal(t, "my bio", user.Bio, "bio should be unchanged when not provided")
	assert.Equal(t, "Douala", user.Location)
	require.NotNil(t, user.Avatar)
	assert.Equal(t, "@cook", user.SocialLinks.Instagram)
	assert.Same(t, user, saved)
}

func TestUserService_UpdateProfile_RepoError(t *testing.T) {
	t.Parallel()
	repoErr := errors.New("update failed")
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id}, nil
	}
	repo.updateFn = func(context.Context, *models.User) error { return repoErr }
	svc := NewUserService(repo)

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{UserID: 1, Location: strPtr("Yaounde")})
	assert.ErrorIs(t, err, repoErr)
}

func TestUserService_GetPublicProfile(t *testing.T) {
	t.Parallel()
	repo := noopUserRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.User, error) {
		return &models.User{ID: id, FullName: "Ama", Email: "ama@example.com", Role: models.RoleAdmin,
			Ratings: []models.UserRating{{RecipeID: 1, Rating: 5}}}, nil
	}
	repo.contentCountsFn = func(context.Context, uint) (int64, int64, error) { return 3, 9, nil }
	svc := NewUserService(repo)

	user, err := svc.GetPublicProfile(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, user.Email)
	assert.Empty(t, user.Role)
	assert.Nil(t, user.Ratings)
	assert.Equal(t, int64(3), *user.RecipeCount)
	assert.Equal(t, int64(9), *user.ReviewCount)
}

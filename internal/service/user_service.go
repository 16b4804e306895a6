// Package service holds the business rules between HTTP handlers and repositories.
package service

import (
	"context"
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/repository"
	"recipebox/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
}

// UpdateProfileInput carries a partial profile edit. Nil fields are left unchanged.
type UpdateProfileInput struct {
	UserID      uint
	FullName    *string
	Bio         *string
	Location    *string
	Avatar      *string
	SocialLinks *models.SocialLinks
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetPublicProfile returns a user without private fields, with content counts.
func (s *UserService) GetPublicProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	recipes, reviews, err := s.userRepo.ContentCounts(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Email = ""
	user.Role = ""
	user.Ratings = nil
	user.RecipeCount = &recipes
	user.ReviewCount = &reviews
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.FullName != nil {
		if err := validation.ValidateFullName(*in.FullName); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		user.Location = strings.TrimSpace(*in.Location)
	}
	if in.Avatar != nil {
		avatar := strings.TrimSpace(*in.Avatar)
		if avatar == "" {
			user.Avatar = nil
		} else {
			user.Avatar = &avatar
		}
	}
	if in.SocialLinks != nil {
		user.SocialLinks = *in.SocialLinks
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

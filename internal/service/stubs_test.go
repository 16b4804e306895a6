package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"recipebox/internal/mailer"
	"recipebox/internal/models"
	"recipebox/internal/repository"

	"github.com/stretchr/testify/assert"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, models.CodeValidation, appErr.Code)
	}
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	if assert.True(t, errors.As(err, &appErr), "expected AppError, got %v", err) {
		assert.Equal(t, code, appErr.Code)
	}
}

type userRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByEmailFn     func(context.Context, string) (*models.User, error)
	createFn         func(context.Context, *models.User) error
	updateFn         func(context.Context, *models.User) error
	setActiveFn      func(context.Context, uint, bool) error
	setRoleFn        func(context.Context, uint, string) error
	contentCountsFn  func(context.Context, uint) (int64, int64, error)
	touchLastLoginFn func(context.Context, uint, time.Time) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("User")
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if s.getByEmailFn != nil {
		return s.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	if s.createFn != nil {
		return s.createFn(ctx, u)
	}
	return nil
}

func (s *userRepoStub) Update(ctx context.Context, u *models.User) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, u)
	}
	return nil
}

func (s *userRepoStub) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	if s.touchLastLoginFn != nil {
		return s.touchLastLoginFn(ctx, id, at)
	}
	return nil
}

func (s *userRepoStub) SetActive(ctx context.Context, id uint, active bool) error {
	if s.setActiveFn != nil {
		return s.setActiveFn(ctx, id, active)
	}
	return nil
}

func (s *userRepoStub) SetRole(ctx context.Context, id uint, role string) error {
	if s.setRoleFn != nil {
		return s.setRoleFn(ctx, id, role)
	}
	return nil
}

func (s *userRepoStub) ListAdmins(context.Context) ([]models.User, error) {
	return nil, nil
}

func (s *userRepoStub) BackfillRoles(context.Context) (int64, int64, error) {
	return 0, 0, nil
}

func (s *userRepoStub) ContentCounts(ctx context.Context, id uint) (int64, int64, error) {
	if s.contentCountsFn != nil {
		return s.contentCountsFn(ctx, id)
	}
	return 0, 0, nil
}

type recipeRepoStub struct {
	createFn         func(context.Context, *models.Recipe) error
	getByIDFn        func(context.Context, uint) (*models.Recipe, error)
	updateFn         func(context.Context, *models.Recipe) error
	incrementViewsFn func(context.Context, uint) error
	listFn           func(context.Context, repository.RecipeFilter) ([]models.Recipe, int64, error)
	toggleLikeFn     func(context.Context, uint, uint) (int, bool, error)
	deleteFn         func(context.Context, uint) error
}

func (s *recipeRepoStub) Create(ctx context.Context, r *models.Recipe) error {
	if s.createFn != nil {
		return s.createFn(ctx, r)
	}
	return nil
}

func (s *recipeRepoStub) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Recipe")
}

func (s *recipeRepoStub) Update(ctx context.Context, r *models.Recipe) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, r)
	}
	return nil
}

func (s *recipeRepoStub) IncrementViews(ctx context.Context, id uint) error {
	if s.incrementViewsFn != nil {
		return s.incrementViewsFn(ctx, id)
	}
	return nil
}

func (s *recipeRepoStub) List(ctx context.Context, f repository.RecipeFilter) ([]models.Recipe, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, f)
	}
	return nil, 0, nil
}

func (s *recipeRepoStub) ToggleLike(ctx context.Context, recipeID, userID uint) (int, bool, error) {
	if s.toggleLikeFn != nil {
		return s.toggleLikeFn(ctx, recipeID, userID)
	}
	return 0, false, nil
}

func (s *recipeRepoStub) SetImage(context.Context, uint, string) error {
	return nil
}

func (s *recipeRepoStub) Delete(ctx context.Context, id uint) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

type reviewRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.Review, error)
	existsFn  func(context.Context, uint, uint) (bool, error)
	createFn  func(context.Context, *models.Review) (models.RecipeAggregates, error)
	updateFn  func(context.Context, *models.Review) (models.RecipeAggregates, error)
	deleteFn  func(context.Context, *models.Review) (models.RecipeAggregates, error)
	listFn    func(context.Context, repository.ReviewFilter) ([]models.Review, int64, error)
}

func (s *reviewRepoStub) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Review")
}

func (s *reviewRepoStub) Exists(ctx context.Context, userID, recipeID uint) (bool, error) {
	if s.existsFn != nil {
		return s.existsFn(ctx, userID, recipeID)
	}
	return false, nil
}

func (s *reviewRepoStub) Create(ctx context.Context, r *models.Review) (models.RecipeAggregates, error) {
	if s.createFn != nil {
		return s.createFn(ctx, r)
	}
	return models.RecipeAggregates{}, nil
}

func (s *reviewRepoStub) Update(ctx context.Context, r *models.Review) (models.RecipeAggregates, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, r)
	}
	return models.RecipeAggregates{}, nil
}

func (s *reviewRepoStub) Delete(ctx context.Context, r *models.Review) (models.RecipeAggregates, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, r)
	}
	return models.RecipeAggregates{}, nil
}

func (s *reviewRepoStub) ToggleHelpful(context.Context, uint, uint) (int, bool, error) {
	return 0, false, nil
}

func (s *reviewRepoStub) ListByRecipe(context.Context, uint, string, int, int) ([]models.Review, int64, error) {
	return nil, 0, nil
}

func (s *reviewRepoStub) ListByUser(context.Context, uint, int, int) ([]models.Review, int64, error) {
	return nil, 0, nil
}

func (s *reviewRepoStub) List(ctx context.Context, f repository.ReviewFilter) ([]models.Review, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, f)
	}
	return nil, 0, nil
}

type adminRepoStub struct {
	totals       repository.Totals
	top          []models.Recipe
	users        []models.User
	recent       []models.Recipe
	categories   []repository.CategoryCount
	ratings      []repository.RatingCount
	countBetween func(model any, from, to time.Time) int64
	totalsSince  time.Time
	err          error
}

func (s *adminRepoStub) Totals(_ context.Context, since time.Time) (repository.Totals, error) {
	s.totalsSince = since
	return s.totals, s.err
}

func (s *adminRepoStub) TopRecipes(context.Context, int) ([]models.Recipe, error) {
	return s.top, nil
}

func (s *adminRepoStub) RecentUsers(context.Context, int) ([]models.User, error) {
	return s.users, nil
}

func (s *adminRepoStub) RecentRecipes(context.Context, int) ([]models.Recipe, error) {
	return s.recent, nil
}

func (s *adminRepoStub) CountCreatedBetween(_ context.Context, model any, from, to time.Time) (int64, error) {
	if s.countBetween != nil {
		return s.countBetween(model, from, to), nil
	}
	return 0, nil
}

func (s *adminRepoStub) CategoryCounts(context.Context, int) ([]repository.CategoryCount, error) {
	return s.categories, nil
}

func (s *adminRepoStub) RatingDistribution(context.Context) ([]repository.RatingCount, error) {
	return s.ratings, nil
}

func (s *adminRepoStub) ListUsers(context.Context, repository.UserFilter) ([]models.User, int64, error) {
	return s.users, int64(len(s.users)), nil
}

type senderStub struct {
	err  error
	sent []mailer.Message
}

func (s *senderStub) Send(_ context.Context, msgs ...mailer.Message) error {
	s.sent = append(s.sent, msgs...)
	return s.err
}

package repository

import (
	"context"
	"time"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search string
	Role   string
	Limit  int
	Offset int
}

// Totals are the dashboard headline counts.
type Totals struct {
	Users       int64
	Recipes     int64
	Reviews     int64
	ActiveUsers int64
	NewUsers    int64
	NewRecipes  int64
	NewReviews  int64
}

// CategoryCount is the number of recipes in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// RatingCount is the number of reviews with one rating value.
type RatingCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// AdminRepository serves dashboard statistics and admin listings.
type AdminRepository interface {
	Totals(ctx context.Context, since time.Time) (Totals, error)
	TopRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
	RecentUsers(ctx context.Context, limit int) ([]models.User, error)
	RecentRecipes(ctx context.Context, limit int) ([]models.Recipe, error)
	CountCreatedBetween(ctx context.Context, model any, from, to time.Time) (int64, error)
	CategoryCounts(ctx context.Context, limit int) ([]CategoryCount, error)
	RatingDistribution(ctx context.Context) ([]RatingCount, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]models.User, int64, error)
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository returns a new AdminRepository implementation.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Totals(ctx context.Context, since time.Time) (Totals, error) {
	var t Totals
	db := r.db.WithContext(ctx)
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&t.Users, db.Model(&models.User{})},
		{&t.Recipes, db.Model(&models.Recipe{})},
		{&t.Reviews, db.Model(&models.Review{})},
		{&t.ActiveUsers, db.Model(&models.User{}).Where("is_active = ?", true)},
		{&t.NewUsers, db.Model(&models.User{}).Where("created_at >= ?", since)},
		{&t.NewRecipes, db.Model(&models.Recipe{}).Where("created_at >= ?", since)},
		{&t.NewReviews, db.Model(&models.Review{}).Where("created_at >= ?", since)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return Totals{}, models.NewInternalError(err)
		}
	}
	return t, nil
}

func (r *adminRepository) TopRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Select("id", "title", "average_rating", "review_count", "images").
		Order("average_rating DESC, review_count DESC, id ASC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *adminRepository) RecentUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Select("id", "full_name", "email", "created_at", "is_active").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *adminRepository) RecentRecipes(ctx context.Context, limit int) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Select("id", "title", "category", "images", "created_at", "user_id").
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "full_name") }).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

// CountCreatedBetween counts rows of model created in [from, to).
func (r *adminRepository) CountCreatedBetween(ctx context.Context, model any, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(model).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&n).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return n, nil
}

func (r *adminRepository) CategoryCounts(ctx context.Context, limit int) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("count DESC, category ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

func (r *adminRepository) RatingDistribution(ctx context.Context) ([]RatingCount, error) {
	var rows []RatingCount
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Order("rating ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return rows, nil
}

// ListUsers pages through users with their recipe and review counts.
// Role "user" also matches accounts that never had a role assigned.
func (r *adminRepository) ListUsers(ctx context.Context, filter UserFilter) ([]models.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.User{})
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", p, p)
	}
	switch filter.Role {
	case "":
	case models.RoleUser:
		q = q.Where("role = ? OR role IS NULL OR role = ''", models.RoleUser)
	default:
		q = q.Where("role = ?", filter.Role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := q.Order("created_at DESC, id DESC").Limit(filter.Limit).Offset(filter.Offset).Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	ids := make([]uint, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	recipeCounts, err := countByUser(ctx, r.db, &models.Recipe{}, ids)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	reviewCounts, err := countByUser(ctx, r.db, &models.Review{}, ids)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	for i := range users {
		rc, vc := recipeCounts[users[i].ID], reviewCounts[users[i].ID]
		users[i].RecipeCount = &rc
		users[i].ReviewCount = &vc
	}
	return users, total, nil
}

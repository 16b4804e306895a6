package repository

import (
	"context"
	"errors"
	"time"

	"recipebox/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	SetActive(ctx context.Context, id uint, active bool) error
	SetRole(ctx context.Context, id uint, role string) error
	ListAdmins(ctx context.Context) ([]models.User, error)
	BackfillRoles(ctx context.Context) (found int64, updated int64, err error)
	ContentCounts(ctx context.Context, id uint) (recipes int64, reviews int64, err error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User")
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no account uses the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An account with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("An account with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.updateColumn(ctx, id, "last_login", at)
}

func (r *userRepository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.updateColumn(ctx, id, "is_active", active)
}

func (r *userRepository) SetRole(ctx context.Context, id uint, role string) error {
	return r.updateColumn(ctx, id, "role", role)
}

func (r *userRepository) updateColumn(ctx context.Context, id uint, column string, value any) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User")
	}
	return nil
}

func (r *userRepository) ListAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Where("role = ?", models.RoleAdmin).Order("id ASC").Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

// BackfillRoles assigns the user role to every account without one.
func (r *userRepository) BackfillRoles(ctx context.Context) (int64, int64, error) {
	missing := r.db.WithContext(ctx).Model(&models.User{}).Where("role IS NULL OR role = ''")

	var found int64
	if err := missing.Count(&found).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	if found == 0 {
		return 0, 0, nil
	}

	res := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role IS NULL OR role = ''").
		Update("role", models.RoleUser)
	if res.Error != nil {
		return found, 0, models.NewInternalError(res.Error)
	}
	return found, res.RowsAffected, nil
}

func (r *userRepository) ContentCounts(ctx context.Context, id uint) (int64, int64, error) {
	var recipes, reviews int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Recipe{}).Where("user_id = ?", id).Count(&recipes).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	if err := db.Model(&models.Review{}).Where("user_id = ?", id).Count(&reviews).Error; err != nil {
		return 0, 0, models.NewInternalError(err)
	}
	return recipes, reviews, nil
}

// countByUser groups rows of model by user_id for the given users.
func countByUser(ctx context.Context, db *gorm.DB, model any, userIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		UserID uint
		Total  int64
	}
	err := db.WithContext(ctx).Model(model).
		Select("user_id, COUNT(*) AS total").
		Where("user_id IN ?", userIDs).
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.UserID] = row.Total
	}
	return counts, nil
}

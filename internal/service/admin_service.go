package service

import (
	"context"
	"time"

	"recipebox/internal/models"
	"recipebox/internal/repository"
)

// Dashboard sizes.
const (
	dashboardListSize   = 5
	dashboardCategories = 8
	dashboardMonths     = 6
	newContentWindow    = 30 * 24 * time.Hour
)

type AdminService struct {
	adminRepo  repository.AdminRepository
	userRepo   repository.UserRepository
	reviewRepo repository.ReviewRepository
	recipes    *RecipeService
	reviews    *ReviewService
	now        func() time.Time
}

type DashboardStats struct {
	TotalUsers          int64 `json:"totalUsers"`
	TotalRecipes        int64 `json:"totalRecipes"`
	TotalReviews        int64 `json:"totalReviews"`
	ActiveUsers         int64 `json:"activeUsers"`
	NewUsersThisMonth   int64 `json:"newUsersThisMonth"`
	NewRecipesThisMonth int64 `json:"newRecipesThisMonth"`
	NewReviewsThisMonth int64 `json:"newReviewsThisMonth"`
}

type TopRecipe struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	AverageRating float64  `json:"averageRating"`
	ReviewCount   int      `json:"reviewCount"`
	Images        []string `json:"images"`
}

type RecentUser struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
}

type RecipeAuthor struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
}

type RecentRecipe struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Category  string        `json:"category"`
	Images    []string      `json:"images"`
	CreatedAt time.Time     `json:"createdAt"`
	User      *RecipeAuthor `json:"user"`
}

type MonthlyUsers struct {
	Month string `json:"month"`
	Users int64  `json:"users"`
}

type MonthlyActivity struct {
	Month   string `json:"month"`
	Recipes int64  `json:"recipes"`
	Reviews int64  `json:"reviews"`
}

type DashboardCharts struct {
	UserGrowth          []MonthlyUsers             `json:"userGrowth"`
	RecipeCategories    []repository.CategoryCount `json:"recipeCategories"`
	RatingsDistribution []repository.RatingCount   `json:"ratingsDistribution"`
	MonthlyActivity     []MonthlyActivity          `json:"monthlyActivity"`
}

type Dashboard struct {
	Stats         DashboardStats  `json:"stats"`
	TopRecipes    []TopRecipe     `json:"topRecipes"`
	RecentUsers   []RecentUser    `json:"recentUsers"`
	RecentRecipes []RecentRecipe  `json:"recentRecipes"`
	Charts        DashboardCharts `json:"charts"`
}

// MonthBucket is a calendar month as the half-open range [Start, End).
type MonthBucket struct {
	Label string
	Start time.Time
	End   time.Time
}

func NewAdminService(
	adminRepo repository.AdminRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
	recipes *RecipeService,
	reviews *ReviewService,
) *AdminService {
	return &AdminService{
		adminRepo:  adminRepo,
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		recipes:    recipes,
		reviews:    reviews,
		now:        time.Now,
	}
}

// TrailingMonths returns n calendar months ending with the one containing now, oldest first.
func TrailingMonths(now time.Time, n int) []MonthBucket {
	buckets := make([]MonthBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		buckets = append(buckets, MonthBucket{
			Label: start.Format("Jan 2006"),
			Start: start,
			End:   start.AddDate(0, 1, 0),
		})
	}
	return buckets
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()

	totals, err := s.adminRepo.Totals(ctx, now.Add(-newContentWindow))
	if err != nil {
		return nil, err
	}
	d := &Dashboard{
		Stats: DashboardStats{
			TotalUsers:          totals.Users,
			TotalRecipes:        totals.Recipes,
			TotalReviews:        totals.Reviews,
			ActiveUsers:         totals.ActiveUsers,
			NewUsersThisMonth:   totals.NewUsers,
			NewRecipesThisMonth: totals.NewRecipes,
			NewReviewsThisMonth: totals.NewReviews,
		},
		TopRecipes:    []TopRecipe{},
		RecentUsers:   []RecentUser{},
		RecentRecipes: []RecentRecipe{},
	}

	top, err := s.adminRepo.TopRecipes(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}
	for _, r := range top {
		d.TopRecipes = append(d.TopRecipes, TopRecipe{
			ID: r.ID, Title: r.Title, AverageRating: r.AverageRating, ReviewCount: r.ReviewCount, Images: r.Images,
		})
	}

	users, err := s.adminRepo.RecentUsers(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		d.RecentUsers = append(d.RecentUsers, RecentUser{
			ID: u.ID, FullName: u.FullName, Email: u.Email, CreatedAt: u.CreatedAt, IsActive: u.IsActive,
		})
	}

	recent, err := s.adminRepo.RecentRecipes(ctx, dashboardListSize)
	if err != nil {
		return nil, err
	}
	for _, r := range recent {
		item := RecentRecipe{ID: r.ID, Title: r.Title, Category: r.Category, Images: r.Images, CreatedAt: r.CreatedAt}
		if r.User != nil {
			item.User = &RecipeAuthor{ID: r.User.ID, FullName: r.User.FullName}
		}
		d.RecentRecipes = append(d.RecentRecipes, item)
	}

	if d.Charts, err = s.charts(ctx, now); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *AdminService) charts(ctx context.Context, now time.Time) (DashboardCharts, error) {
	charts := DashboardCharts{
		UserGrowth:      make([]MonthlyUsers, 0, dashboardMonths),
		MonthlyActivity: make([]MonthlyActivity, 0, dashboardMonths),
	}

	for _, b := range TrailingMonths(now, dashboardMonths) {
		users, err := s.adminRepo.CountCreatedBetween(ctx, &models.User{}, b.Start, b.End)
		if err != nil {
			return charts, err
		}
		recipes, err := s.adminRepo.CountCreatedBetween(ctx, &models.Recipe{}, b.Start, b.End)
		if err != nil {
			return charts, err
		}
		reviews, err := s.adminRepo.CountCreatedBetween(ctx, &models.Review{}, b.Start, b.End)
		if err != nil {
			return charts, err
		}
		charts.UserGrowth = append(charts.UserGrowth, MonthlyUsers{Month: b.Label, Users: users})
		charts.MonthlyActivity = append(charts.MonthlyActivity, MonthlyActivity{Month: b.Label, Recipes: recipes, Reviews: reviews})
	}

	categories, err := s.adminRepo.CategoryCounts(ctx, dashboardCategories)
	if err != nil {
		return charts, err
	}
	ratings, err := s.adminRepo.RatingDistribution(ctx)
	if err != nil {
		return charts, err
	}
	charts.RecipeCategories = nonNil(categories)
	charts.RatingsDistribution = nonNil(ratings)
	return charts, nil
}

func (s *AdminService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	return s.adminRepo.ListUsers(ctx, filter)
}

func (s *AdminService) ListRecipes(ctx context.Context, filter repository.RecipeFilter) ([]models.Recipe, int64, error) {
	filter.IncludeAuthorEmail = true
	return s.recipes.ListRecipes(ctx, filter)
}

func (s *AdminService) ListReviews(ctx context.Context, filter repository.ReviewFilter) ([]models.Review, int64, error) {
	return s.reviewRepo.List(ctx, filter)
}

func (s *AdminService) UpdateUserStatus(ctx context.Context, userID uint, active bool) (*models.User, error) {
	if err := s.userRepo.SetActive(ctx, userID, active); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AdminService) PromoteToAdmin(ctx context.Context, userID uint) (*models.User, error) {
	if err := s.userRepo.SetRole(ctx, userID, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AdminService) DeleteRecipe(ctx context.Context, recipeID uint) error {
	return s.recipes.DeleteRecipeAsAdmin(ctx, recipeID)
}

func (s *AdminService) DeleteReview(ctx context.Context, reviewID uint) error {
	return s.reviews.DeleteReviewAsAdmin(ctx, reviewID)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

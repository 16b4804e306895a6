package server

import (
	"strings"

	"recipebox/internal/models"
	"recipebox/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// GetDashboardStats handles GET /api/admin/dashboard/stats
func (s *Server) GetDashboardStats(c *fiber.Ctx) error {
	dashboard, err := s.adminService.Dashboard(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(dashboard)
}

// GetAdminUsers handles GET /api/admin/users
func (s *Server) GetAdminUsers(c *fiber.Ctx) error {
	p := parsePagination(c)
	users, total, err := s.adminService.ListUsers(c.UserContext(), repository.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Role:   c.Query("role"),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return p.page(c, "users", "totalUsers", users, total)
}

// GetAdminRecipes handles GET /api/admin/recipes
func (s *Server) GetAdminRecipes(c *fiber.Ctx) error {
	p := parsePagination(c)
	recipes, total, err := s.adminService.ListRecipes(c.UserContext(), repository.RecipeFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Category: c.Query("category"),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return p.page(c, "recipes", "totalRecipes", recipes, total)
}

// GetAdminReviews handles GET /api/admin/reviews
func (s *Server) GetAdminReviews(c *fiber.Ctx) error {
	p := parsePagination(c)
	reviews, total, err := s.adminService.ListReviews(c.UserContext(), repository.ReviewFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Rating: c.QueryInt("rating", 0),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return p.page(c, "reviews", "totalReviews", reviews, total)
}

// UpdateUserStatus handles PUT /api/admin/users/:userId/status
func (s *Server) UpdateUserStatus(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.IsActive == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("isActive is required"))
	}

	user, err := s.adminService.UpdateUserStatus(c.UserContext(), userID, *req.IsActive)
	if err != nil {
		return s.respondError(c, err)
	}

	message := "User activated successfully"
	if !user.IsActive {
		message = "User deactivated successfully"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"user": fiber.Map{
			"id":       user.ID,
			"fullName": user.FullName,
			"email":    user.Email,
			"isActive": user.IsActive,
		},
	})
}

// PromoteToAdmin handles PUT /api/admin/users/:userId/admin
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.adminService.PromoteToAdmin(c.UserContext(), userID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "User promoted to admin successfully",
		"user": fiber.Map{
			"id":       user.ID,
			"fullName": user.FullName,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

// AdminDeleteRecipe handles DELETE /api/admin/recipes/:recipeId
func (s *Server) AdminDeleteRecipe(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "recipeId")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeleteRecipe(c.UserContext(), recipeID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Recipe and associated reviews deleted successfully"})
}

// AdminDeleteReview handles DELETE /api/admin/reviews/:reviewId
func (s *Server) AdminDeleteReview(c *fiber.Ctx) error {
	reviewID, err := s.parseID(c, "reviewId")
	if err != nil {
		return nil
	}

	if err := s.adminService.DeleteReview(c.UserContext(), reviewID); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

package server

import (
	"recipebox/internal/repository"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// AddReview handles POST /api/reviews/:recipeId
func (s *Server) AddReview(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "recipeId")
	if err != nil {
		return nil
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	review, err := s.reviewService.AddReview(c.UserContext(), service.AddReviewInput{
		UserID:   currentUserID(c),
		RecipeID: recipeID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review added successfully",
		"review":  review,
	})
}

// GetRecipeReviews handles GET /api/reviews/recipe/:recipeId
func (s *Server) GetRecipeReviews(c *fiber.Ctx) error {
	recipeID, err := s.parseID(c, "recipeId")
	if err != nil {
		return nil
	}

	p := parsePagination(c)
	reviews, total, err := s.reviewService.ListRecipeReviews(c.UserContext(), recipeID,
		c.Query("sort", repository.DefaultReviewSort), p.Limit, p.Offset)
	if err != nil {
		return s.respondError(c, err)
	}
	return p.page(c, "reviews", "totalReviews", reviews, total)
}

// GetUserReviews handles GET /api/reviews/user/:userId
func (s *Server) GetUserReviews(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	p := parsePagination(c)
	reviews, total, err := s.reviewService.ListUserReviews(c.UserContext(), userID, p.Limit, p.Offset)
	if err != nil {
		return s.respondError(c, err)
	}
	return p.page(c, "reviews", "totalReviews", reviews, total)
}

// UpdateReview handles PUT /api/reviews/:reviewId
func (s *Server) UpdateReview(c *fiber.Ctx) error {
	reviewID, err := s.parseID(c, "reviewId")
	if err != nil {
		return nil
	}

	var req reviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	review, err := s.reviewService.UpdateReview(c.UserContext(), service.UpdateReviewInput{
		ReviewID: reviewID,
		UserID:   currentUserID(c),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Review updated successfully",
		"review":  review,
	})
}

// DeleteReview handles DELETE /api/reviews/:reviewId
func (s *Server) DeleteReview(c *fiber.Ctx) error {
	reviewID, err := s.parseID(c, "reviewId")
	if err != nil {
		return nil
	}

	if err := s.reviewService.DeleteReview(c.UserContext(), reviewID, currentUserID(c)); err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Review deleted successfully"})
}

// ToggleReviewHelpful handles POST /api/reviews/:reviewId/helpful
func (s *Server) ToggleReviewHelpful(c *fiber.Ctx) error {
	reviewID, err := s.parseID(c, "reviewId")
	if err != nil {
		return nil
	}

	helpful, marked, err := s.reviewService.ToggleHelpful(c.UserContext(), reviewID, currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}

	message := "Marked as helpful"
	if !marked {
		message = "Helpful mark removed"
	}
	return c.JSON(fiber.Map{
		"message":         message,
		"helpful":         helpful,
		"isMarkedHelpful": marked,
	})
}

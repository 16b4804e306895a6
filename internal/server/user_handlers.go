package server

import (
	"recipebox/internal/models"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetUserByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		FullName    *string             `json:"fullName"`
		Bio         *string             `json:"bio"`
		Location    *string             `json:"location"`
		Avatar      *string             `json:"avatar"`
		SocialLinks *models.SocialLinks `json:"socialLinks"`
	}
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:      currentUserID(c),
		FullName:    req.FullName,
		Bio:         req.Bio,
		Location:    req.Location,
		Avatar:      req.Avatar,
		SocialLinks: req.SocialLinks,
	})
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetPublicProfile(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(user)
}

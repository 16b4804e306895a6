package server

import (
	"errors"

	"recipebox/internal/models"
	"recipebox/internal/service"

	"github.com/gofiber/fiber/v2"
)

// SendContact handles POST /api/contact
func (s *Server) SendContact(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return contactError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := s.contactService.Send(c.UserContext(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		status := models.StatusFor(err)
		message := service.ContactFailedMessage
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		return contactError(c, status, message)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": result.Message,
	})
}

// GetContactInfo handles GET /api/contact/info
func (s *Server) GetContactInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    s.contactService.Info(),
	})
}

func contactError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

package server

import (
	"collabhub/internal/models"
	"collabhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateMyProfile handles PUT /api/users/me.
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req service.UpdateProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.UpdateProfile(c.Context(), currentUser(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile updated successfully!",
		"user":    user,
	})
}

// GetMyCollabs handles GET /api/users/me/collabs for the account dashboard.
func (s *Server) GetMyCollabs(c *fiber.Ctx) error {
	collabs, err := s.collabService.ListByAuthor(c.Context(), currentUser(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"collabs": collabs})
}

// GetMyBookmarks handles GET /api/users/me/bookmarks.
func (s *Server) GetMyBookmarks(c *fiber.Ctx) error {
	collabs, err := s.collabService.ListBookmarks(c.Context(), currentUser(c).ID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"collabs": collabs})
}

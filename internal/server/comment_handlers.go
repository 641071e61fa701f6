package server

import (
	"collabhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/collabs/:id/comments.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.collabService.AddComment(c.Context(), currentUser(c), c.Params("id"), req.Content)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added successfully.",
		"comment": comment,
	})
}

// GetComments handles GET /api/collabs/:id/comments, newest first.
func (s *Server) GetComments(c *fiber.Ctx) error {
	comments, err := s.collabService.Comments(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

package server

import (
	"collabhub/internal/models"
	"collabhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCollab handles POST /api/collabs.
func (s *Server) CreateCollab(c *fiber.Ctx) error {
	var req service.CreateCollabInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collab, err := s.collabService.Create(c.Context(), currentUser(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Collaboration created!",
		"collab":  collab,
	})
}

// GetCollabs handles GET /api/collabs.
func (s *Server) GetCollabs(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	collabs, err := s.collabService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"collabs": collabs})
}

// GetFeaturedCollabs handles GET /api/collabs/featured.
func (s *Server) GetFeaturedCollabs(c *fiber.Ctx) error {
	collabs, err := s.collabService.Featured(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"collabs": collabs})
}

// GetCollabBySlug handles GET /api/collabs/:slug.
func (s *Server) GetCollabBySlug(c *fiber.Ctx) error {
	collab, err := s.collabService.GetBySlug(c.Context(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"collab": collab})
}

// AddCollabView handles POST /api/collabs/:id/view. De-duplication per viewer
// stays with the client.
func (s *Server) AddCollabView(c *fiber.Ctx) error {
	if err := s.collabService.AddView(c.Context(), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateCollab handles PUT /api/collabs/:id.
func (s *Server) UpdateCollab(c *fiber.Ctx) error {
	var req service.UpdateCollabInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	collab, err := s.collabService.Update(c.Context(), currentUser(c), c.Params("id"), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Collaboration updated successfully.",
		"collab":  collab,
	})
}

// DeleteCollab handles DELETE /api/collabs/:id.
func (s *Server) DeleteCollab(c *fiber.Ctx) error {
	if err := s.collabService.Delete(c.Context(), currentUser(c), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Collaboration deleted successfully."})
}

// UpvoteCollab handles POST /api/collabs/:id/upvote. One vote per user; a
// repeat vote reports applied=false.
func (s *Server) UpvoteCollab(c *fiber.Ctx) error {
	applied, err := s.collabService.Upvote(c.Context(), currentUser(c), c.Params("id"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"applied": applied})
}

// BookmarkCollab handles POST /api/collabs/:id/bookmark.
func (s *Server) BookmarkCollab(c *fiber.Ctx) error {
	if err := s.collabService.Bookmark(c.Context(), currentUser(c), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnbookmarkCollab handles DELETE /api/collabs/:id/bookmark.
func (s *Server) UnbookmarkCollab(c *fiber.Ctx) error {
	if err := s.collabService.Unbookmark(c.Context(), currentUser(c), c.Params("id")); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// searchResult narrows the embedded author to the public profile fields the
// results list renders.
type searchResult struct {
	*models.Collab
	Author *models.PublicProfile `json:"author,omitempty"`
}

func searchResults(collabs []*models.Collab) []searchResult {
	out := make([]searchResult, 0, len(collabs))
	for _, collab := range collabs {
		result := searchResult{Collab: collab}
		if collab.Author != nil {
			profile := collab.Author.Public()
			result.Author = &profile
		}
		out = append(out, result)
	}
	return out
}

// SearchCollabs handles GET /api/collabs/search?query=&offset=. An empty
// query or an empty result set is served with the recent-collabs fallback; a
// store failure is a 500, distinct from "no matches".
func (s *Server) SearchCollabs(c *fiber.Ctx) error {
	query := c.Query("query")
	offset := c.QueryInt("offset", 0)

	var results []*models.Collab
	if query != "" {
		var err error
		results, err = s.collabService.Search(c.Context(), query, offset)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
	}

	if len(results) > 0 {
		return c.JSON(fiber.Map{"results": searchResults(results)})
	}

	recent, err := s.collabService.Recent(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{
		"results": []searchResult{},
		"recent":  searchResults(recent),
	})
}

// GetLeaderboard handles GET /api/collabs/leaderboard.
func (s *Server) GetLeaderboard(c *fiber.Ctx) error {
	entries, err := s.leaderboardService.Leaderboard(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"leaderboard": entries})
}

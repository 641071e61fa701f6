package server

import (
	"collabhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired returns a middleware that resolves the session cookie to a
// user and rejects the request otherwise. An absent cookie is rejected
// without a store lookup. An expired session is cleaned up by the session
// service and the stale cookie is cleared.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessionCookieName)
		if token == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication required."))
		}

		user, err := s.authService.ValidateSession(c.Context(), token)
		if err != nil {
			return models.RespondWithAppError(c, err)
		}
		if user == nil {
			s.clearSessionCookie(c)
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Session expired. Please sign in again."))
		}

		c.Locals("userID", user.ID)
		c.Locals("currentUser", user)
		return c.Next()
	}
}

// OptionalAuth resolves the session cookie when present but lets anonymous
// requests through.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(sessionCookieName)
		if token == "" {
			return c.Next()
		}
		user, err := s.authService.ValidateSession(c.Context(), token)
		if err == nil && user != nil {
			c.Locals("userID", user.ID)
			c.Locals("currentUser", user)
		}
		return c.Next()
	}
}

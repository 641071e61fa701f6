package server

import (
	"collabhub/internal/models"
	"collabhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup. The new account is not logged in;
// the client signs in afterwards.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.authService.Signup(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User created successfully. Please sign in.",
		"user":    user,
	})
}

// Login handles POST /api/auth/login. On success the session token is set as
// an HttpOnly cookie expiring with the session.
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, session, err := s.authService.Login(c.Context(), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	s.setSessionCookie(c, session.Token, session.ExpiresAt)

	return c.JSON(fiber.Map{
		"message": "Login successful.",
		"user":    user,
	})
}

// Logout handles POST /api/auth/logout. Destroying an already-absent session
// is not an error; the cookie is cleared either way.
func (s *Server) Logout(c *fiber.Ctx) error {
	token := c.Cookies(sessionCookieName)
	if token == "" {
		return c.JSON(fiber.Map{"message": "No active session."})
	}

	if err := s.authService.DestroySession(c.Context(), token); err != nil {
		return models.RespondWithAppError(c, err)
	}
	s.clearSessionCookie(c)

	return c.JSON(fiber.Map{"message": "Logout successful."})
}

// Me handles GET /api/auth/me.
func (s *Server) Me(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"user": currentUser(c)})
}

package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmadchreiff/eigen-journal/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the administrative identity and returns a bearer token.
// Every failure mode answers with the same body, so responses never reveal
// whether the identity or the password was wrong.
func Login(authn *auth.Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
		}

		token, err := authn.Login(req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid credentials"})
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}

		return c.JSON(fiber.Map{"token": token})
	}
}

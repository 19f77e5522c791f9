package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ahmadchreiff/eigen-journal/internal/auth"
)

const (
	// IdentityLocalKey stores the verified bearer identity in context locals.
	IdentityLocalKey = "auth_identity"
	// RoleLocalKey stores the verified role claim in context locals.
	RoleLocalKey = "auth_role"
)

// RequireRole gates a route behind a verified bearer token carrying the given
// role claim. A missing, malformed, expired or tampered token yields 401; a
// valid token with the wrong role yields 403. On success the identity and
// role are attached to the request context for downstream handlers.
func RequireRole(tm *auth.TokenManager, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "malformed authorization header")
		}

		claims, err := tm.Parse(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		if claims.Role != role {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}

		c.Locals(IdentityLocalKey, claims.Subject)
		c.Locals(RoleLocalKey, claims.Role)

		return c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/pointtally/internal/auth"
	"github.com/yourorg/pointtally/internal/models"
)

// RequireAuth verifies the bearer token and stashes the caller's account
// id in c.Locals("accountID"). A missing token is 401; a token that fails
// verification (bad signature, expired) is 403.
func RequireAuth(issuer *auth.TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "no token provided"})
		}

		token := header
		if strings.HasPrefix(strings.ToLower(header), "bearer ") {
			token = strings.TrimSpace(header[len("bearer "):])
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "no token provided"})
		}

		accountID, err := issuer.Verify(token)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{Error: "invalid token"})
		}

		c.Locals("accountID", accountID)
		return c.Next()
	}
}

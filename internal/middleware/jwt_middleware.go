package middleware

import (
	"strings"

	"amethyst/internal/services"
	"amethyst/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserIDKey is the Fiber locals key holding the authenticated user id.
const UserIDKey = "userId"

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. It returns "" when the header is missing or malformed.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired is a Fiber middleware to check for a valid JWT token.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return response.Error(c, "No token provided", fiber.StatusUnauthorized)
		}

		userID, err := authService.ValidateToken(token)
		if err != nil {
			logrus.WithError(err).WithField("path", c.Path()).Debug("JWT validation failed")
			return response.Error(c, "Invalid or expired token", fiber.StatusUnauthorized)
		}

		// Store the user id in Fiber context for subsequent handlers
		c.Locals(UserIDKey, userID)

		return c.Next()
	}
}

// CurrentUserID returns the id stored by AuthRequired.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(UserIDKey).(uint)
	return id, ok
}

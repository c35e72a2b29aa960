package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/visonai/visonai-gateway/internal/web/session"
)

// LocalCurrentUser is the fiber locals key holding the *session.Data of a logged in user.
const LocalCurrentUser = "CurrentUser"

// RequireCapability lets requests pass when the logged in user holds capability.
// It runs after the login middleware has put the session into locals.
func RequireCapability(capability string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(LocalCurrentUser).(*session.Data)
		if !ok || user == nil {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if !Can(user.Roles, capability) {
			log.Warn().Uint64("user_id", user.UserID).Str("capability", capability).
				Msg("user lacks required capability")

			return c.Status(fiber.StatusForbidden).
				SendString("Forbidden: You don't have permission to access this resource")
		}

		return c.Next()
	}
}

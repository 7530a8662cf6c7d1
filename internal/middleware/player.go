package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// LocalPlayerID is the fiber.Ctx locals key holding the caller's player id.
const LocalPlayerID = "playerID"

// EnsurePlayerID reads the caller's identity from the X-Player-ID header or
// the playerId query parameter and rejects anonymous requests.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if PlayerID(c) != "" {
			return c.Next()
		}

		playerID := c.Get("X-Player-ID")
		if playerID == "" {
			playerID = c.Query("playerId")
		}
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		c.Locals(LocalPlayerID, playerID)
		return c.Next()
	}
}

// PlayerID returns the id stored by EnsurePlayerID, or "".
func PlayerID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalPlayerID).(string)
	return id
}

package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// UserIDKey is the locals key holding the caller's user id.
const UserIDKey = "user_id"

// Identity resolves the caller's identity from the X-User-ID header.
// The header must carry a UUID; requests without one get a fresh
// anonymous id for the duration of the request.
func Identity() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := c.Get("X-User-ID")
		if raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "X-User-ID must be a valid UUID",
				})
			}
			c.Locals(UserIDKey, id.String())
			return c.Next()
		}

		c.Locals(UserIDKey, uuid.NewString())
		return c.Next()
	}
}

// UserID reads the resolved user id from the request context.
func UserID(c fiber.Ctx) string {
	id, _ := c.Locals(UserIDKey).(string)
	return id
}

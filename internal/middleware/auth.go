package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nvmanh/techshop-catalog-service/internal/auth"
)

// UserContext copies the identity headers set by the upstream gateway into
// the request context. Missing headers leave the caller anonymous.
func UserContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := auth.UserContext{
			UserID: c.Get("X-User-Id"),
			Role:   c.Get("X-User-Role"),
		}
		c.SetUserContext(auth.WithUser(c.UserContext(), user))
		return c.Next()
	}
}

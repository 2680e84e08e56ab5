package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/talentlink-app/talentlink_be/internal/utils"
)

// RequireRoles gates a route to callers holding at least one allowed role.
func RequireRoles(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*utils.AccessClaims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}

		for _, role := range allowed {
			if claims.HasRole(role) {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "forbidden: insufficient role")
	}
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/talentlink-app/talentlink_be/internal/utils"
)

// AttachJWTLocals unpacks the claim set into typed locals so handlers never
// touch raw JWT types.
func AttachJWTLocals() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals("claims").(*utils.AccessClaims)
		if !ok || claims == nil {
			return fiber.ErrUnauthorized
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("userId", userID)
		c.Locals("roles", claims.Roles)
		if claims.ExpertID != "" {
			if id, err := uuid.Parse(claims.ExpertID); err == nil {
				c.Locals("expertId", id)
			}
		}
		if claims.RecruiterID != "" {
			if id, err := uuid.Parse(claims.RecruiterID); err == nil {
				c.Locals("recruiterId", id)
			}
		}

		return c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/talentlink-app/talentlink_be/internal/utils"
)

const TokenCookie = "tl_token"

// Authenticate accepts the access token from the auth cookie or a bearer
// header and stores the parsed claims in locals.
func Authenticate(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies(TokenCookie)
		if tokenStr == "" {
			auth := c.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				tokenStr = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		claims, err := utils.ParseAccessToken(secret, tokenStr)
		if err != nil {
			return fiber.ErrUnauthorized
		}

		c.Locals("claims", claims)
		return c.Next()
	}
}

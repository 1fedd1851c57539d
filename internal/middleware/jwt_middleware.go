package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenLocal is the fiber.Ctx locals key holding the caller's bearer token.
const TokenLocal = "token"

// BearerToken copies the token from the Authorization header into the
// request locals. A missing header is not rejected here: resolvers decide
// which operations need a login.
func BearerToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(TokenLocal, ParseBearer(c.Get(fiber.HeaderAuthorization)))
		return c.Next()
	}
}

// Token returns the token stored by BearerToken, or "".
func Token(c *fiber.Ctx) string {
	token, _ := c.Locals(TokenLocal).(string)
	return token
}

// ParseBearer strips an optional "Bearer " prefix from an Authorization
// header value. A bare token is accepted as is.
func ParseBearer(header string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(header), "Bearer "))
}

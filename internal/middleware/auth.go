package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const ownerKey = "owner_id"

// OwnerIdentity reads an optional bearer token and stores its subject as the
// caller's owner id. Requests without an Authorization header pass through
// anonymously; a header that does not verify is rejected with 401.
// With an empty secret the middleware is a no-op.
func OwnerIdentity(secret string) fiber.Handler {
	key := []byte(secret)
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS512"}))

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if secret == "" || header == "" {
			return c.Next()
		}

		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid authorization header")
		}

		token, err := parser.Parse(strings.TrimSpace(raw), func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		sub, err := token.Claims.GetSubject()
		if err != nil || sub == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Token has no subject")
		}
		c.Locals(ownerKey, sub)
		return c.Next()
	}
}

// OwnerID returns the owner id set by OwnerIdentity, or "" for anonymous requests.
func OwnerID(c *fiber.Ctx) string {
	id, _ := c.Locals(ownerKey).(string)
	return id
}

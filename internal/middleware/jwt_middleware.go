package middleware

import (
	"log"
	"strings"

	"marketplace/internal/models"

	"github.com/gofiber/fiber/v2"
)

const principalKey = "principal"

// TokenValidator turns a session token into the principal it was issued to.
type TokenValidator interface {
	ValidateToken(token string) (models.Principal, error)
}

// AuthRequired is a Fiber middleware to check for a valid session token, taken from
// the Authorization header or, failing that, from the session cookie.
func AuthRequired(validator TokenValidator, cookieName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := ""
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if !(len(parts) == 2 && parts[0] == "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"message": "Authorization header format must be 'Bearer <token>'",
				})
			}
			tokenString = parts[1]
		} else {
			tokenString = c.Cookies(cookieName)
		}
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authentication required",
			})
		}

		principal, err := validator.ValidateToken(tokenString)
		if err != nil {
			log.Printf("[auth] token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
				"error":   err.Error(),
			})
		}

		// Store the principal in Fiber context for subsequent handlers
		c.Locals(principalKey, principal)
		return c.Next()
	}
}

// RequireRole rejects principals of any other role. It must run after AuthRequired.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok || p.Role != role {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Unauthorized",
			})
		}
		return c.Next()
	}
}

// PrincipalFrom returns the principal stored by AuthRequired.
func PrincipalFrom(c *fiber.Ctx) (models.Principal, bool) {
	p, ok := c.Locals(principalKey).(models.Principal)
	return p, ok
}

package middleware

import (
	"log"
	"strings"

	"github.com/matyasmehes/szakdolgozat/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired for downstream handlers.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// AuthRequired is a Fiber middleware that checks for a valid bearer token.
// On success the authenticated user's ID and email are stored in the request
// locals.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		userID, err := claims.UserID()
		if err != nil {
			log.Printf("Token subject rejected: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid user ID in the token",
			})
		}

		c.Locals(LocalUserID, userID)
		c.Locals(LocalEmail, claims.Email)

		return c.Next()
	}
}

// UserID extracts the authenticated user's ID stored by AuthRequired.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

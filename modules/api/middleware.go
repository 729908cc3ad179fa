package api

import (
	"strings"

	"github.com/PC-931/task-manager/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// UserContextKey is the key under which verified claims are stored in the
// Fiber context.
const UserContextKey = "user"

// AuthMiddleware verifies the request's token and stores the resolved
// identity in the context. It accepts "Authorization: Bearer <token>" and,
// for compatibility with the original web client, the "x-auth-token"
// header. Requests without a valid token are rejected before any task
// logic runs.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "No token, authorization denied",
			})
		}

		claims, err := authPort.VerifyToken(c.UserContext(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid or expired token",
			})
		}

		c.Locals(UserContextKey, claims)
		return c.Next()
	}
}

// extractToken pulls the credential from the Authorization or x-auth-token
// header. An Authorization header without the Bearer scheme is treated as
// missing.
func extractToken(c *fiber.Ctx) string {
	if header := c.Get("Authorization"); header != "" {
		if strings.HasPrefix(header, "Bearer ") {
			return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}
		return ""
	}
	return c.Get("x-auth-token")
}

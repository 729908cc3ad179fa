package api

import (
	"log"
	"strings"

	domain "github.com/PC-931/task-manager/domain/user"
	"github.com/PC-931/task-manager/modules/auth"
	"github.com/PC-931/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
)

// Handlers contains the HTTP handlers for the API.
type Handlers struct {
	authPort auth.AuthPort
	taskPort task.TaskPort
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(authPort auth.AuthPort, taskPort task.TaskPort) *Handlers {
	return &Handlers{
		authPort: authPort,
		taskPort: taskPort,
	}
}

// Register handles account registration.
func (h *Handlers) Register(c *fiber.Ctx) error {
	var body RegisterBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Username == "" || body.Email == "" || body.Password == "" {
		return badRequest(c, "Username, email and password are required")
	}

	resp, err := h.authPort.Register(c.UserContext(), auth.RegisterRequest{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(UserBody{
		ID:        resp.ID,
		Username:  resp.Username,
		Email:     resp.Email,
		CreatedAt: resp.CreatedAt,
	})
}

// Login handles account login.
func (h *Handlers) Login(c *fiber.Ctx) error {
	var body LoginBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	resp, err := h.authPort.Login(c.UserContext(), auth.LoginRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		return h.handleAuthError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(TokenBody{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Refresh handles token refresh.
func (h *Handlers) Refresh(c *fiber.Ctx) error {
	var body RefreshBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if body.RefreshToken == "" {
		return badRequest(c, "Refresh token is required")
	}

	resp, err := h.authPort.Refresh(c.UserContext(), body.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid or expired refresh token",
		})
	}

	return c.Status(fiber.StatusOK).JSON(TokenBody{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresIn:    resp.ExpiresIn,
		TokenType:    resp.TokenType,
	})
}

// Me returns the authenticated account's profile.
func (h *Handlers) Me(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	user, err := h.authPort.GetUser(c.UserContext(), claims.UserID)
	if err != nil {
		log.Printf("[api] failed to load profile for %s: %v", claims.UserID, err)
		return serverError(c)
	}

	return c.Status(fiber.StatusOK).JSON(UserBody{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// handleAuthError maps auth failures to HTTP responses by message, since
// errors cross the service container as text.
func (h *Handlers) handleAuthError(c *fiber.Ctx, err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "invalid email or password"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "Invalid email or password",
		})
	case strings.Contains(msg, "already exists"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "User with this email already exists",
		})
	case strings.Contains(msg, "already taken"):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{
			Error:   "conflict",
			Message: "Username is already taken",
		})
	case strings.Contains(msg, "invalid email format"):
		return badRequest(c, "Invalid email format")
	case strings.Contains(msg, "username is required"):
		return badRequest(c, "Username is required")
	case strings.Contains(msg, "password must be at least"):
		return badRequest(c, "Password must be at least 8 characters")
	case strings.Contains(msg, "password must be at most"):
		return badRequest(c, "Password must be at most 72 characters")
	default:
		log.Printf("[api] auth error: %v", err)
		return serverError(c)
	}
}

// claimsFromCtx returns the verified identity stored by AuthMiddleware.
func claimsFromCtx(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: message,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

func serverError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "Server error",
	})
}

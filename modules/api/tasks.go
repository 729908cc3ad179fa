package api

import (
	"log"
	"strings"

	"github.com/PC-931/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
)

// ListTasks returns all of the caller's tasks, newest-created first.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskPort.List(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Tasks)
}

// CreateTask creates a task owned by the caller.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	var body CreateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.taskPort.Create(c.UserContext(), task.CreateTaskRequest{
		OwnerID:     claims.UserID,
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Categories:  body.Categories,
		DueDate:     body.DueDate,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// GetTask returns a single task if the caller owns it.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskPort.Get(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// UpdateTask applies a partial update to an owned task.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	var body UpdateTaskBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.taskPort.Update(c.UserContext(), task.UpdateTaskRequest{
		OwnerID:     claims.UserID,
		ID:          c.Params("id"),
		Title:       body.Title,
		Description: body.Description,
		Priority:    body.Priority,
		Categories:  body.Categories,
		DueDate:     body.DueDate,
		Status:      body.Status,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// DeleteTask removes an owned task permanently.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	if _, err := h.taskPort.Delete(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(MessageResponse{Message: "Task removed"})
}

// ToggleTaskStatus flips an owned task between pending and completed.
func (h *Handlers) ToggleTaskStatus(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskPort.ToggleStatus(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// FilterTasks returns the caller's tasks matching the query predicates.
// All given predicates are ANDed; none given is equivalent to ListTasks.
func (h *Handlers) FilterTasks(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskPort.Filter(c.UserContext(), task.FilterTasksRequest{
		OwnerID:  claims.UserID,
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp.Tasks)
}

// TaskStats returns aggregate counts over the caller's tasks.
func (h *Handlers) TaskStats(c *fiber.Ctx) error {
	claims, ok := claimsFromCtx(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskPort.Stats(c.UserContext(), claims.UserID)
	if err != nil {
		return h.handleTaskError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

// handleTaskError maps task failures to HTTP responses by message. A
// missing id and a foreign id map to distinct statuses; store faults are
// logged with detail and returned as a generic failure.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "task not found"):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case strings.Contains(msg, "not authorized"):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: "User not authorized",
		})
	case strings.Contains(msg, "title is required"):
		return badRequest(c, "Title is required")
	case strings.Contains(msg, "invalid priority"):
		return badRequest(c, "Priority must be one of: low, medium, high")
	case strings.Contains(msg, "invalid status"):
		return badRequest(c, "Status must be one of: pending, completed")
	default:
		log.Printf("[api] task error: %v", err)
		return serverError(c)
	}
}

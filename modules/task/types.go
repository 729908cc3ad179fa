package task

import (
	"time"

	domain "github.com/PC-931/task-manager/domain/task"
)

// TaskResponse represents a task in responses. The JSON shape matches the
// wire format: the owner is keyed as "user".
type TaskResponse struct {
	ID          string     `json:"id"`
	User        string     `json:"user"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Categories  []string   `json:"categories"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ListTasksRequest is the request for listing an owner's tasks.
type ListTasksRequest struct {
	OwnerID string `json:"owner_id"`
}

// ListTasksResponse is the response containing an owner's tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Categories  []string   `json:"categories"`
	DueDate     *time.Time `json:"due_date"`
}

// GetTaskRequest is the request for getting a single task.
type GetTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// UpdateTaskRequest is the request for partially updating a task. Only the
// fields listed here are mutable; id and owner are fixed at creation.
type UpdateTaskRequest struct {
	OwnerID     string     `json:"owner_id"`
	ID          string     `json:"id"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Categories  *[]string  `json:"categories,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// DeleteTaskResponse is the confirmation after deleting a task.
type DeleteTaskResponse struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// ToggleStatusRequest is the request for flipping a task's status.
type ToggleStatusRequest struct {
	OwnerID string `json:"owner_id"`
	ID      string `json:"id"`
}

// FilterTasksRequest is the request for a filtered search. Absent fields
// mean the predicate is not applied.
type FilterTasksRequest struct {
	OwnerID  string `json:"owner_id"`
	Status   string `json:"status,omitempty"`
	Priority string `json:"priority,omitempty"`
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
}

// StatsRequest is the request for an owner's task statistics.
type StatsRequest struct {
	OwnerID string `json:"owner_id"`
}

// StatsResponse mirrors the reference stats shape. The priority breakdown
// covers pending tasks only.
type StatsResponse struct {
	Total     int64          `json:"total"`
	Completed int64          `json:"completed"`
	Pending   int64          `json:"pending"`
	Priority  PriorityCounts `json:"priority"`
}

// PriorityCounts holds per-priority counts in responses.
type PriorityCounts struct {
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		User:        t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		Categories:  t.Categories,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// toTaskResponses converts a slice of Task entities, never returning nil so
// an empty list serializes as [] rather than null.
func toTaskResponses(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

// toStatsResponse converts aggregate counts to the wire shape.
func toStatsResponse(s *domain.Stats) StatsResponse {
	return StatsResponse{
		Total:     s.Total,
		Completed: s.Completed,
		Pending:   s.Pending,
		Priority: PriorityCounts{
			High:   s.Priority.High,
			Medium: s.Priority.Medium,
			Low:    s.Priority.Low,
		},
	}
}

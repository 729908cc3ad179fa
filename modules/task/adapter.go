package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// TaskPort defines the interface other modules use to access task
// operations.
type TaskPort interface {
	List(ctx context.Context, ownerID string) (ListTasksResponse, error)
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	Get(ctx context.Context, ownerID, taskID string) (TaskResponse, error)
	Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error)
	Delete(ctx context.Context, ownerID, taskID string) (DeleteTaskResponse, error)
	ToggleStatus(ctx context.Context, ownerID, taskID string) (TaskResponse, error)
	Filter(ctx context.Context, req FilterTasksRequest) (ListTasksResponse, error)
	Stats(ctx context.Context, ownerID string) (StatsResponse, error)
}

// TaskAdapter implements TaskPort over the module's service container.
type TaskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new TaskAdapter.
func NewTaskAdapter(container mono.ServiceContainer) *TaskAdapter {
	return &TaskAdapter{
		container: container,
	}
}

// call invokes a task service and decodes the reply into resp.
func (a *TaskAdapter) call(ctx context.Context, service string, req, resp any) error {
	if err := helper.CallRequestReplyService[any, any](
		ctx,
		a.container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		&resp,
	); err != nil {
		return fmt.Errorf("%s request failed: %w", service, err)
	}
	return nil
}

// List returns the owner's tasks, newest-created first.
func (a *TaskAdapter) List(ctx context.Context, ownerID string) (ListTasksResponse, error) {
	req := ListTasksRequest{OwnerID: ownerID}
	var resp ListTasksResponse
	err := a.call(ctx, "list", &req, &resp)
	return resp, err
}

// Create stores a new task owned by the requester.
func (a *TaskAdapter) Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := a.call(ctx, "create", &req, &resp)
	return resp, err
}

// Get returns a single owned task.
func (a *TaskAdapter) Get(ctx context.Context, ownerID, taskID string) (TaskResponse, error) {
	req := GetTaskRequest{OwnerID: ownerID, ID: taskID}
	var resp TaskResponse
	err := a.call(ctx, "get", &req, &resp)
	return resp, err
}

// Update applies a partial update to an owned task.
func (a *TaskAdapter) Update(ctx context.Context, req UpdateTaskRequest) (TaskResponse, error) {
	var resp TaskResponse
	err := a.call(ctx, "update", &req, &resp)
	return resp, err
}

// Delete removes an owned task permanently.
func (a *TaskAdapter) Delete(ctx context.Context, ownerID, taskID string) (DeleteTaskResponse, error) {
	req := DeleteTaskRequest{OwnerID: ownerID, ID: taskID}
	var resp DeleteTaskResponse
	err := a.call(ctx, "delete", &req, &resp)
	return resp, err
}

// ToggleStatus flips an owned task between pending and completed.
func (a *TaskAdapter) ToggleStatus(ctx context.Context, ownerID, taskID string) (TaskResponse, error) {
	req := ToggleStatusRequest{OwnerID: ownerID, ID: taskID}
	var resp TaskResponse
	err := a.call(ctx, "toggle-status", &req, &resp)
	return resp, err
}

// Filter returns the owner's tasks matching all given predicates.
func (a *TaskAdapter) Filter(ctx context.Context, req FilterTasksRequest) (ListTasksResponse, error) {
	var resp ListTasksResponse
	err := a.call(ctx, "filter", &req, &resp)
	return resp, err
}

// Stats returns aggregate counts for the owner's tasks.
func (a *TaskAdapter) Stats(ctx context.Context, ownerID string) (StatsResponse, error) {
	req := StatsRequest{OwnerID: ownerID}
	var resp StatsResponse
	err := a.call(ctx, "stats", &req, &resp)
	return resp, err
}

package task

import (
	"context"
	"fmt"

	domain "github.com/PC-931/task-manager/domain/task"
	"github.com/go-monolith/mono"
)

// listTasks handles the task.list service request.
func (m *TaskModule) listTasks(ctx context.Context, req ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.OwnerID == "" {
		return ListTasksResponse{}, fmt.Errorf("owner id is required")
	}

	tasks, err := m.service.List(ctx, req.OwnerID)
	if err != nil {
		return ListTasksResponse{}, err
	}

	return ListTasksResponse{
		Tasks: toTaskResponses(tasks),
		Total: len(tasks),
	}, nil
}

// createTask handles the task.create service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" {
		return TaskResponse{}, fmt.Errorf("owner id is required")
	}

	t, err := m.service.Create(ctx, req.OwnerID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Categories:  req.Categories,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(t), nil
}

// getTask handles the task.get service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" || req.ID == "" {
		return TaskResponse{}, fmt.Errorf("owner id and task id are required")
	}

	t, err := m.service.Get(ctx, req.OwnerID, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(t), nil
}

// updateTask handles the task.update service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" || req.ID == "" {
		return TaskResponse{}, fmt.Errorf("owner id and task id are required")
	}

	t, err := m.service.Update(ctx, req.OwnerID, req.ID, UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Categories:  req.Categories,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(t), nil
}

// deleteTask handles the task.delete service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if req.OwnerID == "" || req.ID == "" {
		return DeleteTaskResponse{}, fmt.Errorf("owner id and task id are required")
	}

	if err := m.service.Delete(ctx, req.OwnerID, req.ID); err != nil {
		return DeleteTaskResponse{Deleted: false, ID: req.ID}, err
	}

	return DeleteTaskResponse{Deleted: true, ID: req.ID}, nil
}

// toggleStatus handles the task.toggle-status service request.
func (m *TaskModule) toggleStatus(ctx context.Context, req ToggleStatusRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.OwnerID == "" || req.ID == "" {
		return TaskResponse{}, fmt.Errorf("owner id and task id are required")
	}

	t, err := m.service.ToggleStatus(ctx, req.OwnerID, req.ID)
	if err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(t), nil
}

// filterTasks handles the task.filter service request.
func (m *TaskModule) filterTasks(ctx context.Context, req FilterTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if req.OwnerID == "" {
		return ListTasksResponse{}, fmt.Errorf("owner id is required")
	}

	tasks, err := m.service.Filter(ctx, req.OwnerID, domain.Filter{
		Status:   req.Status,
		Priority: req.Priority,
		Category: req.Category,
		Search:   req.Search,
	})
	if err != nil {
		return ListTasksResponse{}, err
	}

	return ListTasksResponse{
		Tasks: toTaskResponses(tasks),
		Total: len(tasks),
	}, nil
}

// taskStats handles the task.stats service request.
func (m *TaskModule) taskStats(ctx context.Context, req StatsRequest, _ *mono.Msg) (StatsResponse, error) {
	if req.OwnerID == "" {
		return StatsResponse{}, fmt.Errorf("owner id is required")
	}

	stats, err := m.service.Stats(ctx, req.OwnerID)
	if err != nil {
		return StatsResponse{}, err
	}

	return toStatsResponse(stats), nil
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PC-931/task-manager/modules/task"
	"github.com/gofiber/fiber/v2"
)

// mockTaskPort implements task.TaskPort for testing.
type mockTaskPort struct {
	listFunc   func(ctx context.Context, ownerID string) (task.ListTasksResponse, error)
	createFunc func(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error)
	getFunc    func(ctx context.Context, ownerID, taskID string) (task.TaskResponse, error)
	updateFunc func(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error)
	deleteFunc func(ctx context.Context, ownerID, taskID string) (task.DeleteTaskResponse, error)
	toggleFunc func(ctx context.Context, ownerID, taskID string) (task.TaskResponse, error)
	filterFunc func(ctx context.Context, req task.FilterTasksRequest) (task.ListTasksResponse, error)
	statsFunc  func(ctx context.Context, ownerID string) (task.StatsResponse, error)
}

func (m *mockTaskPort) List(ctx context.Context, ownerID string) (task.ListTasksResponse, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, ownerID)
	}
	return task.ListTasksResponse{}, errors.New("not implemented")
}

func (m *mockTaskPort) Create(ctx context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return task.TaskResponse{}, errors.New("not implemented")
}

func (m *mockTaskPort) Get(ctx context.Context, ownerID, taskID string) (task.TaskResponse, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, ownerID, taskID)
	}
	return task.TaskResponse{}, errors.New("not implemented")
}

func (m *mockTaskPort) Update(ctx context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, req)
	}
	return task.TaskResponse{}, errors.New("not implemented")
}

func (m *mockTaskPort) Delete(ctx context.Context, ownerID, taskID string) (task.DeleteTaskResponse, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, ownerID, taskID)
	}
	return task.DeleteTaskResponse{}, errors.New("not implemented")
}

func (m *mockTaskPort) ToggleStatus(ctx context.Context, ownerID, taskID string) (task.TaskResponse, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, ownerID, taskID)
	}
	return task.TaskResponse{}, errors.New("not implemented")
}

func (m *mockTaskPort) Filter(ctx context.Context, req task.FilterTasksRequest) (task.ListTasksResponse, error) {
	if m.filterFunc != nil {
		return m.filterFunc(ctx, req)
	}
	return task.ListTasksResponse{}, errors.New("not implemented")
}

func (m *mockTaskPort) Stats(ctx context.Context, ownerID string) (task.StatsResponse, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, ownerID)
	}
	return task.StatsResponse{}, errors.New("not implemented")
}

// newTaskTestApp wires the task routes the way the module does, with an
// auth mock resolving "good-token" to user-123.
func newTaskTestApp(port task.TaskPort) *fiber.App {
	app := fiber.New()
	h := NewHandlers(acceptToken("good-token"), port)

	tasks := app.Group("/api/tasks", AuthMiddleware(h.authPort))
	tasks.Get("/", h.ListTasks)
	tasks.Post("/", h.CreateTask)
	tasks.Get("/stats", h.TaskStats)
	tasks.Get("/filter/search", h.FilterTasks)
	tasks.Get("/:id", h.GetTask)
	tasks.Put("/:id", h.UpdateTask)
	tasks.Delete("/:id", h.DeleteTask)
	tasks.Put("/:id/status", h.ToggleTaskStatus)

	return app
}

func doAuthed(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer good-token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, string(data)
}

func sampleTask(id string) task.TaskResponse {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return task.TaskResponse{
		ID:          id,
		User:        "user-123",
		Title:       "Write monthly report",
		Description: "Cover Q2 numbers",
		Priority:    "high",
		Categories:  []string{"work"},
		Status:      "pending",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestListTasks(t *testing.T) {
	port := &mockTaskPort{
		listFunc: func(_ context.Context, ownerID string) (task.ListTasksResponse, error) {
			if ownerID != "user-123" {
				t.Errorf("ownerID = %q, want %q", ownerID, "user-123")
			}
			return task.ListTasksResponse{
				Tasks: []task.TaskResponse{sampleTask("t1"), sampleTask("t2")},
				Total: 2,
			}, nil
		},
	}

	resp, body := doAuthed(t, newTaskTestApp(port), http.MethodGet, "/api/tasks/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	// The list endpoint returns a bare array, not an envelope.
	var tasks []task.TaskResponse
	if err := json.Unmarshal([]byte(body), &tasks); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].User != "user-123" {
		t.Errorf("tasks[0].User = %q, want %q", tasks[0].User, "user-123")
	}
}

func TestListTasks_EmptyIsArray(t *testing.T) {
	port := &mockTaskPort{
		listFunc: func(_ context.Context, _ string) (task.ListTasksResponse, error) {
			return task.ListTasksResponse{Tasks: []task.TaskResponse{}}, nil
		},
	}

	resp, body := doAuthed(t, newTaskTestApp(port), http.MethodGet, "/api/tasks/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if strings.TrimSpace(body) != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestCreateTask(t *testing.T) {
	port := &mockTaskPort{
		createFunc: func(_ context.Context, req task.CreateTaskRequest) (task.TaskResponse, error) {
			if req.OwnerID != "user-123" {
				t.Errorf("OwnerID = %q, want %q", req.OwnerID, "user-123")
			}
			if req.Title != "Write monthly report" {
				t.Errorf("Title = %q", req.Title)
			}
			return sampleTask("t1"), nil
		},
	}

	body := `{"title":"Write monthly report","priority":"high","categories":["work"]}`
	resp, out := doAuthed(t, newTaskTestApp(port), http.MethodPost, "/api/tasks/", body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", resp.StatusCode, out)
	}
	if !strings.Contains(out, `"user":"user-123"`) {
		t.Errorf("body %q missing owner field", out)
	}
}

func TestCreateTask_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		portErr    error
		wantStatus int
		wantMsg    string
	}{
		{"missing title", errors.New("title is required"), http.StatusBadRequest, "Title is required"},
		{"bad priority", errors.New("invalid priority"), http.StatusBadRequest, "Priority must be one of"},
		{"store fault", errors.New("database is locked"), http.StatusInternalServerError, "Server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &mockTaskPort{
				createFunc: func(_ context.Context, _ task.CreateTaskRequest) (task.TaskResponse, error) {
					return task.TaskResponse{}, tt.portErr
				},
			}

			resp, body := doAuthed(t, newTaskTestApp(port), http.MethodPost, "/api/tasks/", `{"title":"x"}`)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(body, tt.wantMsg) {
				t.Errorf("body %q does not contain %q", body, tt.wantMsg)
			}
		})
	}
}

func TestGetTask_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		portErr    error
		wantStatus int
		wantMsg    string
	}{
		{"unknown id", errors.New("task not found"), http.StatusNotFound, "Task not found"},
		{"foreign id", errors.New("user not authorized"), http.StatusUnauthorized, "User not authorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port := &mockTaskPort{
				getFunc: func(_ context.Context, _, _ string) (task.TaskResponse, error) {
					return task.TaskResponse{}, tt.portErr
				},
			}

			resp, body := doAuthed(t, newTaskTestApp(port), http.MethodGet, "/api/tasks/t1", "")
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if !strings.Contains(body, tt.wantMsg) {
				t.Errorf("body %q does not contain %q", body, tt.wantMsg)
			}
		})
	}
}

func TestUpdateTask_PassesRouteID(t *testing.T) {
	port := &mockTaskPort{
		updateFunc: func(_ context.Context, req task.UpdateTaskRequest) (task.TaskResponse, error) {
			if req.ID != "t42" {
				t.Errorf("ID = %q, want %q", req.ID, "t42")
			}
			if req.Title == nil || *req.Title != "Renamed" {
				t.Errorf("Title = %v, want Renamed", req.Title)
			}
			if req.Description != nil {
				t.Errorf("Description should be nil when absent, got %v", *req.Description)
			}
			return sampleTask("t42"), nil
		},
	}

	resp, _ := doAuthed(t, newTaskTestApp(port), http.MethodPut, "/api/tasks/t42", `{"title":"Renamed"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestDeleteTask(t *testing.T) {
	port := &mockTaskPort{
		deleteFunc: func(_ context.Context, ownerID, taskID string) (task.DeleteTaskResponse, error) {
			if taskID != "t1" {
				t.Errorf("taskID = %q, want t1", taskID)
			}
			return task.DeleteTaskResponse{Deleted: true, ID: taskID}, nil
		},
	}

	resp, body := doAuthed(t, newTaskTestApp(port), http.MethodDelete, "/api/tasks/t1", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "Task removed") {
		t.Errorf("body %q missing removal confirmation", body)
	}
}

func TestToggleTaskStatus(t *testing.T) {
	port := &mockTaskPort{
		toggleFunc: func(_ context.Context, _, taskID string) (task.TaskResponse, error) {
			out := sampleTask(taskID)
			out.Status = "completed"
			return out, nil
		},
	}

	resp, body := doAuthed(t, newTaskTestApp(port), http.MethodPut, "/api/tasks/t1/status", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, `"status":"completed"`) {
		t.Errorf("body %q missing flipped status", body)
	}
}

func TestFilterTasks_ForwardsQuery(t *testing.T) {
	port := &mockTaskPort{
		filterFunc: func(_ context.Context, req task.FilterTasksRequest) (task.ListTasksResponse, error) {
			if req.Status != "pending" || req.Priority != "high" || req.Category != "work" || req.Search != "report" {
				t.Errorf("unexpected predicates: %+v", req)
			}
			return task.ListTasksResponse{Tasks: []task.TaskResponse{sampleTask("t1")}, Total: 1}, nil
		},
	}

	target := "/api/tasks/filter/search?status=pending&priority=high&category=work&search=report"
	resp, body := doAuthed(t, newTaskTestApp(port), http.MethodGet, target, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var tasks []task.TaskResponse
	if err := json.Unmarshal([]byte(body), &tasks); err != nil {
		t.Fatalf("response is not a JSON array: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("len(tasks) = %d, want 1", len(tasks))
	}
}

func TestTaskStats(t *testing.T) {
	port := &mockTaskPort{
		statsFunc: func(_ context.Context, _ string) (task.StatsResponse, error) {
			return task.StatsResponse{
				Total:     3,
				Completed: 1,
				Pending:   2,
				Priority:  task.PriorityCounts{High: 1, Low: 1},
			}, nil
		},
	}

	resp, body := doAuthed(t, newTaskTestApp(port), http.MethodGet, "/api/tasks/stats", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var stats task.StatsResponse
	if err := json.Unmarshal([]byte(body), &stats); err != nil {
		t.Fatalf("failed to decode stats: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 1 || stats.Pending != 2 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.Priority.High != 1 || stats.Priority.Medium != 0 || stats.Priority.Low != 1 {
		t.Errorf("priority breakdown = %+v", stats.Priority)
	}
}

func TestTaskRoutes_RequireAuth(t *testing.T) {
	app := newTaskTestApp(&mockTaskPort{})

	routes := []struct {
		method string
		target string
	}{
		{http.MethodGet, "/api/tasks/"},
		{http.MethodPost, "/api/tasks/"},
		{http.MethodGet, "/api/tasks/stats"},
		{http.MethodGet, "/api/tasks/filter/search"},
		{http.MethodGet, "/api/tasks/t1"},
		{http.MethodPut, "/api/tasks/t1"},
		{http.MethodDelete, "/api/tasks/t1"},
		{http.MethodPut, "/api/tasks/t1/status"},
	}

	for _, r := range routes {
		req := httptest.NewRequest(r.method, r.target, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test(%s %s) error = %v", r.method, r.target, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", r.method, r.target, resp.StatusCode)
		}
	}
}

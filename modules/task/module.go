package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TaskModule provides owner-scoped task services via GORM + SQLite.
type TaskModule struct {
	db      *gorm.DB
	repo    *Repository
	service *Service
	cache   Cache
	dbPath  string
}

// Compile-time interface checks.
var _ mono.Module = (*TaskModule)(nil)
var _ mono.ServiceProviderModule = (*TaskModule)(nil)
var _ mono.HealthCheckableModule = (*TaskModule)(nil)

// NewModule creates a new TaskModule. An empty dbPath falls back to the
// TASKS_DB_PATH environment variable, then to a local file.
func NewModule(dbPath string) *TaskModule {
	if dbPath == "" {
		dbPath = os.Getenv("TASKS_DB_PATH")
	}
	if dbPath == "" {
		dbPath = "tasks.db"
	}
	return &TaskModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *TaskModule) Name() string {
	return "task"
}

// SetCache attaches the cache to the task service. Safe to call before or
// after Start.
func (m *TaskModule) SetCache(c Cache) {
	m.cache = c
	if m.service != nil {
		m.service.SetCache(c)
	}
}

// GetService returns the task service.
func (m *TaskModule) GetService() *Service {
	return m.service
}

// Start opens the database, runs migrations and builds the service.
func (m *TaskModule) Start(_ context.Context) error {
	log.Printf("[task] Connecting to SQLite database: %s", m.dbPath)

	logLevel := logger.Silent
	if os.Getenv("DB_DEBUG") == "true" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	m.repo = NewRepository(db)
	if err := m.repo.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.service = NewService(m.repo, m.cache)

	log.Println("[task] Module started")
	return nil
}

// Stop closes the database connection.
func (m *TaskModule) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("[task] Module stopped")
	return nil
}

// Health performs a database health check.
func (m *TaskModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver": "sqlite",
			"path":   m.dbPath,
			"cached": m.cache != nil,
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *TaskModule) RegisterServices(container mono.ServiceContainer) error {
	services := []struct {
		name     string
		register func() error
	}{
		{"list", func() error {
			return helper.RegisterTypedRequestReplyService(container, "list", json.Unmarshal, json.Marshal, m.listTasks)
		}},
		{"create", func() error {
			return helper.RegisterTypedRequestReplyService(container, "create", json.Unmarshal, json.Marshal, m.createTask)
		}},
		{"get", func() error {
			return helper.RegisterTypedRequestReplyService(container, "get", json.Unmarshal, json.Marshal, m.getTask)
		}},
		{"update", func() error {
			return helper.RegisterTypedRequestReplyService(container, "update", json.Unmarshal, json.Marshal, m.updateTask)
		}},
		{"delete", func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete", json.Unmarshal, json.Marshal, m.deleteTask)
		}},
		{"toggle-status", func() error {
			return helper.RegisterTypedRequestReplyService(container, "toggle-status", json.Unmarshal, json.Marshal, m.toggleStatus)
		}},
		{"filter", func() error {
			return helper.RegisterTypedRequestReplyService(container, "filter", json.Unmarshal, json.Marshal, m.filterTasks)
		}},
		{"stats", func() error {
			return helper.RegisterTypedRequestReplyService(container, "stats", json.Unmarshal, json.Marshal, m.taskStats)
		}},
	}

	for _, s := range services {
		if err := s.register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", s.name, err)
		}
	}

	log.Printf("[task] Registered services: services.task.{list,create,get,update,delete,toggle-status,filter,stats}")
	return nil
}

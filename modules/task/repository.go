package task

import (
	"errors"
	"fmt"
	"strings"

	domain "github.com/PC-931/task-manager/domain/task"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a task id does not resolve to any task.
// Malformed ids behave the same way: they simply never match a row.
var ErrNotFound = errors.New("task not found")

// Repository handles task persistence using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new task repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs schema migrations for the task table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&domain.Task{})
}

// Create saves a new task to the database.
func (r *Repository) Create(t *domain.Task) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// FindByID retrieves a task by id regardless of owner. Callers decide
// ownership afterwards; existence must be resolved first so that a missing
// id and a foreign id surface as different failures.
func (r *Repository) FindByID(id string) (*domain.Task, error) {
	var t domain.Task
	if err := r.db.First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return &t, nil
}

// FindByOwner returns all tasks owned by ownerID, newest-created first.
// The rowid tiebreak keeps tasks created within the same timestamp
// granularity in reverse insertion order.
func (r *Repository) FindByOwner(ownerID string) ([]*domain.Task, error) {
	var tasks []*domain.Task
	if err := r.db.Where("user_id = ?", ownerID).
		Order("created_at DESC, rowid DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Search returns the owner's tasks matching the filter, newest-created
// first. Status, priority and title predicates run in SQL; category
// membership is checked in memory because categories live in a
// JSON-serialized column.
func (r *Repository) Search(ownerID string, f domain.Filter) ([]*domain.Task, error) {
	q := r.db.Where("user_id = ?", ownerID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var tasks []*domain.Task
	if err := q.Order("created_at DESC, rowid DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to search tasks: %w", err)
	}

	if f.Category == "" {
		return tasks, nil
	}
	matched := make([]*domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.HasCategory(f.Category) {
			matched = append(matched, t)
		}
	}
	return matched, nil
}

// Save writes all fields of an existing task back to the database.
func (r *Repository) Save(t *domain.Task) error {
	if err := r.db.Save(t).Error; err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return nil
}

// Delete removes a task permanently. There is no soft delete.
func (r *Repository) Delete(id string) error {
	result := r.db.Delete(&domain.Task{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// StatsByOwner aggregates task counts for one owner. The per-priority
// breakdown is restricted to pending tasks; completed tasks are excluded
// from it deliberately.
func (r *Repository) StatsByOwner(ownerID string) (*domain.Stats, error) {
	owned := func() *gorm.DB {
		return r.db.Model(&domain.Task{}).Where("user_id = ?", ownerID)
	}

	var stats domain.Stats
	if err := owned().Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if err := owned().Where("status = ?", domain.StatusCompleted).Count(&stats.Completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}
	if err := owned().Where("status = ?", domain.StatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending tasks: %w", err)
	}

	for _, pc := range []struct {
		priority domain.Priority
		dest     *int64
	}{
		{domain.PriorityHigh, &stats.Priority.High},
		{domain.PriorityMedium, &stats.Priority.Medium},
		{domain.PriorityLow, &stats.Priority.Low},
	} {
		if err := owned().
			Where("status = ? AND priority = ?", domain.StatusPending, pc.priority).
			Count(pc.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s priority tasks: %w", pc.priority, err)
		}
	}

	return &stats, nil
}

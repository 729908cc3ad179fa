package task

import (
	"errors"
	"testing"
	"time"

	domain "github.com/PC-931/task-manager/domain/task"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo creates a repository over an in-memory SQLite database.
func setupTestRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	repo := NewRepository(db)
	if err := repo.Migrate(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return repo
}

// newTask builds a persistable task with sane defaults.
func newTask(ownerID, title string, mutate ...func(*domain.Task)) *domain.Task {
	tk := &domain.Task{
		ID:         uuid.New().String(),
		UserID:     ownerID,
		Title:      title,
		Priority:   domain.PriorityMedium,
		Categories: []string{},
		Status:     domain.StatusPending,
	}
	for _, m := range mutate {
		m(tk)
	}
	return tk
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	repo := setupTestRepo(t)

	tk := newTask("user-1", "Buy milk", func(tk *domain.Task) {
		tk.Categories = []string{"errands", "home"}
	})
	if err := repo.Create(tk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.FindByID(tk.ID)
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if found.Title != "Buy milk" {
		t.Errorf("expected title %q, got %q", "Buy milk", found.Title)
	}
	if found.UserID != "user-1" {
		t.Errorf("expected owner %q, got %q", "user-1", found.UserID)
	}
	if len(found.Categories) != 2 || found.Categories[0] != "errands" {
		t.Errorf("categories did not round-trip, got %v", found.Categories)
	}
}

func TestRepository_FindByID_NotFound(t *testing.T) {
	repo := setupTestRepo(t)

	for _, id := range []string{uuid.New().String(), "not-a-valid-id", ""} {
		_, err := repo.FindByID(id)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("FindByID(%q) error = %v, want ErrNotFound", id, err)
		}
	}
}

func TestRepository_FindByOwner_Ordering(t *testing.T) {
	repo := setupTestRepo(t)

	base := time.Now().Add(-time.Hour)
	for i, title := range []string{"A", "B", "C"} {
		tk := newTask("user-1", title, func(tk *domain.Task) {
			tk.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		})
		if err := repo.Create(tk); err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
	}

	tasks, err := repo.FindByOwner("user-1")
	if err != nil {
		t.Fatalf("FindByOwner() error = %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	for i, want := range []string{"C", "B", "A"} {
		if tasks[i].Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, tasks[i].Title)
		}
	}
}

func TestRepository_FindByOwner_SameTimestampTieBreak(t *testing.T) {
	repo := setupTestRepo(t)

	created := time.Now().Truncate(time.Second)
	for _, title := range []string{"first", "second", "third"} {
		tk := newTask("user-1", title, func(tk *domain.Task) {
			tk.CreatedAt = created
		})
		if err := repo.Create(tk); err != nil {
			t.Fatalf("Create(%s) error = %v", title, err)
		}
	}

	tasks, err := repo.FindByOwner("user-1")
	if err != nil {
		t.Fatalf("FindByOwner() error = %v", err)
	}
	for i, want := range []string{"third", "second", "first"} {
		if tasks[i].Title != want {
			t.Errorf("position %d: expected %q, got %q", i, want, tasks[i].Title)
		}
	}
}

func TestRepository_FindByOwner_ScopedToOwner(t *testing.T) {
	repo := setupTestRepo(t)

	if err := repo.Create(newTask("user-1", "mine")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Create(newTask("user-2", "theirs")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tasks, err := repo.FindByOwner("user-1")
	if err != nil {
		t.Fatalf("FindByOwner() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "mine" {
		t.Errorf("expected only the owner's task, got %v", tasks)
	}
}

func TestRepository_Search(t *testing.T) {
	repo := setupTestRepo(t)

	seed := []*domain.Task{
		newTask("user-1", "monthly report", func(tk *domain.Task) {
			tk.Priority = domain.PriorityHigh
			tk.Categories = []string{"work"}
		}),
		newTask("user-1", "Shopping list", func(tk *domain.Task) {
			tk.Priority = domain.PriorityLow
			tk.Categories = []string{"home"}
		}),
		newTask("user-1", "Annual report", func(tk *domain.Task) {
			tk.Status = domain.StatusCompleted
			tk.Categories = []string{"work"}
		}),
		newTask("user-2", "report for someone else"),
	}
	for _, tk := range seed {
		if err := repo.Create(tk); err != nil {
			t.Fatalf("Create(%s) error = %v", tk.Title, err)
		}
	}

	tests := []struct {
		name       string
		filter     domain.Filter
		wantTitles map[string]bool
	}{
		{
			name:       "no predicates returns everything owned",
			filter:     domain.Filter{},
			wantTitles: map[string]bool{"monthly report": true, "Shopping list": true, "Annual report": true},
		},
		{
			name:       "status",
			filter:     domain.Filter{Status: "completed"},
			wantTitles: map[string]bool{"Annual report": true},
		},
		{
			name:       "priority",
			filter:     domain.Filter{Priority: "high"},
			wantTitles: map[string]bool{"monthly report": true},
		},
		{
			name:       "category membership",
			filter:     domain.Filter{Category: "work"},
			wantTitles: map[string]bool{"monthly report": true, "Annual report": true},
		},
		{
			name:       "case-insensitive substring search",
			filter:     domain.Filter{Search: "Report"},
			wantTitles: map[string]bool{"monthly report": true, "Annual report": true},
		},
		{
			name:       "predicates are ANDed",
			filter:     domain.Filter{Search: "report", Status: "pending"},
			wantTitles: map[string]bool{"monthly report": true},
		},
		{
			name:       "unknown value matches nothing",
			filter:     domain.Filter{Status: "archived"},
			wantTitles: map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks, err := repo.Search("user-1", tt.filter)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(tasks) != len(tt.wantTitles) {
				t.Fatalf("expected %d tasks, got %d", len(tt.wantTitles), len(tasks))
			}
			for _, tk := range tasks {
				if !tt.wantTitles[tk.Title] {
					t.Errorf("unexpected task %q in result", tk.Title)
				}
			}
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	repo := setupTestRepo(t)

	tk := newTask("user-1", "to be removed")
	if err := repo.Create(tk); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("existing task is removed for good", func(t *testing.T) {
		if err := repo.Delete(tk.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := repo.FindByID(tk.ID); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("missing task", func(t *testing.T) {
		if err := repo.Delete(uuid.New().String()); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestRepository_StatsByOwner(t *testing.T) {
	repo := setupTestRepo(t)

	// Two pending (high, low) and one completed (high): the completed task
	// must be excluded from the priority breakdown.
	seed := []*domain.Task{
		newTask("user-1", "pending high", func(tk *domain.Task) {
			tk.Priority = domain.PriorityHigh
		}),
		newTask("user-1", "pending low", func(tk *domain.Task) {
			tk.Priority = domain.PriorityLow
		}),
		newTask("user-1", "done high", func(tk *domain.Task) {
			tk.Priority = domain.PriorityHigh
			tk.Status = domain.StatusCompleted
		}),
		newTask("user-2", "someone else's"),
	}
	for _, tk := range seed {
		if err := repo.Create(tk); err != nil {
			t.Fatalf("Create(%s) error = %v", tk.Title, err)
		}
	}

	stats, err := repo.StatsByOwner("user-1")
	if err != nil {
		t.Fatalf("StatsByOwner() error = %v", err)
	}

	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Completed != 1 {
		t.Errorf("Completed = %d, want 1", stats.Completed)
	}
	if stats.Pending != 2 {
		t.Errorf("Pending = %d, want 2", stats.Pending)
	}
	if stats.Priority.High != 1 {
		t.Errorf("Priority.High = %d, want 1", stats.Priority.High)
	}
	if stats.Priority.Medium != 0 {
		t.Errorf("Priority.Medium = %d, want 0", stats.Priority.Medium)
	}
	if stats.Priority.Low != 1 {
		t.Errorf("Priority.Low = %d, want 1", stats.Priority.Low)
	}
}

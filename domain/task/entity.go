package task

import (
	"time"
)

// Status is the completion state of a task. There are exactly two states
// and both are reachable from the other; toggling flips between them.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the enumerated statuses.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggle returns the opposite status.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Priority is the urgency level of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the enumerated priorities.
func (p Priority) Valid() bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Task represents a user-owned task. UserID is the owner and is set once at
// creation; no operation reassigns it. Categories are stored as a
// JSON-serialized column since SQLite has no native array type.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"index;not null;size:36" json:"user"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"size:1000" json:"description"`
	Priority    Priority   `gorm:"size:10;not null;default:medium" json:"priority"`
	Categories  []string   `gorm:"serializer:json" json:"categories"`
	Status      Status     `gorm:"size:10;not null;default:pending" json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TableName returns the table name for the Task entity.
func (Task) TableName() string {
	return "tasks"
}

// HasCategory reports whether the task carries the given category label.
func (t *Task) HasCategory(name string) bool {
	for _, c := range t.Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Filter holds the optional search predicates. All given predicates are
// ANDed; zero values mean "not given". Status and Priority are kept as raw
// strings: an unknown value simply matches nothing, mirroring an exact-match
// query against the store.
type Filter struct {
	Status   string
	Priority string
	Category string
	Search   string
}

// Empty reports whether no predicate is set.
func (f Filter) Empty() bool {
	return f.Status == "" && f.Priority == "" && f.Category == "" && f.Search == ""
}

// Stats aggregates task counts for one owner. The per-priority breakdown
// counts pending tasks only; completed tasks are excluded from it on
// purpose.
type Stats struct {
	Total     int64
	Completed int64
	Pending   int64
	Priority  PriorityCounts
}

// PriorityCounts holds per-priority task counts.
type PriorityCounts struct {
	High   int64
	Medium int64
	Low    int64
}

package task

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	domain "github.com/PC-931/task-manager/domain/task"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrNotAuthorized is returned when a task exists but belongs to a
	// different user than the caller.
	ErrNotAuthorized = errors.New("user not authorized")
	// ErrTitleRequired is returned when a task title is empty or absent.
	ErrTitleRequired = errors.New("title is required")
	// ErrInvalidPriority is returned for a priority outside {low, medium, high}.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrInvalidStatus is returned for a status outside {pending, completed}.
	ErrInvalidStatus = errors.New("invalid status")
)

// Cache is the subset of the cache module used by the task service. A nil
// Cache disables caching; every read then goes straight to the store.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	DeletePattern(ctx context.Context, pattern string) error
}

// Service implements the owner-scoped task operations. Every mutating or
// reading operation on a single task resolves existence first and checks
// ownership second, so a nonexistent id and a foreign id fail differently.
type Service struct {
	repo  *Repository
	cache Cache
	group singleflight.Group // prevents cache stampede on concurrent misses
}

// NewService creates a new task service. cache may be nil.
func NewService(repo *Repository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// SetCache attaches a cache after construction. Used when the cache module
// is wired up after application start.
func (s *Service) SetCache(cache Cache) {
	s.cache = cache
}

// CreateInput holds the caller-supplied fields for a new task. The owner is
// passed separately and never comes from the request body.
type CreateInput struct {
	Title       string
	Description string
	Priority    string
	Categories  []string
	DueDate     *time.Time
}

// UpdateInput is the explicit allow-list of mutable fields. Nil means "not
// given". The task id and owner are not representable here, so they can
// never be overwritten through an update.
type UpdateInput struct {
	Title       *string
	Description *string
	Priority    *string
	Categories  *[]string
	DueDate     *time.Time
	Status      *string
}

// List returns all tasks owned by ownerID, newest-created first.
func (s *Service) List(ctx context.Context, ownerID string) ([]*domain.Task, error) {
	key := listKey(ownerID)
	if s.cache != nil {
		var cached []*domain.Task
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] cache get failed for %s: %v", key, err)
		} else if found {
			return cached, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.repo.FindByOwner(ownerID)
	})
	if err != nil {
		return nil, err
	}
	tasks := v.([]*domain.Task)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, tasks); err != nil {
			log.Printf("[task] cache set failed for %s: %v", key, err)
		}
	}
	return tasks, nil
}

// Create stores a new task owned by ownerID. Status is always pending,
// priority defaults to medium, categories default to the empty set.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (*domain.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	priority := domain.PriorityMedium
	if in.Priority != "" {
		priority = domain.Priority(in.Priority)
		if !priority.Valid() {
			return nil, ErrInvalidPriority
		}
	}

	categories := in.Categories
	if categories == nil {
		categories = []string{}
	}

	t := &domain.Task{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		Categories:  categories,
		Status:      domain.StatusPending,
		DueDate:     in.DueDate,
	}

	if err := s.repo.Create(t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return t, nil
}

// Get returns the task if it exists and is owned by ownerID.
func (s *Service) Get(_ context.Context, ownerID, taskID string) (*domain.Task, error) {
	return s.findOwned(ownerID, taskID)
}

// Update applies the given subset of mutable fields to the task after the
// same existence/ownership checks as Get.
func (s *Service) Update(ctx context.Context, ownerID, taskID string, in UpdateInput) (*domain.Task, error) {
	t, err := s.findOwned(ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, ErrTitleRequired
		}
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Priority != nil {
		p := domain.Priority(*in.Priority)
		if !p.Valid() {
			return nil, ErrInvalidPriority
		}
		t.Priority = p
	}
	if in.Categories != nil {
		t.Categories = *in.Categories
		if t.Categories == nil {
			t.Categories = []string{}
		}
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.Status != nil {
		st := domain.Status(*in.Status)
		if !st.Valid() {
			return nil, ErrInvalidStatus
		}
		t.Status = st
	}

	if err := s.repo.Save(t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return t, nil
}

// Delete removes the task permanently after the same checks as Get.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	t, err := s.findOwned(ownerID, taskID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(t.ID); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// ToggleStatus flips the task between pending and completed.
func (s *Service) ToggleStatus(ctx context.Context, ownerID, taskID string) (*domain.Task, error) {
	t, err := s.findOwned(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	t.Status = t.Status.Toggle()
	if err := s.repo.Save(t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return t, nil
}

// Filter returns the owner's tasks matching all given predicates, newest
// first. With no predicates it is identical to List.
func (s *Service) Filter(_ context.Context, ownerID string, f domain.Filter) ([]*domain.Task, error) {
	return s.repo.Search(ownerID, f)
}

// Stats returns aggregate counts for the owner, cached when a cache is
// attached.
func (s *Service) Stats(ctx context.Context, ownerID string) (*domain.Stats, error) {
	key := statsKey(ownerID)
	if s.cache != nil {
		var cached domain.Stats
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			log.Printf("[task] cache get failed for %s: %v", key, err)
		} else if found {
			return &cached, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.repo.StatsByOwner(ownerID)
	})
	if err != nil {
		return nil, err
	}
	stats := v.(*domain.Stats)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, stats); err != nil {
			log.Printf("[task] cache set failed for %s: %v", key, err)
		}
	}
	return stats, nil
}

// findOwned resolves the task and then checks ownership, in that order.
func (s *Service) findOwned(ownerID, taskID string) (*domain.Task, error) {
	t, err := s.repo.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	if t.UserID != ownerID {
		return nil, ErrNotAuthorized
	}
	return t, nil
}

// invalidate drops every cached entry for the owner. Cache failures are
// logged and otherwise ignored; the store remains the source of truth.
func (s *Service) invalidate(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, "owner:"+ownerID+":*"); err != nil {
		log.Printf("[task] cache invalidation failed for owner %s: %v", ownerID, err)
	}
}

func listKey(ownerID string) string {
	return "owner:" + ownerID + ":list"
}

func statsKey(ownerID string) string {
	return "owner:" + ownerID + ":stats"
}

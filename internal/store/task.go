package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/ariascm/task-manager-api/internal/domain"
)

// Task sort keys accepted by TaskListOptions. They map 1:1 to columns in the
// tasks table; List implementations must reject anything else.
const (
	TaskSortCreatedAt   = "created_at"
	TaskSortUpdatedAt   = "updated_at"
	TaskSortCompleted   = "completed"
	TaskSortDescription = "description"
)

// ValidTaskSortField reports whether field is an allowed task sort key.
func ValidTaskSortField(field string) bool {
	switch field {
	case TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortCompleted, TaskSortDescription:
		return true
	}
	return false
}

// TaskListOptions narrows and orders a task listing. The zero value lists
// every task of the owner in creation order.
type TaskListOptions struct {
	// Completed filters on the completed flag when non-nil.
	Completed *bool

	// SortField is one of the TaskSort* constants; empty means creation order.
	SortField string

	// SortDesc orders descending when true.
	SortDesc bool

	// Limit caps the number of returned tasks; values <= 0 mean no limit.
	Limit int

	// Skip drops that many tasks from the start; values <= 0 mean no skip.
	Skip int
}

// TaskStore defines the interface for task data persistence.
// Every read and write is scoped to the owning user: an ID that exists but
// belongs to someone else behaves exactly like an ID that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity (wrapping the validation error) if data is
	// invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the task with the given ID owned by ownerID.
	// Returns ErrTaskNotFound if no such task exists for this owner.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List returns the owner's tasks narrowed and ordered by opts.
	// Returns ErrInvalidEntity if opts carries an unknown sort field.
	List(ctx context.Context, ownerID uuid.UUID, opts TaskListOptions) ([]*domain.Task, error)

	// Update persists the task's mutable fields (description, completed).
	// The task is matched by ID and owner; returns ErrTaskNotFound if no such
	// task exists for this owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes the task with the given ID owned by ownerID.
	// Returns ErrTaskNotFound if no such task exists for this owner.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// DeleteByOwner removes every task owned by ownerID and reports how many
	// rows were deleted. Used by the user-delete cascade.
	DeleteByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

package tasks

import "time"

// Status tracks a task through its lifecycle.
type Status string

// Task statuses.
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusApproved   Status = "approved"
)

// Valid reports whether the status is known.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone, StatusApproved:
		return true
	}
	return false
}

// Task is a bookkeeping work item, usually assigned to an accountant.
type Task struct {
	ID         string
	BusinessID string
	CreatedBy  string
	AssigneeID string
	Title      string
	Notes      string
	Status     Status
	DueDate    time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// CreateTaskInput for opening a task.
type CreateTaskInput struct {
	BusinessID string
	CreatedBy  string
	AssigneeID string
	Title      string
	Notes      string
	DueDate    time.Time
}

// UpdateTaskInput for editing task attributes.
type UpdateTaskInput struct {
	AssigneeID string
	Title      string
	Notes      string
	Status     Status
	DueDate    time.Time
}

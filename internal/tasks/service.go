package tasks

import (
	"context"
	"errors"
	"strings"
)

// RepositoryPort defines data access methods for tasks.
type RepositoryPort interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	ListTasks(ctx context.Context, businessID string, status Status) ([]Task, error)
	UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*Task, error)
	SetStatus(ctx context.Context, id string, status Status) (*Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Service handles task business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Legal forward transitions. Approved is terminal.
var statusTransitions = map[Status][]Status{
	StatusOpen:       {StatusInProgress, StatusDone},
	StatusInProgress: {StatusOpen, StatusDone},
	StatusDone:       {StatusInProgress, StatusApproved},
}

func canTransition(from, to Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// OpenTask validates and stores a new task.
func (s *Service) OpenTask(ctx context.Context, input CreateTaskInput) (*Task, error) {
	if input.BusinessID == "" {
		return nil, errors.New("business ID required")
	}
	if input.CreatedBy == "" {
		return nil, errors.New("creator required")
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, errors.New("title required")
	}
	return s.repo.CreateTask(ctx, input)
}

// GetTask fetches a task by ID.
func (s *Service) GetTask(ctx context.Context, id string) (*Task, error) {
	return s.repo.GetTask(ctx, id)
}

// ListTasks lists a business's tasks.
func (s *Service) ListTasks(ctx context.Context, businessID string, status Status) ([]Task, error) {
	if status != "" && !status.Valid() {
		return nil, errors.New("unknown status")
	}
	return s.repo.ListTasks(ctx, businessID, status)
}

// UpdateTask validates and applies an edit.
func (s *Service) UpdateTask(ctx context.Context, id string, input UpdateTaskInput) (*Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, errors.New("title required")
	}
	if !input.Status.Valid() {
		return nil, errors.New("unknown status")
	}
	current, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Status != current.Status && !canTransition(current.Status, input.Status) {
		return nil, errors.New("illegal status transition")
	}
	return s.repo.UpdateTask(ctx, id, input)
}

// Approve marks a done task approved.
func (s *Service) Approve(ctx context.Context, id string) (*Task, error) {
	current, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(current.Status, StatusApproved) {
		return nil, errors.New("only done tasks can be approved")
	}
	return s.repo.SetStatus(ctx, id, StatusApproved)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.repo.DeleteTask(ctx, id)
}

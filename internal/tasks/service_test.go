package tasks

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type memoryTaskRepo struct {
	tasks  map[string]*Task
	nextID int
}

func newMemoryTaskRepo() *memoryTaskRepo {
	return &memoryTaskRepo{tasks: make(map[string]*Task)}
}

func (r *memoryTaskRepo) CreateTask(_ context.Context, input CreateTaskInput) (*Task, error) {
	r.nextID++
	task := &Task{
		ID:         "k" + strconv.Itoa(r.nextID),
		BusinessID: input.BusinessID,
		CreatedBy:  input.CreatedBy,
		AssigneeID: input.AssigneeID,
		Title:      input.Title,
		Notes:      input.Notes,
		Status:     StatusOpen,
		DueDate:    input.DueDate,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	r.tasks[task.ID] = task
	return task, nil
}

func (r *memoryTaskRepo) GetTask(_ context.Context, id string) (*Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return task, nil
}

func (r *memoryTaskRepo) ListTasks(_ context.Context, businessID string, status Status) ([]Task, error) {
	var out []Task
	for _, task := range r.tasks {
		if task.BusinessID != businessID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		out = append(out, *task)
	}
	return out, nil
}

func (r *memoryTaskRepo) UpdateTask(_ context.Context, id string, input UpdateTaskInput) (*Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	task.AssigneeID = input.AssigneeID
	task.Title = input.Title
	task.Notes = input.Notes
	task.Status = input.Status
	task.DueDate = input.DueDate
	return task, nil
}

func (r *memoryTaskRepo) SetStatus(_ context.Context, id string, status Status) (*Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	task.Status = status
	return task, nil
}

func (r *memoryTaskRepo) DeleteTask(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func openTask(t *testing.T, svc *Service) *Task {
	t.Helper()
	task, err := svc.OpenTask(context.Background(), CreateTaskInput{
		BusinessID: "b1", CreatedBy: "u1", Title: "Reconcile March statements",
	})
	require.NoError(t, err)
	return task
}

func TestOpenTaskValidation(t *testing.T) {
	svc := NewService(newMemoryTaskRepo())
	ctx := context.Background()

	_, err := svc.OpenTask(ctx, CreateTaskInput{CreatedBy: "u1", Title: "x"})
	require.Error(t, err, "missing business")

	_, err = svc.OpenTask(ctx, CreateTaskInput{BusinessID: "b1", Title: "x"})
	require.Error(t, err, "missing creator")

	_, err = svc.OpenTask(ctx, CreateTaskInput{BusinessID: "b1", CreatedBy: "u1", Title: "  "})
	require.Error(t, err, "blank title")
}

func TestStatusTransitions(t *testing.T) {
	svc := NewService(newMemoryTaskRepo())
	task := openTask(t, svc)

	// open -> approved skips done, rejected.
	_, err := svc.UpdateTask(context.Background(), task.ID, UpdateTaskInput{
		Title: task.Title, Status: StatusApproved,
	})
	require.Error(t, err)

	updated, err := svc.UpdateTask(context.Background(), task.ID, UpdateTaskInput{
		Title: task.Title, Status: StatusInProgress,
	})
	require.NoError(t, err)
	require.Equal(t, StatusInProgress, updated.Status)

	updated, err = svc.UpdateTask(context.Background(), task.ID, UpdateTaskInput{
		Title: task.Title, Status: StatusDone,
	})
	require.NoError(t, err)
	require.Equal(t, StatusDone, updated.Status)
}

func TestApproveRequiresDone(t *testing.T) {
	svc := NewService(newMemoryTaskRepo())
	task := openTask(t, svc)

	_, err := svc.Approve(context.Background(), task.ID)
	require.Error(t, err)

	_, err = svc.UpdateTask(context.Background(), task.ID, UpdateTaskInput{
		Title: task.Title, Status: StatusDone,
	})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), task.ID)
	require.NoError(t, err)
	require.Equal(t, StatusApproved, approved.Status)

	// Approved is terminal.
	_, err = svc.UpdateTask(context.Background(), task.ID, UpdateTaskInput{
		Title: task.Title, Status: StatusOpen,
	})
	require.Error(t, err)
}

func TestListTasksRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMemoryTaskRepo())
	_, err := svc.ListTasks(context.Background(), "b1", "archived")
	require.Error(t, err)
}

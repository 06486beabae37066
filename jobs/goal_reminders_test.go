package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/goals"
)

type dueGoalRepo struct {
	due []goals.Goal
}

func (r *dueGoalRepo) CreateGoal(context.Context, goals.CreateGoalInput) (*goals.Goal, error) {
	return nil, errors.New("not implemented")
}

func (r *dueGoalRepo) GetGoal(context.Context, string) (*goals.Goal, error) {
	return nil, errors.New("not implemented")
}

func (r *dueGoalRepo) ListGoals(context.Context, string) ([]goals.Goal, error) {
	return nil, errors.New("not implemented")
}

func (r *dueGoalRepo) UpdateGoal(context.Context, string, goals.UpdateGoalInput) (*goals.Goal, error) {
	return nil, errors.New("not implemented")
}

func (r *dueGoalRepo) Contribute(context.Context, string, decimal.Decimal) (*goals.Goal, error) {
	return nil, errors.New("not implemented")
}

func (r *dueGoalRepo) DeleteGoal(context.Context, string) error {
	return errors.New("not implemented")
}

func (r *dueGoalRepo) ListDueSoon(context.Context, int) ([]goals.Goal, error) {
	return r.due, nil
}

type flakyMailer struct {
	calls  int
	failOn int
	queued []string
}

func (m *flakyMailer) EnqueueSendEmail(_ context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error) {
	m.calls++
	if m.calls == m.failOn {
		return nil, errors.New("queue unavailable")
	}
	m.queued = append(m.queued, payload.To)
	return &asynq.TaskInfo{}, nil
}

func dueGoal(businessID, name string) goals.Goal {
	return goals.Goal{
		ID:           "g-" + name,
		BusinessID:   businessID,
		Name:         name,
		TargetAmount: decimal.NewFromInt(100),
		SavedAmount:  decimal.NewFromInt(40),
		Deadline:     time.Now().Add(48 * time.Hour),
	}
}

func TestGoalRemindersContinuePastEnqueueFailure(t *testing.T) {
	mailer := &flakyMailer{failOn: 1}
	job := NewGoalReminderJob(
		goals.NewService(&dueGoalRepo{due: []goals.Goal{
			dueGoal("b1", "van"),
			dueGoal("b2", "laptop"),
			dueGoal("b3", "buffer"),
		}}),
		nil, mailer, nil, nil,
	)
	job.lookupEmail = func(_ context.Context, businessID string) (string, error) {
		return businessID + "@example.com", nil
	}

	task, err := NewGoalReminderTask(GoalReminderPayload{WithinDays: 7})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task),
		"one failed enqueue must not fail the run")
	require.Equal(t, 3, mailer.calls, "scan continues past the failure")
	require.Equal(t, []string{"b2@example.com", "b3@example.com"}, mailer.queued)
}

func TestGoalRemindersSkipUnresolvableOwners(t *testing.T) {
	mailer := &flakyMailer{}
	job := NewGoalReminderJob(
		goals.NewService(&dueGoalRepo{due: []goals.Goal{
			dueGoal("b1", "van"),
			dueGoal("b2", "laptop"),
		}}),
		nil, mailer, nil, nil,
	)
	job.lookupEmail = func(_ context.Context, businessID string) (string, error) {
		if businessID == "b1" {
			return "", errors.New("no owner row")
		}
		return businessID + "@example.com", nil
	}

	task, err := NewGoalReminderTask(GoalReminderPayload{WithinDays: 7})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, []string{"b2@example.com"}, mailer.queued)
}

package goals

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type memoryGoalRepo struct {
	goals  map[string]*Goal
	nextID int
}

func newMemoryGoalRepo() *memoryGoalRepo {
	return &memoryGoalRepo{goals: make(map[string]*Goal)}
}

func (r *memoryGoalRepo) CreateGoal(_ context.Context, input CreateGoalInput) (*Goal, error) {
	r.nextID++
	goal := &Goal{
		ID:           "g" + strconv.Itoa(r.nextID),
		BusinessID:   input.BusinessID,
		CreatedBy:    input.CreatedBy,
		Name:         input.Name,
		TargetAmount: input.TargetAmount,
		SavedAmount:  decimal.Zero,
		Deadline:     input.Deadline,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	r.goals[goal.ID] = goal
	return goal, nil
}

func (r *memoryGoalRepo) GetGoal(_ context.Context, id string) (*Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return goal, nil
}

func (r *memoryGoalRepo) ListGoals(_ context.Context, businessID string) ([]Goal, error) {
	var out []Goal
	for _, goal := range r.goals {
		if goal.BusinessID == businessID {
			out = append(out, *goal)
		}
	}
	return out, nil
}

func (r *memoryGoalRepo) UpdateGoal(_ context.Context, id string, input UpdateGoalInput) (*Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	goal.Name = input.Name
	goal.TargetAmount = input.TargetAmount
	goal.Deadline = input.Deadline
	return goal, nil
}

func (r *memoryGoalRepo) Contribute(_ context.Context, id string, amount decimal.Decimal) (*Goal, error) {
	goal, ok := r.goals[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	goal.SavedAmount = goal.SavedAmount.Add(amount)
	return goal, nil
}

func (r *memoryGoalRepo) DeleteGoal(_ context.Context, id string) error {
	if _, ok := r.goals[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.goals, id)
	return nil
}

func (r *memoryGoalRepo) ListDueSoon(_ context.Context, withinDays int) ([]Goal, error) {
	cutoff := time.Now().AddDate(0, 0, withinDays)
	var out []Goal
	for _, goal := range r.goals {
		if goal.Deadline.After(time.Now()) && goal.Deadline.Before(cutoff) &&
			goal.SavedAmount.LessThan(goal.TargetAmount) {
			out = append(out, *goal)
		}
	}
	return out, nil
}

func seedGoal(t *testing.T, svc *Service, target string) *Goal {
	t.Helper()
	amount, err := decimal.NewFromString(target)
	require.NoError(t, err)
	goal, err := svc.CreateGoal(context.Background(), CreateGoalInput{
		BusinessID:   "b1",
		CreatedBy:    "u1",
		Name:         "New laptop",
		TargetAmount: amount,
		Deadline:     time.Now().AddDate(0, 3, 0),
	})
	require.NoError(t, err)
	return goal
}

func TestCreateGoalValidation(t *testing.T) {
	svc := NewService(newMemoryGoalRepo())
	ctx := context.Background()

	_, err := svc.CreateGoal(ctx, CreateGoalInput{
		CreatedBy: "u1", Name: "x", TargetAmount: decimal.NewFromInt(10),
	})
	require.Error(t, err, "missing business")

	_, err = svc.CreateGoal(ctx, CreateGoalInput{
		BusinessID: "b1", CreatedBy: "u1", Name: "  ", TargetAmount: decimal.NewFromInt(10),
	})
	require.Error(t, err, "blank name")

	_, err = svc.CreateGoal(ctx, CreateGoalInput{
		BusinessID: "b1", CreatedBy: "u1", Name: "x", TargetAmount: decimal.Zero,
	})
	require.Error(t, err, "zero target")
}

func TestContributeAccumulates(t *testing.T) {
	svc := NewService(newMemoryGoalRepo())
	goal := seedGoal(t, svc, "1000")

	updated, err := svc.Contribute(context.Background(), goal.ID, decimal.NewFromInt(250))
	require.NoError(t, err)
	updated, err = svc.Contribute(context.Background(), updated.ID, decimal.NewFromInt(250))
	require.NoError(t, err)
	require.Equal(t, "500", updated.SavedAmount.String())
	require.Equal(t, "50", updated.Progress().String())
}

func TestContributeRejectsNonPositive(t *testing.T) {
	svc := NewService(newMemoryGoalRepo())
	goal := seedGoal(t, svc, "1000")

	_, err := svc.Contribute(context.Background(), goal.ID, decimal.Zero)
	require.Error(t, err)
	_, err = svc.Contribute(context.Background(), goal.ID, decimal.NewFromInt(-5))
	require.Error(t, err)
}

func TestProgressClampsAtHundred(t *testing.T) {
	svc := NewService(newMemoryGoalRepo())
	goal := seedGoal(t, svc, "100")

	updated, err := svc.Contribute(context.Background(), goal.ID, decimal.NewFromInt(150))
	require.NoError(t, err)
	require.Equal(t, "100", updated.Progress().String())
}

func TestDueSoonSkipsFundedGoals(t *testing.T) {
	repo := newMemoryGoalRepo()
	svc := NewService(repo)

	near, err := svc.CreateGoal(context.Background(), CreateGoalInput{
		BusinessID: "b1", CreatedBy: "u1", Name: "Tax reserve",
		TargetAmount: decimal.NewFromInt(100),
		Deadline:     time.Now().AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	funded, err := svc.CreateGoal(context.Background(), CreateGoalInput{
		BusinessID: "b1", CreatedBy: "u1", Name: "Software budget",
		TargetAmount: decimal.NewFromInt(100),
		Deadline:     time.Now().AddDate(0, 0, 3),
	})
	require.NoError(t, err)
	_, err = svc.Contribute(context.Background(), funded.ID, decimal.NewFromInt(100))
	require.NoError(t, err)

	due, err := svc.DueSoon(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, due, 1)
	require.Equal(t, near.ID, due[0].ID)
}

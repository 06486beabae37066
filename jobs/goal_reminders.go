package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/goals"
	jobmetrics "github.com/ledgerdesk/ledgerdesk/internal/jobs"
)

// ReminderMailer queues one reminder email.
type ReminderMailer interface {
	EnqueueSendEmail(ctx context.Context, payload SendEmailPayload) (*asynq.TaskInfo, error)
}

// GoalReminderJob mails business owners about underfunded goals whose
// deadline is close. Scheduled nightly.
type GoalReminderJob struct {
	Goals   *goals.Service
	Pool    *pgxpool.Pool
	Client  ReminderMailer
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics

	lookupEmail func(ctx context.Context, businessID string) (string, error)
}

// NewGoalReminderJob wires dependencies for the reminder handler.
func NewGoalReminderJob(goalsSvc *goals.Service, pool *pgxpool.Pool, client ReminderMailer, logger *slog.Logger, metrics *jobmetrics.Metrics) *GoalReminderJob {
	return &GoalReminderJob{Goals: goalsSvc, Pool: pool, Client: client, Logger: logger, Metrics: metrics}
}

// Handle processes goal reminder tasks.
func (j *GoalReminderJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Goals == nil {
		return errors.New("goal reminders: handler not configured")
	}
	var payload GoalReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.WithinDays <= 0 {
		payload.WithinDays = 7
	}

	tracker := j.metrics().Track(TaskGoalReminders)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	due, err := j.Goals.DueSoon(ctx, payload.WithinDays)
	if err != nil {
		resultErr = err
		logger.Error("scan due goals", slog.Any("error", err))
		return resultErr
	}
	if len(due) == 0 {
		logger.Info("no goals due soon")
		return resultErr
	}

	// A failed enqueue must not abort the scan: a retry of the whole task
	// would re-send reminders that already went out in this run.
	queued, failed := 0, 0
	for _, goal := range due {
		email, err := j.ownerEmail(ctx, goal.BusinessID)
		if err != nil {
			logger.Warn("resolve owner email",
				slog.String("business_id", goal.BusinessID), slog.Any("error", err))
			failed++
			continue
		}
		if j.Client == nil {
			continue
		}
		_, err = j.Client.EnqueueSendEmail(ctx, SendEmailPayload{
			To:      email,
			Subject: fmt.Sprintf("Goal %q is due soon", goal.Name),
			Body: fmt.Sprintf("Saved %s of %s with deadline %s.",
				goal.SavedAmount.StringFixed(2), goal.TargetAmount.StringFixed(2),
				goal.Deadline.Format("2006-01-02")),
		})
		if err != nil {
			logger.Error("queue reminder email",
				slog.String("business_id", goal.BusinessID), slog.Any("error", err))
			failed++
			continue
		}
		queued++
	}
	j.metrics().AddReminders(queued)
	logger.Info("queued goal reminders", slog.Int("count", queued), slog.Int("failed", failed))
	return resultErr
}

func (j *GoalReminderJob) ownerEmail(ctx context.Context, businessID string) (string, error) {
	if j.lookupEmail != nil {
		return j.lookupEmail(ctx, businessID)
	}
	if j.Pool == nil {
		return "", errors.New("goal reminders: pool not configured")
	}
	var email string
	err := j.Pool.QueryRow(ctx,
		`SELECT u.email FROM users u
		 JOIN businesses b ON b.owner_id = u.id
		 WHERE b.id = $1`, businessID).Scan(&email)
	return email, err
}

func (j *GoalReminderJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskGoalReminders))
	}
	return slog.Default().With(slog.String("job", TaskGoalReminders))
}

func (j *GoalReminderJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

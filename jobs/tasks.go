package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for sending transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskReportBuild is the task type for building report exports.
	TaskReportBuild = "report:build"
	// TaskGoalReminders is the task type for the nightly goal reminder scan.
	TaskGoalReminders = "goals:remind"
	// TaskAnalyticsRefresh is the task type for refreshing admin analytics.
	TaskAnalyticsRefresh = "analytics:refresh"
)

// SendEmailPayload describes the information required to send an email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NewSendEmailTask constructs an Asynq task.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// HandleSendEmailTask processes TaskTypeSendEmail tasks.
func HandleSendEmailTask(ctx context.Context, t *asynq.Task) error {
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: the hosted platform delivers mail; we only hand off.
	fmt.Printf("[jobs] send email to %s subject=%s\n", payload.To, payload.Subject)
	return nil
}

// ReportBuildPayload identifies the export job to build.
type ReportBuildPayload struct {
	JobID string `json:"job_id"`
}

// NewReportBuildTask constructs an Asynq task.
func NewReportBuildTask(payload ReportBuildPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskReportBuild, data), nil
}

// GoalReminderPayload scopes the nightly reminder scan.
type GoalReminderPayload struct {
	WithinDays int `json:"within_days"`
}

// NewGoalReminderTask constructs an Asynq task.
func NewGoalReminderTask(payload GoalReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskGoalReminders, data), nil
}

// NewAnalyticsRefreshTask constructs an Asynq task with an empty payload.
func NewAnalyticsRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskAnalyticsRefresh, nil)
}

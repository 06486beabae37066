package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/ledgerdesk/ledgerdesk/internal/jobs"
	"github.com/ledgerdesk/ledgerdesk/internal/reports"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// ReportBuildJob renders queued report exports.
type ReportBuildJob struct {
	Reports *reports.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewReportBuildJob wires dependencies for the export handler.
func NewReportBuildJob(reportsSvc *reports.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *ReportBuildJob {
	return &ReportBuildJob{Reports: reportsSvc, Logger: logger, Metrics: metrics}
}

// Handle processes report build tasks.
func (j *ReportBuildJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Reports == nil {
		return errors.New("report build: handler not configured")
	}
	var payload ReportBuildPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.JobID == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskReportBuild)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("export_job", payload.JobID))
	logger.Info("building report export")
	if err := j.Reports.BuildExport(ctx, payload.JobID); err != nil {
		resultErr = err
		logger.Error("build report export", slog.Any("error", err))
		return resultErr
	}
	logger.Info("report export built")
	return resultErr
}

func (j *ReportBuildJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskReportBuild))
	}
	return slog.Default().With(slog.String("job", TaskReportBuild))
}

func (j *ReportBuildJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/ledgerdesk/ledgerdesk/internal/analytics"
	jobmetrics "github.com/ledgerdesk/ledgerdesk/internal/jobs"
)

// AnalyticsRefreshJob bumps the KPI cache and warms the current period.
type AnalyticsRefreshJob struct {
	Analytics *analytics.Service
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewAnalyticsRefreshJob wires dependencies for the refresh handler.
func NewAnalyticsRefreshJob(analyticsSvc *analytics.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyticsRefreshJob {
	return &AnalyticsRefreshJob{
		Analytics: analyticsSvc,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes analytics refresh tasks.
func (j *AnalyticsRefreshJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics refresh: handler not configured")
	}

	tracker := j.metrics().Track(TaskAnalyticsRefresh)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	if err := j.Analytics.Invalidate(ctx); err != nil {
		resultErr = err
		logger.Error("invalidate analytics cache", slog.Any("error", err))
		return resultErr
	}

	warmCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	period := j.now().Format("2006-01")
	if _, err := j.Analytics.Overview(warmCtx, period); err != nil {
		resultErr = err
		logger.Error("warm analytics overview", slog.String("period", period), slog.Any("error", err))
		return resultErr
	}
	logger.Info("refreshed analytics overview", slog.String("period", period))
	return resultErr
}

func (j *AnalyticsRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskAnalyticsRefresh))
	}
	return slog.Default().With(slog.String("job", TaskAnalyticsRefresh))
}

func (j *AnalyticsRefreshJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *AnalyticsRefreshJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}

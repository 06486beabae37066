package reports

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
	"github.com/ledgerdesk/ledgerdesk/internal/transactions"
	_ "github.com/ledgerdesk/ledgerdesk/testing"
)

type memoryJobRepo struct {
	jobs   map[string]*Job
	nextID int
}

func newMemoryJobRepo() *memoryJobRepo {
	return &memoryJobRepo{jobs: make(map[string]*Job)}
}

func (r *memoryJobRepo) CreateJob(_ context.Context, input CreateJobInput) (*Job, error) {
	r.nextID++
	job := &Job{
		ID:          "j" + strconv.Itoa(r.nextID),
		BusinessID:  input.BusinessID,
		RequestedBy: input.RequestedBy,
		Period:      input.Period,
		Format:      input.Format,
		Status:      JobQueued,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	r.jobs[job.ID] = job
	return job, nil
}

func (r *memoryJobRepo) GetJob(_ context.Context, id string) (*Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *job
	return &copied, nil
}

func (r *memoryJobRepo) ListJobs(_ context.Context, businessID string) ([]Job, error) {
	var out []Job
	for _, job := range r.jobs {
		if job.BusinessID == businessID {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (r *memoryJobRepo) MarkRunning(_ context.Context, id string) error {
	job, ok := r.jobs[id]
	if !ok || job.Status != JobQueued {
		return shared.ErrNotFound
	}
	job.Status = JobRunning
	return nil
}

func (r *memoryJobRepo) MarkDone(_ context.Context, id, storageKey string) error {
	job, ok := r.jobs[id]
	if !ok {
		return shared.ErrNotFound
	}
	job.Status = JobDone
	job.StorageKey = storageKey
	return nil
}

func (r *memoryJobRepo) MarkFailed(_ context.Context, id, reason string) error {
	job, ok := r.jobs[id]
	if !ok {
		return shared.ErrNotFound
	}
	job.Status = JobFailed
	job.Error = reason
	return nil
}

type stubSummarizer struct {
	summary *transactions.Summary
	err     error
}

func (s *stubSummarizer) Summarize(context.Context, string, string) (*transactions.Summary, error) {
	return s.summary, s.err
}

type stubRenderer struct{}

func (stubRenderer) RenderHTML(_ context.Context, html string) ([]byte, error) {
	return []byte("%PDF " + html[:20]), nil
}

type recordingEnqueuer struct {
	jobIDs []string
	err    error
}

func (e *recordingEnqueuer) EnqueueReportBuild(_ context.Context, jobID string) error {
	if e.err != nil {
		return e.err
	}
	e.jobIDs = append(e.jobIDs, jobID)
	return nil
}

func mustAmount(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func sampleSummary(t *testing.T) *transactions.Summary {
	t.Helper()
	return &transactions.Summary{
		BusinessID: "b1",
		Period:     "2026-03",
		Income:     mustAmount(t, "350.30"),
		Expense:    mustAmount(t, "150.50"),
		Net:        mustAmount(t, "199.80"),
		Categories: []transactions.CategoryTotal{
			{Category: "sales", Kind: transactions.KindIncome, Total: mustAmount(t, "350.30")},
			{Category: "rent", Kind: transactions.KindExpense, Total: mustAmount(t, "150.50")},
		},
	}
}

func newArtifactStore(t *testing.T) *RedisArtifactStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisArtifactStore(client, time.Hour)
}

func TestExportCSVLayout(t *testing.T) {
	svc := NewService(newMemoryJobRepo(), &stubSummarizer{summary: sampleSummary(t)},
		stubRenderer{}, newArtifactStore(t), &recordingEnqueuer{})

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf, "b1", "2026-03"))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "# Report: Monthly Summary | Business: b1 | Period: 2026-03"))
	require.Contains(t, out, "Category,Kind,Total")
	require.Contains(t, out, "sales,income,350.30")
	require.Contains(t, out, "rent,expense,150.50")
	require.Contains(t, out, "Totals,net,199.80")
}

func TestQueueExportValidation(t *testing.T) {
	svc := NewService(newMemoryJobRepo(), &stubSummarizer{summary: sampleSummary(t)},
		stubRenderer{}, newArtifactStore(t), &recordingEnqueuer{})
	ctx := context.Background()

	_, err := svc.QueueExport(ctx, CreateJobInput{RequestedBy: "u1", Period: "2026-03", Format: FormatCSV})
	require.Error(t, err, "missing business")

	_, err = svc.QueueExport(ctx, CreateJobInput{BusinessID: "b1", RequestedBy: "u1", Period: "march", Format: FormatCSV})
	require.Error(t, err, "bad period")

	_, err = svc.QueueExport(ctx, CreateJobInput{BusinessID: "b1", RequestedBy: "u1", Period: "2026-03", Format: "xlsx"})
	require.Error(t, err, "bad format")
}

func TestQueueAndBuildExport(t *testing.T) {
	repo := newMemoryJobRepo()
	enqueuer := &recordingEnqueuer{}
	svc := NewService(repo, &stubSummarizer{summary: sampleSummary(t)},
		stubRenderer{}, newArtifactStore(t), enqueuer)
	ctx := context.Background()

	job, err := svc.QueueExport(ctx, CreateJobInput{
		BusinessID: "b1", RequestedBy: "u1", Period: "2026-03", Format: FormatCSV,
	})
	require.NoError(t, err)
	require.Equal(t, JobQueued, job.Status)
	require.Equal(t, []string{job.ID}, enqueuer.jobIDs)

	require.NoError(t, svc.BuildExport(ctx, job.ID))

	done, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, JobDone, done.Status)
	require.Equal(t, "exports/b1/"+job.ID+".csv", done.StorageKey)

	data, contentType, err := svc.DownloadArtifact(ctx, done)
	require.NoError(t, err)
	require.Equal(t, "text/csv", contentType)
	require.Contains(t, string(data), "sales,income,350.30")
}

func TestBuildExportPDF(t *testing.T) {
	repo := newMemoryJobRepo()
	svc := NewService(repo, &stubSummarizer{summary: sampleSummary(t)},
		stubRenderer{}, newArtifactStore(t), &recordingEnqueuer{})
	ctx := context.Background()

	job, err := svc.QueueExport(ctx, CreateJobInput{
		BusinessID: "b1", RequestedBy: "u1", Period: "2026-03", Format: FormatPDF,
	})
	require.NoError(t, err)
	require.NoError(t, svc.BuildExport(ctx, job.ID))

	done, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	data, contentType, err := svc.DownloadArtifact(ctx, done)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", contentType)
	require.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestBuildExportMarksFailure(t *testing.T) {
	repo := newMemoryJobRepo()
	svc := NewService(repo, &stubSummarizer{err: shared.ErrNotFound},
		stubRenderer{}, newArtifactStore(t), &recordingEnqueuer{})
	ctx := context.Background()

	job, err := repo.CreateJob(ctx, CreateJobInput{
		BusinessID: "b1", RequestedBy: "u1", Period: "2026-03", Format: FormatCSV,
	})
	require.NoError(t, err)
	require.Error(t, svc.BuildExport(ctx, job.ID))

	failed, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, JobFailed, failed.Status)
	require.NotEmpty(t, failed.Error)
}

func TestDownloadRequiresDone(t *testing.T) {
	svc := NewService(newMemoryJobRepo(), &stubSummarizer{summary: sampleSummary(t)},
		stubRenderer{}, newArtifactStore(t), &recordingEnqueuer{})
	_, _, err := svc.DownloadArtifact(context.Background(), &Job{Status: JobQueued})
	require.Error(t, err)
}

func TestRenderSummaryHTMLFormatsAmounts(t *testing.T) {
	summary := sampleSummary(t)
	summary.Income = mustAmount(t, "1234567.80")
	html := RenderSummaryHTML(summary)
	require.Contains(t, html, "1,234,567.80")
	require.Contains(t, html, "Monthly Summary 2026-03")
}

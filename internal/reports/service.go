package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/ledgerdesk/ledgerdesk/internal/transactions"
)

// Summarizer aggregates a business's books for one period.
type Summarizer interface {
	Summarize(ctx context.Context, businessID, period string) (*transactions.Summary, error)
}

// Enqueuer submits export builds to the background queue.
type Enqueuer interface {
	EnqueueReportBuild(ctx context.Context, jobID string) error
}

// RepositoryPort defines data access methods for export jobs.
type RepositoryPort interface {
	CreateJob(ctx context.Context, input CreateJobInput) (*Job, error)
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, businessID string) ([]Job, error)
	MarkRunning(ctx context.Context, id string) error
	MarkDone(ctx context.Context, id, storageKey string) error
	MarkFailed(ctx context.Context, id, reason string) error
}

// Service handles report generation and export jobs.
type Service struct {
	repo       RepositoryPort
	summarizer Summarizer
	renderer   PDFRenderer
	artifacts  ArtifactStore
	enqueuer   Enqueuer
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, summarizer Summarizer, renderer PDFRenderer, artifacts ArtifactStore, enqueuer Enqueuer) *Service {
	return &Service{
		repo:       repo,
		summarizer: summarizer,
		renderer:   renderer,
		artifacts:  artifacts,
		enqueuer:   enqueuer,
	}
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// MonthlySummary returns the aggregated summary for one period.
func (s *Service) MonthlySummary(ctx context.Context, businessID, period string) (*transactions.Summary, error) {
	return s.summarizer.Summarize(ctx, businessID, period)
}

// ExportCSV streams the summary as CSV directly to the writer.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, businessID, period string) error {
	summary, err := s.summarizer.Summarize(ctx, businessID, period)
	if err != nil {
		return err
	}
	return WriteSummaryCSV(w, summary)
}

// QueueExport creates an export job and hands it to the queue.
func (s *Service) QueueExport(ctx context.Context, input CreateJobInput) (*Job, error) {
	if input.BusinessID == "" {
		return nil, errors.New("business ID required")
	}
	if input.RequestedBy == "" {
		return nil, errors.New("requester required")
	}
	if !periodPattern.MatchString(input.Period) {
		return nil, errors.New("period must be YYYY-MM")
	}
	if !input.Format.Valid() {
		return nil, errors.New("format must be csv or pdf")
	}
	job, err := s.repo.CreateJob(ctx, input)
	if err != nil {
		return nil, err
	}
	if err := s.enqueuer.EnqueueReportBuild(ctx, job.ID); err != nil {
		_ = s.repo.MarkFailed(ctx, job.ID, "enqueue failed")
		return nil, err
	}
	return job, nil
}

// GetJob fetches a job by ID.
func (s *Service) GetJob(ctx context.Context, id string) (*Job, error) {
	return s.repo.GetJob(ctx, id)
}

// ListJobs lists a business's export jobs.
func (s *Service) ListJobs(ctx context.Context, businessID string) ([]Job, error) {
	return s.repo.ListJobs(ctx, businessID)
}

func artifactKey(job *Job) string {
	return fmt.Sprintf("exports/%s/%s.%s", job.BusinessID, job.ID, job.Format)
}

// BuildExport runs on the worker: renders the artifact and stores it.
func (s *Service) BuildExport(ctx context.Context, jobID string) error {
	if err := s.repo.MarkRunning(ctx, jobID); err != nil {
		return err
	}
	job, err := s.repo.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	summary, err := s.summarizer.Summarize(ctx, job.BusinessID, job.Period)
	if err != nil {
		_ = s.repo.MarkFailed(ctx, jobID, err.Error())
		return err
	}

	var artifact []byte
	switch job.Format {
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteSummaryCSV(&buf, summary); err != nil {
			_ = s.repo.MarkFailed(ctx, jobID, err.Error())
			return err
		}
		artifact = buf.Bytes()
	case FormatPDF:
		artifact, err = s.renderer.RenderHTML(ctx, RenderSummaryHTML(summary))
		if err != nil {
			_ = s.repo.MarkFailed(ctx, jobID, err.Error())
			return err
		}
	default:
		err := errors.New("unknown export format")
		_ = s.repo.MarkFailed(ctx, jobID, err.Error())
		return err
	}

	key := artifactKey(job)
	if err := s.artifacts.Put(ctx, key, artifact); err != nil {
		_ = s.repo.MarkFailed(ctx, jobID, err.Error())
		return err
	}
	return s.repo.MarkDone(ctx, jobID, key)
}

// DownloadArtifact loads the finished artifact of a done job.
func (s *Service) DownloadArtifact(ctx context.Context, job *Job) ([]byte, string, error) {
	if job.Status != JobDone {
		return nil, "", errors.New("export not finished")
	}
	data, err := s.artifacts.Get(ctx, job.StorageKey)
	if err != nil {
		return nil, "", err
	}
	contentType := "text/csv"
	if job.Format == FormatPDF {
		contentType = "application/pdf"
	}
	return data, contentType, nil
}

package reports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Repository provides PostgreSQL backed persistence for export jobs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const jobColumns = `id, business_id, requested_by, period, format, status, storage_key, error, created_at, updated_at`

func scanJob(row pgx.Row) (*Job, error) {
	var job Job
	err := row.Scan(
		&job.ID, &job.BusinessID, &job.RequestedBy, &job.Period, &job.Format,
		&job.Status, &job.StorageKey, &job.Error, &job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// CreateJob inserts a queued export job.
func (r *Repository) CreateJob(ctx context.Context, input CreateJobInput) (*Job, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO report_jobs
		 (id, business_id, requested_by, period, format, status, storage_key, error, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, '', '', NOW(), NOW())
		 RETURNING `+jobColumns,
		uuid.NewString(), input.BusinessID, input.RequestedBy, input.Period,
		input.Format, JobQueued)
	return scanJob(row)
}

// GetJob fetches a job by ID.
func (r *Repository) GetJob(ctx context.Context, id string) (*Job, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM report_jobs WHERE id = $1`, id)
	return scanJob(row)
}

// ListJobs lists a business's export jobs, newest first.
func (r *Repository) ListJobs(ctx context.Context, businessID string) ([]Job, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+jobColumns+`
		 FROM report_jobs WHERE business_id = $1
		 ORDER BY created_at DESC
		 LIMIT 50`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *job)
	}
	return out, rows.Err()
}

// MarkRunning transitions a queued job to running.
func (r *Repository) MarkRunning(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE report_jobs SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = $3`,
		id, JobRunning, JobQueued)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkDone records the storage key of the finished artifact.
func (r *Repository) MarkDone(ctx context.Context, id, storageKey string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE report_jobs SET status = $2, storage_key = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, JobDone, storageKey)
	return err
}

// MarkFailed records the failure reason.
func (r *Repository) MarkFailed(ctx context.Context, id, reason string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE report_jobs SET status = $2, error = $3, updated_at = NOW()
		 WHERE id = $1`,
		id, JobFailed, reason)
	return err
}

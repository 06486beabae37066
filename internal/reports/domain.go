package reports

import "time"

// Format selects the export encoding.
type Format string

// Export formats.
const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// Valid reports whether the format is known.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatPDF
}

// JobStatus tracks an async export build.
type JobStatus string

// Export job statuses.
const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is one async export request.
type Job struct {
	ID          string
	BusinessID  string
	RequestedBy string
	Period      string // YYYY-MM
	Format      Format
	Status      JobStatus
	StorageKey  string
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateJobInput for queuing an export.
type CreateJobInput struct {
	BusinessID  string
	RequestedBy string
	Period      string
	Format      Format
}

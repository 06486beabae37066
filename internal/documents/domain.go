package documents

import "time"

// Document is metadata for a file held in the hosted storage bucket.
// The service never touches file bytes, only the storage key.
type Document struct {
	ID         string
	BusinessID string
	UploadedBy string
	Name       string
	StorageKey string
	MimeType   string
	SizeBytes  int64
	CreatedAt  time.Time
}

// CreateDocumentInput for registering an uploaded file.
type CreateDocumentInput struct {
	BusinessID string
	UploadedBy string
	Name       string
	StorageKey string
	MimeType   string
	SizeBytes  int64
}

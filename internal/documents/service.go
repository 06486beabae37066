package documents

import (
	"context"
	"errors"
	"strings"
)

// Files beyond this size are rejected before the storage key is registered.
const maxDocumentBytes = 25 << 20

// RepositoryPort defines data access methods for documents.
type RepositoryPort interface {
	CreateDocument(ctx context.Context, input CreateDocumentInput) (*Document, error)
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context, businessID string) ([]Document, error)
	DeleteDocument(ctx context.Context, id string) error
}

// Service handles document metadata logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

var allowedMimeTypes = map[string]struct{}{
	"application/pdf": {},
	"image/png":       {},
	"image/jpeg":      {},
	"text/csv":        {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

// RegisterDocument validates and records metadata for an uploaded file.
func (s *Service) RegisterDocument(ctx context.Context, input CreateDocumentInput) (*Document, error) {
	if input.BusinessID == "" {
		return nil, errors.New("business ID required")
	}
	if input.UploadedBy == "" {
		return nil, errors.New("uploader required")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, errors.New("document name required")
	}
	if input.StorageKey == "" {
		return nil, errors.New("storage key required")
	}
	if _, ok := allowedMimeTypes[input.MimeType]; !ok {
		return nil, errors.New("unsupported file type")
	}
	if input.SizeBytes <= 0 || input.SizeBytes > maxDocumentBytes {
		return nil, errors.New("file size out of range")
	}
	return s.repo.CreateDocument(ctx, input)
}

// GetDocument fetches metadata by ID.
func (s *Service) GetDocument(ctx context.Context, id string) (*Document, error) {
	return s.repo.GetDocument(ctx, id)
}

// ListDocuments lists a business's documents.
func (s *Service) ListDocuments(ctx context.Context, businessID string) ([]Document, error) {
	return s.repo.ListDocuments(ctx, businessID)
}

// DeleteDocument removes metadata.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	return s.repo.DeleteDocument(ctx, id)
}

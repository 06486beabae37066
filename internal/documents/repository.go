package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const docColumns = `id, business_id, uploaded_by, name, storage_key, mime_type, size_bytes, created_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var doc Document
	err := row.Scan(
		&doc.ID, &doc.BusinessID, &doc.UploadedBy, &doc.Name,
		&doc.StorageKey, &doc.MimeType, &doc.SizeBytes, &doc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// CreateDocument registers a document. Storage keys are unique per bucket.
func (r *Repository) CreateDocument(ctx context.Context, input CreateDocumentInput) (*Document, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO documents
		 (id, business_id, uploaded_by, name, storage_key, mime_type, size_bytes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 RETURNING `+docColumns,
		uuid.NewString(), input.BusinessID, input.UploadedBy, input.Name,
		input.StorageKey, input.MimeType, input.SizeBytes)
	doc, err := scanDocument(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, httpx.ErrDuplicate
		}
		return nil, err
	}
	return doc, nil
}

// GetDocument fetches metadata by ID.
func (r *Repository) GetDocument(ctx context.Context, id string) (*Document, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+docColumns+` FROM documents WHERE id = $1`, id)
	return scanDocument(row)
}

// ListDocuments lists a business's documents, newest first.
func (r *Repository) ListDocuments(ctx context.Context, businessID string) ([]Document, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+docColumns+`
		 FROM documents WHERE business_id = $1
		 ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, rows.Err()
}

// DeleteDocument removes the metadata row. The hosted platform garbage
// collects orphaned objects from the bucket.
func (r *Repository) DeleteDocument(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

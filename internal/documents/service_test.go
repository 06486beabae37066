package documents

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerdesk/ledgerdesk/internal/platform/httpx"
	"github.com/ledgerdesk/ledgerdesk/internal/shared"
)

type memoryDocRepo struct {
	docs   map[string]*Document
	keys   map[string]struct{}
	nextID int
}

func newMemoryDocRepo() *memoryDocRepo {
	return &memoryDocRepo{docs: make(map[string]*Document), keys: make(map[string]struct{})}
}

func (r *memoryDocRepo) CreateDocument(_ context.Context, input CreateDocumentInput) (*Document, error) {
	if _, dup := r.keys[input.StorageKey]; dup {
		return nil, httpx.ErrDuplicate
	}
	r.nextID++
	doc := &Document{
		ID:         "d" + strconv.Itoa(r.nextID),
		BusinessID: input.BusinessID,
		UploadedBy: input.UploadedBy,
		Name:       input.Name,
		StorageKey: input.StorageKey,
		MimeType:   input.MimeType,
		SizeBytes:  input.SizeBytes,
		CreatedAt:  time.Now(),
	}
	r.docs[doc.ID] = doc
	r.keys[doc.StorageKey] = struct{}{}
	return doc, nil
}

func (r *memoryDocRepo) GetDocument(_ context.Context, id string) (*Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (r *memoryDocRepo) ListDocuments(_ context.Context, businessID string) ([]Document, error) {
	var out []Document
	for _, doc := range r.docs {
		if doc.BusinessID == businessID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (r *memoryDocRepo) DeleteDocument(_ context.Context, id string) error {
	doc, ok := r.docs[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(r.keys, doc.StorageKey)
	delete(r.docs, id)
	return nil
}

func validInput() CreateDocumentInput {
	return CreateDocumentInput{
		BusinessID: "b1",
		UploadedBy: "u1",
		Name:       "invoice-march.pdf",
		StorageKey: "b1/invoice-march.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  4096,
	}
}

func TestRegisterDocument(t *testing.T) {
	svc := NewService(newMemoryDocRepo())
	doc, err := svc.RegisterDocument(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, "invoice-march.pdf", doc.Name)
}

func TestRegisterDocumentValidation(t *testing.T) {
	svc := NewService(newMemoryDocRepo())
	ctx := context.Background()

	cases := map[string]func(*CreateDocumentInput){
		"missing business":   func(in *CreateDocumentInput) { in.BusinessID = "" },
		"missing uploader":   func(in *CreateDocumentInput) { in.UploadedBy = "" },
		"blank name":         func(in *CreateDocumentInput) { in.Name = "   " },
		"missing key":        func(in *CreateDocumentInput) { in.StorageKey = "" },
		"binary executable":  func(in *CreateDocumentInput) { in.MimeType = "application/x-executable" },
		"zero size":          func(in *CreateDocumentInput) { in.SizeBytes = 0 },
		"oversized":          func(in *CreateDocumentInput) { in.SizeBytes = maxDocumentBytes + 1 },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		_, err := svc.RegisterDocument(ctx, in)
		require.Error(t, err, name)
	}
}

func TestRegisterDocumentDuplicateKey(t *testing.T) {
	svc := NewService(newMemoryDocRepo())
	_, err := svc.RegisterDocument(context.Background(), validInput())
	require.NoError(t, err)
	_, err = svc.RegisterDocument(context.Background(), validInput())
	require.ErrorIs(t, err, httpx.ErrDuplicate)
}

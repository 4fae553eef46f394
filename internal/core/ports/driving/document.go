package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

// DocumentService manages documents within projects.
type DocumentService interface {
	// Import reads a file, normalises it and indexes it under a project.
	// Re-importing the same path replaces the earlier document.
	Import(ctx context.Context, projectID, path string) (*domain.Document, error)

	// ImportDir imports every matching file under dir.
	ImportDir(ctx context.Context, projectID, dir string, opts ImportOptions) (*ImportReport, error)

	// ListByProject returns all documents for a project.
	ListByProject(ctx context.Context, projectID string) ([]domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// GetContent returns the normalised text of a document.
	GetContent(ctx context.Context, documentID string) (string, error)

	// GetDetails returns metadata for display.
	GetDetails(ctx context.Context, documentID string) (*DocumentDetails, error)

	// Remove deletes a document, its chunks and its index entries.
	Remove(ctx context.Context, documentID string) error

	// Open opens the document's file in the default application.
	Open(ctx context.Context, documentID string) error

	// Prefetch loads document content into the cache ahead of use.
	// Returns the number of documents loaded.
	Prefetch(ctx context.Context, documentIDs []string) (int, error)
}

// ImportOptions controls directory imports.
type ImportOptions struct {
	// Include lists glob patterns a relative path must match.
	// Empty means every supported file.
	Include []string

	// Exclude lists glob patterns that skip a relative path.
	Exclude []string

	// Progress is called after each file with the number done and the total.
	Progress func(done, total int)
}

// ImportReport summarises a directory import.
type ImportReport struct {
	// Imported holds the imported documents.
	Imported []domain.Document

	// Skipped lists relative paths skipped by patterns or type.
	Skipped []string

	// Failed maps relative paths to the error that stopped their import.
	Failed map[string]error
}

// DocumentDetails provides a standardised view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// ProjectID links to the parent project.
	ProjectID string

	// ProjectName is the human-readable project name.
	ProjectName string

	// Title is the document title.
	Title string

	// URI is the original location.
	URI string

	// ChunkCount is the number of chunks.
	ChunkCount int

	// Size is the content length in bytes.
	Size int

	// CreatedAt is when the document was first imported.
	CreatedAt time.Time

	// UpdatedAt is when the document was last imported.
	UpdatedAt time.Time

	// Metadata contains flattened key-value pairs for display.
	Metadata map[string]string
}

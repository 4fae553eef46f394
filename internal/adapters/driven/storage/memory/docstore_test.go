package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	now := time.Now()
	doc := &domain.Document{
		ID:        "doc-1",
		ProjectID: "prj-1",
		URI:       "/specs/03-concrete.md",
		Title:     "03 Concrete",
		Content:   "Cast-in-place concrete.",
		Metadata:  map[string]any{"mime_type": "text/markdown"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, store.SaveDocument(ctx, doc))

	saved, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, *doc, *saved)

	byURI, err := store.GetDocumentByURI(ctx, "prj-1", "/specs/03-concrete.md")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", byURI.ID)

	_, err = store.GetDocumentByURI(ctx, "prj-2", "/specs/03-concrete.md")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Chunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{
		{ID: "c2", DocumentID: "doc-1", Content: "second", Position: 1, Offset: 6},
		{ID: "c1", DocumentID: "doc-1", Content: "first ", Position: 0},
		{ID: "x1", DocumentID: "doc-2", Content: "other", Position: 0},
	}))

	chunks, err := store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "c1", chunks[0].ID)
	assert.Equal(t, "c2", chunks[1].ID)

	chunk, err := store.GetChunk(ctx, "x1")
	require.NoError(t, err)
	assert.Equal(t, "doc-2", chunk.DocumentID)

	// Saving again replaces the document's chunks.
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{{ID: "c3", DocumentID: "doc-1"}}))
	chunks, err = store.GetChunks(ctx, "doc-1")
	require.NoError(t, err)
	assert.Len(t, chunks, 1)

	_, err = store.GetChunk(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	none, err := store.GetChunks(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDocumentStore_DeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{ID: "doc-1", ProjectID: "prj-1"}))
	require.NoError(t, store.SaveChunks(ctx, []domain.Chunk{{ID: "c1", DocumentID: "doc-1"}}))

	require.NoError(t, store.DeleteDocument(ctx, "doc-1"))

	_, err := store.GetDocument(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.GetChunk(ctx, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is not an error.
	assert.NoError(t, store.DeleteDocument(ctx, "doc-1"))
}

func TestDocumentStore_ListDocuments(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	for _, d := range []domain.Document{
		{ID: "d1", ProjectID: "prj-1", Title: "RFI 012"},
		{ID: "d2", ProjectID: "prj-1", Title: "RFI 003"},
		{ID: "d3", ProjectID: "prj-2", Title: "Site report"},
	} {
		require.NoError(t, store.SaveDocument(ctx, &d))
	}

	docs, err := store.ListDocuments(ctx, "prj-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "RFI 003", docs[0].Title)
	assert.Equal(t, "RFI 012", docs[1].Title)

	empty, err := store.ListDocuments(ctx, "prj-9")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestDocumentStore_Concurrency(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := string(rune('a' + i))
			_ = store.SaveDocument(ctx, &domain.Document{ID: id, ProjectID: "prj"})
			_, _ = store.GetDocument(ctx, id)
			_, _ = store.ListDocuments(ctx, "prj")
		}()
	}
	wg.Wait()

	docs, err := store.ListDocuments(ctx, "prj")
	require.NoError(t, err)
	assert.Len(t, docs, 20)
}

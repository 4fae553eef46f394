package bleve

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

func seedEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewMemOnly()
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })

	ctx := context.Background()
	for _, c := range []domain.Chunk{
		{ID: "c-1", DocumentID: "doc-1", Content: "Concrete shall reach 32 MPa at 28 days."},
		{ID: "c-2", DocumentID: "doc-2", Content: "Check the slab edge detail at grid C before the pour."},
		{ID: "c-3", DocumentID: "doc-3", Content: "Edge protection to the slab perimeter is required."},
		{ID: "c-4", DocumentID: "doc-4", Content: "Steel shop drawings for the canopy."},
	} {
		require.NoError(t, e.Index(ctx, c))
	}
	return e
}

func hitIDs(t *testing.T, e *Engine, q string, limit int) []string {
	t.Helper()
	hits, err := e.Search(context.Background(), q, limit)
	require.NoError(t, err)
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		assert.Positive(t, h.Score)
		ids = append(ids, h.ChunkID)
	}
	return ids
}

func TestEngine_Search(t *testing.T) {
	e := seedEngine(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "single word", query: "concrete", want: []string{"c-1"}},
		{name: "case insensitive", query: "STEEL", want: []string{"c-4"}},
		{name: "any word matches", query: "concrete canopy", want: []string{"c-1", "c-4"}},
		{name: "no match", query: "asbestos", want: []string{}},
		{name: "blank", query: "   ", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ElementsMatch(t, tt.want, hitIDs(t, e, tt.query, 10))
		})
	}
}

func TestEngine_Search_PhraseRanksFirst(t *testing.T) {
	e := seedEngine(t)

	ids := hitIDs(t, e, `"slab edge"`, 10)
	assert.Equal(t, []string{"c-2"}, ids)

	ids = hitIDs(t, e, `"slab edge" perimeter`, 10)
	assert.ElementsMatch(t, []string{"c-2", "c-3"}, ids)
}

func TestEngine_Search_Limit(t *testing.T) {
	e := seedEngine(t)

	assert.Len(t, hitIDs(t, e, "slab edge concrete steel", 2), 2)
	assert.Empty(t, hitIDs(t, e, "concrete", 0))
}

func TestEngine_IndexReplacesAndDeletes(t *testing.T) {
	e := seedEngine(t)
	ctx := context.Background()

	require.NoError(t, e.Index(ctx, domain.Chunk{ID: "c-1", DocumentID: "doc-1", Content: "Formwork stripping times."}))
	assert.Empty(t, hitIDs(t, e, "concrete", 10))
	assert.Equal(t, []string{"c-1"}, hitIDs(t, e, "formwork", 10))

	require.NoError(t, e.Delete(ctx, "c-1"))
	require.NoError(t, e.Delete(ctx, "never-indexed"))
	assert.Empty(t, hitIDs(t, e, "formwork", 10))

	n, err := e.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	require.ErrorIs(t, e.Index(ctx, domain.Chunk{Content: "x"}), domain.ErrInvalidInput)
}

func TestEngine_CancelledContext(t *testing.T) {
	e := seedEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, e.Index(ctx, domain.Chunk{ID: "c-9", Content: "x"}), context.Canceled)
	require.ErrorIs(t, e.Delete(ctx, "c-1"), context.Canceled)
}

func TestOpen_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bleve")
	ctx := context.Background()

	e, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, e.Index(ctx, domain.Chunk{ID: "c-1", DocumentID: "doc-1", Content: "Rebar cover at footings."}))
	require.NoError(t, e.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	hits, err := reopened.Search(ctx, "rebar", 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "c-1", hits[0].ChunkID)
}

func TestSplitQuery(t *testing.T) {
	tests := []struct {
		in      string
		phrases []string
		words   []string
	}{
		{`slab edge`, nil, []string{"slab", "edge"}},
		{`"slab edge" grid`, []string{"slab edge"}, []string{"grid"}},
		{`a "b c`, nil, []string{"a", "b", "c"}},
		{`"x" "y`, []string{"x"}, []string{"y"}},
		{`""  "  "`, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			phrases, words := splitQuery(tt.in)
			assert.Equal(t, tt.phrases, phrases)
			assert.Equal(t, tt.words, words)
		})
	}
}

func TestOpen_LockedIndexFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bleve")
	first, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Close() })

	done := make(chan error, 1)
	go func() {
		second, err := Open(path)
		if err == nil {
			_ = second.Close()
		}
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrSearchUnavailable)
	case <-time.After(10 * time.Second):
		t.Fatal("second Open blocked on the index lock")
	}
}

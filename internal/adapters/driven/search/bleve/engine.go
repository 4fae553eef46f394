// Package bleve implements the keyword SearchEngine over a bleve index.
package bleve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.SearchEngine = (*Engine)(nil)

// Indexed field names.
const (
	fieldContent    = "content"
	fieldDocumentID = "document_id"
)

// phraseBoost ranks quoted phrases above loose words.
const phraseBoost = 2.0

// lockTimeout bounds the wait for an index held open by another process.
const lockTimeout = "1s"

// Engine indexes chunk content for keyword search.
type Engine struct {
	index bleve.Index
	path  string
}

// NewMemOnly creates an engine whose index lives only in memory.
func NewMemOnly() (*Engine, error) {
	index, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}
	return &Engine{index: index}, nil
}

// Open opens the on-disk index at path, creating it when missing. An index
// locked by another process fails with domain.ErrSearchUnavailable after
// lockTimeout instead of blocking.
func Open(path string) (*Engine, error) {
	index, err := bleve.OpenUsing(path, runtimeConfig())
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		logger.Debug("Creating search index at %s", path)
		index, err = bleve.NewUsing(path, buildMapping(),
			bleve.Config.DefaultIndexType, bleve.Config.DefaultKVStore, runtimeConfig())
	}
	if err != nil {
		return nil, fmt.Errorf("open bleve index %s (is another scopeiq running?): %w: %w",
			path, domain.ErrSearchUnavailable, err)
	}
	return &Engine{index: index, path: path}, nil
}

func runtimeConfig() map[string]interface{} {
	return map[string]interface{}{"bolt_timeout": lockTimeout}
}

// buildMapping indexes chunk content with the standard analyser and keeps
// the owning document ID as an exact keyword.
func buildMapping() *mapping.IndexMappingImpl {
	indexMapping := bleve.NewIndexMapping()

	contentMapping := bleve.NewTextFieldMapping()
	contentMapping.Analyzer = "standard"
	contentMapping.Store = false
	contentMapping.IncludeTermVectors = true

	docIDMapping := bleve.NewKeywordFieldMapping()
	docIDMapping.Store = true

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(fieldContent, contentMapping)
	docMapping.AddFieldMappingsAt(fieldDocumentID, docIDMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}

// Index adds or replaces a chunk.
func (e *Engine) Index(ctx context.Context, chunk domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if chunk.ID == "" {
		return fmt.Errorf("chunk id is required: %w", domain.ErrInvalidInput)
	}
	doc := map[string]any{
		fieldContent:    chunk.Content,
		fieldDocumentID: chunk.DocumentID,
	}
	if err := e.index.Index(chunk.ID, doc); err != nil {
		return fmt.Errorf("index chunk %s: %w", chunk.ID, err)
	}
	return nil
}

// Delete removes a chunk. Unknown IDs are ignored.
func (e *Engine) Delete(ctx context.Context, chunkID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := e.index.Delete(chunkID); err != nil {
		return fmt.Errorf("delete chunk %s: %w", chunkID, err)
	}
	return nil
}

// Search returns up to limit chunk hits ordered by score. Quoted phrases
// must match as phrases; any phrase or word may satisfy the query.
func (e *Engine) Search(ctx context.Context, queryStr string, limit int) ([]driven.SearchHit, error) {
	q := buildQuery(queryStr)
	if q == nil || limit <= 0 {
		return []driven.SearchHit{}, nil
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	res, err := e.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", queryStr, err)
	}

	hits := make([]driven.SearchHit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, driven.SearchHit{ChunkID: h.ID, Score: h.Score})
	}
	logger.Debug("bleve: %q matched %d of %d chunks", queryStr, len(hits), res.Total)
	return hits, nil
}

// Count returns the number of indexed chunks.
func (e *Engine) Count() (uint64, error) {
	return e.index.DocCount()
}

// Close releases the index.
func (e *Engine) Close() error {
	return e.index.Close()
}

// buildQuery turns free text into a disjunction of phrase and word
// queries on the content field. It returns nil when nothing is searchable.
func buildQuery(queryStr string) query.Query {
	phrases, words := splitQuery(queryStr)

	var clauses []query.Query
	for _, p := range phrases {
		pq := bleve.NewMatchPhraseQuery(p)
		pq.SetField(fieldContent)
		pq.SetBoost(phraseBoost)
		clauses = append(clauses, pq)
	}
	for _, w := range words {
		mq := bleve.NewMatchQuery(w)
		mq.SetField(fieldContent)
		clauses = append(clauses, mq)
	}

	if len(clauses) == 0 {
		return nil
	}
	return bleve.NewDisjunctionQuery(clauses...)
}

// splitQuery separates double-quoted phrases from the remaining words.
// An unmatched quote is treated as a separator.
func splitQuery(s string) (phrases, words []string) {
	parts := strings.Split(s, `"`)
	closed := len(parts)%2 == 1
	for i, part := range parts {
		inQuote := i%2 == 1 && (closed || i < len(parts)-1)
		if inQuote {
			if p := strings.TrimSpace(part); p != "" {
				phrases = append(phrases, p)
			}
			continue
		}
		words = append(words, strings.Fields(part)...)
	}
	return phrases, words
}

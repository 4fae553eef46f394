package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driven"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scopeiq-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// systemClock reads the wall clock.
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// DocumentService imports local files into projects and serves them back.
type DocumentService struct {
	docStore     driven.DocumentStore
	projectStore driven.ProjectStore
	normalisers  driven.NormaliserRegistry
	pipeline     driven.PostProcessorPipeline
	searchIndex  driven.SearchEngine
	cache        driven.ContentCache
	clock        driven.Clock
}

// NewDocumentService creates a new document service. The pipeline may be
// nil, in which case every document is stored as a single chunk.
func NewDocumentService(
	docStore driven.DocumentStore,
	projectStore driven.ProjectStore,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
) *DocumentService {
	return &DocumentService{
		docStore:     docStore,
		projectStore: projectStore,
		normalisers:  normalisers,
		pipeline:     pipeline,
		clock:        systemClock{},
	}
}

// SetSearchEngine sets the index that imported chunks are added to.
func (s *DocumentService) SetSearchEngine(engine driven.SearchEngine) {
	s.searchIndex = engine
}

// SetContentCache sets the cache used by GetContent and Prefetch.
func (s *DocumentService) SetContentCache(cache driven.ContentCache) {
	s.cache = cache
}

// SetClock sets the clock used for document timestamps.
func (s *DocumentService) SetClock(clock driven.Clock) {
	s.clock = clock
}

// Import reads the file at path, normalises it, chunks it and indexes it
// under projectID. A file already imported into the project keeps its
// document ID and creation time.
func (s *DocumentService) Import(ctx context.Context, projectID, path string) (*domain.Document, error) {
	if s.docStore == nil || s.normalisers == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.checkProject(ctx, projectID); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, domain.ErrInvalidInput)
	}

	mimeType, err := detectMIMEType(abs)
	if err != nil {
		return nil, err
	}
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	logger.Section("Import")
	logger.Debug("Importing %s as %s (%d bytes)", abs, mimeType, len(content))

	result, err := s.normalisers.Normalise(ctx, &domain.RawDocument{
		ProjectID: projectID,
		URI:       abs,
		MIMEType:  mimeType,
		Content:   content,
		Metadata: map[string]any{
			"file_name": info.Name(),
			"size":      info.Size(),
			"modified":  info.ModTime().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("normalise %s: %w", path, err)
	}

	doc := result.Document
	now := s.clock.Now()
	doc.ProjectID = projectID
	doc.CreatedAt = now
	doc.UpdatedAt = now

	existing, err := s.docStore.GetDocumentByURI(ctx, projectID, abs)
	switch {
	case err == nil:
		doc.ID = existing.ID
		doc.CreatedAt = existing.CreatedAt
		if err := s.purge(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("replace %s: %w", path, err)
		}
		logger.Debug("Replacing document %s", existing.ID)
	case errors.Is(err, domain.ErrNotFound):
		doc.ID = uuid.NewString()
	default:
		return nil, fmt.Errorf("lookup %s: %w", path, err)
	}

	chunks, err := s.chunk(ctx, &doc)
	if err != nil {
		return nil, fmt.Errorf("chunk %s: %w", path, err)
	}

	if err := s.docStore.SaveDocument(ctx, &doc); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
		return nil, fmt.Errorf("save chunks: %w", err)
	}
	if s.searchIndex != nil {
		for _, c := range chunks {
			if err := s.searchIndex.Index(ctx, c); err != nil {
				return nil, fmt.Errorf("index chunk %s: %w", c.ID, err)
			}
		}
	}

	logger.Info("Imported %q: %d chunks", doc.Title, len(chunks))
	return &doc, nil
}

func (s *DocumentService) chunk(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if s.pipeline != nil {
		return s.pipeline.Process(ctx, doc)
	}
	if doc.Content == "" {
		return nil, nil
	}
	return []domain.Chunk{{
		ID:         uuid.NewString(),
		DocumentID: doc.ID,
		Content:    doc.Content,
	}}, nil
}

func (s *DocumentService) checkProject(ctx context.Context, projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return fmt.Errorf("project id is required: %w", domain.ErrInvalidInput)
	}
	if s.projectStore == nil {
		return nil
	}
	if _, err := s.projectStore.Get(ctx, projectID); err != nil {
		return fmt.Errorf("project %s: %w", projectID, err)
	}
	return nil
}

// ImportDir imports every supported file under dir. Hidden files and
// directories are skipped. Patterns are matched against the slash
// separated path relative to dir; a pattern without a slash also matches
// the file name alone. A file failing to import is recorded and the walk
// continues.
func (s *DocumentService) ImportDir(
	ctx context.Context, projectID, dir string, opts driving.ImportOptions,
) (*driving.ImportReport, error) {
	if s.docStore == nil || s.normalisers == nil {
		return nil, domain.ErrNotImplemented
	}
	if err := s.checkProject(ctx, projectID); err != nil {
		return nil, err
	}

	include, err := compilePatterns(opts.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(opts.Exclude)
	if err != nil {
		return nil, err
	}

	supported := make(map[string]bool)
	for _, t := range s.normalisers.SupportedMIMETypes() {
		supported[t] = true
	}

	report := &driving.ImportReport{Failed: make(map[string]error)}
	var files []string

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		mimeType, err := detectMIMEType(path)
		switch {
		case err != nil, !supported[mimeType]:
			report.Skipped = append(report.Skipped, rel)
		case len(include) > 0 && !matchAny(include, rel):
			report.Skipped = append(report.Skipped, rel)
		case matchAny(exclude, rel):
			report.Skipped = append(report.Skipped, rel)
		default:
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	logger.Debug("ImportDir %s: %d files, %d skipped", dir, len(files), len(report.Skipped))

	for i, rel := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		doc, err := s.Import(ctx, projectID, filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			logger.Warn("Import %s failed: %v", rel, err)
			report.Failed[rel] = err
		} else {
			report.Imported = append(report.Imported, *doc)
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(files))
		}
	}

	return report, nil
}

type pattern struct {
	glob     glob.Glob
	baseOnly bool
}

func compilePatterns(patterns []string) ([]pattern, error) {
	compiled := make([]pattern, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, domain.ErrInvalidInput)
		}
		compiled = append(compiled, pattern{glob: g, baseOnly: !strings.Contains(p, "/")})
	}
	return compiled, nil
}

func matchAny(patterns []pattern, rel string) bool {
	base := rel[strings.LastIndex(rel, "/")+1:]
	for _, p := range patterns {
		if p.glob.Match(rel) || (p.baseOnly && p.glob.Match(base)) {
			return true
		}
	}
	return false
}

// ListByProject returns all documents for a project.
func (s *DocumentService) ListByProject(ctx context.Context, projectID string) ([]domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.ListDocuments(ctx, projectID)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.docStore.GetDocument(ctx, documentID)
}

// GetContent returns the normalised text of a document, served from the
// content cache when one is configured.
func (s *DocumentService) GetContent(ctx context.Context, documentID string) (string, error) {
	if s.docStore == nil {
		return "", domain.ErrNotImplemented
	}
	if s.cache != nil {
		if content, ok := s.cache.Get(documentID); ok {
			return content, nil
		}
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		s.cache.Set(documentID, doc.Content)
	}
	return doc.Content, nil
}

// Prefetch warms the content cache. Missing documents are reported in the
// returned error while the rest are still loaded.
func (s *DocumentService) Prefetch(ctx context.Context, documentIDs []string) (int, error) {
	if s.docStore == nil {
		return 0, domain.ErrNotImplemented
	}

	var (
		loaded int
		errs   []error
	)
	for _, id := range documentIDs {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		if _, err := s.GetContent(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("prefetch %s: %w", id, err))
			continue
		}
		loaded++
	}
	return loaded, errors.Join(errs...)
}

// GetDetails returns document metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, documentID string) (*driving.DocumentDetails, error) {
	if s.docStore == nil {
		return nil, domain.ErrNotImplemented
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	var projectName string
	if s.projectStore != nil {
		if p, err := s.projectStore.Get(ctx, doc.ProjectID); err == nil {
			projectName = p.DisplayName()
		}
	}

	chunkCount := 0
	if chunks, err := s.docStore.GetChunks(ctx, documentID); err == nil {
		chunkCount = len(chunks)
	}

	metadata := make(map[string]string, len(doc.Metadata))
	for key, value := range doc.Metadata {
		metadata[key] = fmt.Sprintf("%v", value)
	}

	return &driving.DocumentDetails{
		ID:          doc.ID,
		ProjectID:   doc.ProjectID,
		ProjectName: projectName,
		Title:       doc.Title,
		URI:         doc.URI,
		ChunkCount:  chunkCount,
		Size:        len(doc.Content),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
		Metadata:    metadata,
	}, nil
}

// Remove deletes a document, its chunks and its index entries.
func (s *DocumentService) Remove(ctx context.Context, documentID string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	if _, err := s.docStore.GetDocument(ctx, documentID); err != nil {
		return err
	}
	return s.purge(ctx, documentID)
}

// purge removes everything stored for a document.
func (s *DocumentService) purge(ctx context.Context, documentID string) error {
	if s.searchIndex != nil {
		chunks, err := s.docStore.GetChunks(ctx, documentID)
		if err != nil {
			return fmt.Errorf("get chunks: %w", err)
		}
		for _, c := range chunks {
			if err := s.searchIndex.Delete(ctx, c.ID); err != nil {
				return fmt.Errorf("unindex chunk %s: %w", c.ID, err)
			}
		}
	}
	if s.cache != nil {
		s.cache.Delete(documentID)
	}
	return s.docStore.DeleteDocument(ctx, documentID)
}

// Open opens the document's file in the default application.
func (s *DocumentService) Open(ctx context.Context, documentID string) error {
	if s.docStore == nil {
		return domain.ErrNotImplemented
	}
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	return openURL(openableTarget(doc.URI))
}

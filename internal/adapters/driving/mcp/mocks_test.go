package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/render"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
	"github.com/custodia-labs/scopeiq-cli/internal/core/services"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results []domain.SearchResult
	err     error

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return m.results, m.err
}

// mockProjectService is a mock implementation of driving.ProjectService.
type mockProjectService struct {
	projects []domain.Project
	err      error
}

func (m *mockProjectService) Add(_ context.Context, p domain.Project) (*domain.Project, error) {
	return &p, m.err
}

func (m *mockProjectService) Get(_ context.Context, id string) (*domain.Project, error) {
	for i := range m.projects {
		if m.projects[i].ID == id {
			return &m.projects[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockProjectService) List(_ context.Context) ([]domain.Project, error) {
	return m.projects, m.err
}

func (m *mockProjectService) Update(_ context.Context, _ domain.Project) error {
	return m.err
}

func (m *mockProjectService) Remove(_ context.Context, _ string) error {
	return m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	content   string
	details   *driving.DocumentDetails
	err       error

	lastProjectID string
}

func (m *mockDocumentService) Import(_ context.Context, _, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) ImportDir(
	_ context.Context, _, _ string, _ driving.ImportOptions,
) (*driving.ImportReport, error) {
	return &driving.ImportReport{}, m.err
}

func (m *mockDocumentService) ListByProject(_ context.Context, projectID string) ([]domain.Document, error) {
	m.lastProjectID = projectID
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) GetContent(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Open(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentService) Prefetch(_ context.Context, ids []string) (int, error) {
	return len(ids), m.err
}

// newHighlightService returns a real highlight service with the plain and
// html renderers.
func newHighlightService() *services.HighlightService {
	return services.NewHighlightService(render.NewPlain(), render.NewHTML())
}

// newTestServer builds a server, filling in the required ports that
// ports leaves empty.
func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Search == nil {
		ports.Search = &mockSearchService{}
	}
	if ports.Highlight == nil {
		ports.Highlight = newHighlightService()
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

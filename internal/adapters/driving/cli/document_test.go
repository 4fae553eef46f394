package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

type openRecorder struct {
	driving.DocumentService
	opened []string
	err    error
}

func (o *openRecorder) Open(_ context.Context, id string) error {
	o.opened = append(o.opened, id)
	return o.err
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, c := range documentCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"import", "list", "show", "content", "remove", "open"}, names)
}

func TestDocumentCmd_ArgCounts(t *testing.T) {
	testCases := []struct {
		args []string
		want string
	}{
		{[]string{"document", "import", "p1"}, "accepts 2 arg(s)"},
		{[]string{"document", "list"}, "accepts 1 arg(s)"},
		{[]string{"document", "show"}, "accepts 1 arg(s)"},
		{[]string{"document", "content"}, "accepts 1 arg(s)"},
		{[]string{"document", "remove"}, "accepts 1 arg(s)"},
		{[]string{"document", "open"}, "accepts 1 arg(s)"},
	}

	for _, tc := range testCases {
		t.Run(tc.args[1], func(t *testing.T) {
			_, err := executeCommand(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDocumentImportCmd_File(t *testing.T) {
	svc := setupTestServices(t)
	projectID := svc.addProject(t, "Harbour Tower")
	dir := writeTree(t, map[string]string{"rfi-012.txt": "Confirm slab edge detail at grid C."})

	out, err := executeCommand(t, "document", "import", projectID, filepath.Join(dir, "rfi-012.txt"))

	require.NoError(t, err)
	assert.Contains(t, out, "Imported ")
	assert.Contains(t, out, "  ID: ")

	docs, err := svc.docs.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestDocumentImportCmd_Directory(t *testing.T) {
	svc := setupTestServices(t)
	projectID := svc.addProject(t, "Harbour Tower")
	dir := writeTree(t, map[string]string{
		"specs/09-21-16.md":   "# Gypsum Board\n\nProvide gypsum board assemblies.",
		"rfis/rfi-001.txt":    "Confirm board thickness.",
		"drafts/old.txt":      "Superseded.",
		".hidden/secret.txt":  "Not imported.",
		"drawings/plan.bin":   "\x00\x01\x02binary",
		"specs/.DS_Store.txt": "Not imported either.",
	})

	out, err := executeCommand(t, "document", "import", projectID, dir, "--exclude", "drafts/**", "--no-progress")

	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 documents, skipped 2, failed 0")

	docs, err := svc.docs.ListByProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestDocumentImportCmd_Errors(t *testing.T) {
	svc := setupTestServices(t)
	projectID := svc.addProject(t, "Harbour Tower")

	t.Run("missing path", func(t *testing.T) {
		_, err := executeCommand(t, "document", "import", projectID, filepath.Join(t.TempDir(), "nope"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown project", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"a.txt": "text"})
		_, err := executeCommand(t, "document", "import", "missing", filepath.Join(dir, "a.txt"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("bad pattern", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"a.txt": "text"})
		_, err := executeCommand(t, "document", "import", projectID, dir, "--include", "[")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDocumentListShowContentRemove(t *testing.T) {
	svc := setupTestServices(t)
	projectID := svc.addProject(t, "Harbour Tower")
	doc := svc.importText(t, projectID, "rfi-012.txt", "Confirm slab edge detail at grid C.")

	out, err := executeCommand(t, "document", "list", projectID)
	require.NoError(t, err)
	assert.Contains(t, out, doc.ID)
	assert.Contains(t, out, "Title: "+doc.Title)
	assert.Contains(t, out, "Total: 1 documents")

	out, err = executeCommand(t, "document", "show", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Document: "+doc.ID)
	assert.Contains(t, out, "Project:  Harbour Tower ("+projectID+")")
	assert.Contains(t, out, "Chunks:   1")

	out, err = executeCommand(t, "document", "content", doc.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Confirm slab edge detail at grid C.")

	out, err = executeCommand(t, "document", "remove", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Document "+doc.ID+" removed.\n", out)

	out, err = executeCommand(t, "document", "list", projectID)
	require.NoError(t, err)
	assert.Equal(t, "No documents found for project: "+projectID+"\n", out)

	_, err = executeCommand(t, "document", "show", doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentOpenCmd(t *testing.T) {
	setupTestServices(t)
	opener := &openRecorder{}
	documentService = opener

	out, err := executeCommand(t, "document", "open", "doc-1")

	require.NoError(t, err)
	assert.Equal(t, []string{"doc-1"}, opener.opened)
	assert.Contains(t, out, "Opened document doc-1")

	opener.err = domain.ErrNotFound
	_, err = executeCommand(t, "document", "open", "doc-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentCmd_ServiceNotConfigured(t *testing.T) {
	SetServices(nil)

	for _, args := range [][]string{
		{"document", "import", "p1", "."},
		{"document", "list", "p1"},
		{"document", "show", "d1"},
		{"document", "content", "d1"},
		{"document", "remove", "d1"},
		{"document", "open", "d1"},
	} {
		_, err := executeCommand(t, args...)
		require.Error(t, err, args[1])
		assert.Contains(t, err.Error(), "document service not configured")
	}
}

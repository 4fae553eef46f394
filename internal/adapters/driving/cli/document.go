package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scopeiq-cli/internal/core/ports/driving"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `Import, list, view, open or remove the documents of a project.`,
}

var documentImportCmd = &cobra.Command{
	Use:   "import [project-id] [path]",
	Short: "Import a file or directory into a project",
	Long: heredoc.Doc(`
		Import a file, or every supported file under a directory, into a
		project. Re-importing a path replaces the stored document and keeps
		its ID.

		Supported formats: plain text, Markdown, HTML, DOCX and EML.
		Hidden files and directories are ignored.
	`),
	Example: heredoc.Doc(`
		scopeiq document import <project-id> ./specs/03-30-00.md
		scopeiq document import <project-id> ./specs --include '*.md' --exclude 'drafts/**'
	`),
	Args: cobra.ExactArgs(2),
	RunE: runDocumentImport,
}

var documentListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List documents for a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show document details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentRemoveCmd = &cobra.Command{
	Use:   "remove [doc-id]",
	Short: "Remove a document from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentRemove,
}

var documentOpenCmd = &cobra.Command{
	Use:   "open [doc-id]",
	Short: "Open document in default application",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentOpen,
}

func init() {
	documentImportCmd.Flags().StringSlice("include", nil, "only import paths matching these globs")
	documentImportCmd.Flags().StringSlice("exclude", nil, "skip paths matching these globs")
	documentImportCmd.Flags().Bool("no-progress", false, "hide the progress bar")

	documentCmd.AddCommand(documentImportCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentRemoveCmd)
	documentCmd.AddCommand(documentOpenCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentImport(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	projectID, path := args[0], args[1]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to import: %w", err)
	}

	if !info.IsDir() {
		doc, err := documentService.Import(cmd.Context(), projectID, path)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		cmd.Printf("Imported %s\n", doc.Title)
		cmd.Printf("  ID: %s\n", doc.ID)
		return nil
	}

	include, _ := cmd.Flags().GetStringSlice("include")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	quiet, _ := cmd.Flags().GetBool("no-progress")

	opts := driving.ImportOptions{Include: include, Exclude: exclude}
	var bar *progressbar.ProgressBar
	if !quiet {
		opts.Progress = func(done, total int) {
			if bar == nil {
				bar = newImportBar(cmd.ErrOrStderr(), total)
			}
			_ = bar.Set(done)
		}
	}

	report, err := documentService.ImportDir(cmd.Context(), projectID, path, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if report != nil {
		printImportReport(cmd, report)
	}
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}
	if report != nil && len(report.Failed) > 0 && len(report.Imported) == 0 {
		return fmt.Errorf("no documents imported from %s", path)
	}
	return nil
}

func newImportBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Importing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func printImportReport(cmd *cobra.Command, report *driving.ImportReport) {
	cmd.Printf("Imported %d documents, skipped %d, failed %d\n",
		len(report.Imported), len(report.Skipped), len(report.Failed))

	if len(report.Failed) == 0 {
		return
	}
	paths := make([]string, 0, len(report.Failed))
	for p := range report.Failed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	cmd.Println()
	cmd.Println("Failures:")
	for _, p := range paths {
		cmd.Printf("  %s: %v\n", p, report.Failed[p])
	}
}

func runDocumentList(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	projectID := args[0]

	docs, err := documentService.ListByProject(cmd.Context(), projectID)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents found for project: %s\n", projectID)
		return nil
	}

	cmd.Printf("Documents for project %s:\n\n", projectID)
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		if docs[i].URI != "" {
			cmd.Printf("    URI: %s\n", docs[i].URI)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	details, err := documentService.GetDetails(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	cmd.Printf("Document: %s\n\n", details.ID)
	cmd.Printf("  Title:    %s\n", details.Title)
	cmd.Printf("  Project:  %s (%s)\n", details.ProjectName, details.ProjectID)
	cmd.Printf("  URI:      %s\n", details.URI)
	cmd.Printf("  Chunks:   %d\n", details.ChunkCount)
	cmd.Printf("  Size:     %d bytes\n", details.Size)
	cmd.Printf("  Created:  %s\n", details.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("  Updated:  %s\n", details.UpdatedAt.Format("2006-01-02 15:04:05"))

	if len(details.Metadata) > 0 {
		keys := make([]string, 0, len(details.Metadata))
		for k := range details.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cmd.Println("\n  Metadata:")
		for _, k := range keys {
			cmd.Printf("    %s: %s\n", k, details.Metadata[k])
		}
	}

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	content, err := documentService.GetContent(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document content: %w", err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentRemove(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Remove(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	cmd.Printf("Document %s removed.\n", args[0])
	return nil
}

func runDocumentOpen(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Open(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}

	cmd.Printf("Opened document %s in default application.\n", args[0])
	return nil
}

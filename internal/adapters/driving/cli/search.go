package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	xhtml "golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/scopeiq-cli/internal/adapters/driven/render"
	"github.com/custodia-labs/scopeiq-cli/internal/core/domain"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: heredoc.Doc(`
		Search every imported document and print the best matching chunks
		with the query terms highlighted in context.

		Quoted phrases are matched as a unit and rank above loose words.
	`),
	Example: heredoc.Doc(`
		scopeiq search '"fire rating" gypsum'
		scopeiq search waterproofing -p <project-id> -n 5
		scopeiq search rebar --format json
		scopeiq search "curtain wall" --copy 1
	`),
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.IntP("limit", "n", 0, "maximum number of results (default from settings)")
	f.Int("offset", 0, "number of results to skip")
	f.StringSliceP("project", "p", nil, "restrict to project IDs")
	f.String("format", "", "output format: ansi, html, plain, json, yaml")
	f.Bool("case-sensitive", false, "match case exactly in snippets")
	f.Bool("whole-words", false, "only highlight whole words")
	f.Int("max-matches", 0, "maximum highlights per result (default from settings)")
	f.Int("copy", 0, "copy the snippet of result N to the clipboard")
	f.Int("open", 0, "open the document of result N")
	rootCmd.AddCommand(searchCmd)
}

// searchResultOutput is the structured json/yaml form of a result.
type searchResultOutput struct {
	Rank       int              `json:"rank" yaml:"rank"`
	DocumentID string           `json:"document_id" yaml:"document_id"`
	ChunkID    string           `json:"chunk_id" yaml:"chunk_id"`
	Title      string           `json:"title" yaml:"title"`
	URI        string           `json:"uri" yaml:"uri"`
	ProjectID  string           `json:"project_id" yaml:"project_id"`
	Project    string           `json:"project,omitempty" yaml:"project,omitempty"`
	Score      float64          `json:"score" yaml:"score"`
	Snippets   []domain.Snippet `json:"snippets" yaml:"snippets"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	settings := currentSettings()
	flags := cmd.Flags()

	format := settings.Render.Format
	if flags.Changed("format") {
		value, _ := flags.GetString("format")
		format = domain.RenderFormat(strings.ToLower(strings.TrimSpace(value)))
	}
	if !format.IsValid() {
		return fmt.Errorf("format %q: %w", format, domain.ErrUnsupportedType)
	}

	limit, _ := flags.GetInt("limit")
	if limit <= 0 {
		limit = settings.Search.Limit
	}
	offset, _ := flags.GetInt("offset")
	projects, _ := flags.GetStringSlice("project")
	match := matchOptionsFromFlags(cmd, settings.Highlight.MatchOptions())

	opts := domain.SearchOptions{
		Limit:         limit,
		Offset:        offset,
		ProjectIDs:    projects,
		Match:         &match,
		SnippetRadius: settings.Search.SnippetRadius,
	}

	results, err := searchService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if err := runResultActions(cmd, results); err != nil {
		return err
	}

	switch format {
	case domain.RenderJSON:
		data, err := json.MarshalIndent(searchOutputs(results), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	case domain.RenderYAML:
		data, err := yaml.Marshal(searchOutputs(results))
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Print(string(data))
		return nil
	case domain.RenderHTML:
		return outputSearchHTML(cmd, query, results)
	default:
		return outputSearchTable(cmd, query, results, format)
	}
}

func runResultActions(cmd *cobra.Command, results []domain.SearchResult) error {
	copyN, _ := cmd.Flags().GetInt("copy")
	openN, _ := cmd.Flags().GetInt("open")
	if copyN == 0 && openN == 0 {
		return nil
	}
	if resultActionService == nil {
		return errors.New("result action service not configured")
	}

	pick := func(n int) (*domain.SearchResult, error) {
		if n < 1 || n > len(results) {
			return nil, fmt.Errorf("result %d out of range 1-%d: %w", n, len(results), domain.ErrInvalidInput)
		}
		return &results[n-1], nil
	}

	if copyN != 0 {
		result, err := pick(copyN)
		if err != nil {
			return err
		}
		if err := resultActionService.CopyToClipboard(cmd.Context(), result); err != nil {
			return err
		}
		cmd.PrintErrf("Copied result %d to clipboard\n", copyN)
	}
	if openN != 0 {
		result, err := pick(openN)
		if err != nil {
			return err
		}
		if err := resultActionService.OpenDocument(cmd.Context(), result); err != nil {
			return err
		}
	}
	return nil
}

func searchOutputs(results []domain.SearchResult) []searchResultOutput {
	out := make([]searchResultOutput, 0, len(results))
	for i := range results {
		r := &results[i]
		out = append(out, searchResultOutput{
			Rank:       i + 1,
			DocumentID: r.Document.ID,
			ChunkID:    r.Chunk.ID,
			Title:      resultTitle(r),
			URI:        r.Document.URI,
			ProjectID:  r.Document.ProjectID,
			Project:    r.ProjectName,
			Score:      r.Score,
			Snippets:   r.Snippets,
		})
	}
	return out
}

func resultTitle(r *domain.SearchResult) string {
	if r.Document.Title != "" {
		return r.Document.Title
	}
	return r.Document.ID
}

func outputSearchTable(cmd *cobra.Command, query string, results []domain.SearchResult, format domain.RenderFormat) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results for %q:\n", query)
	cmd.Println()
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, resultTitle(r), r.Score)
		if r.ProjectName != "" {
			cmd.Printf("      Project: %s\n", r.ProjectName)
		}
		if r.Document.URI != "" {
			cmd.Printf("      %s\n", r.Document.URI)
		}
		for _, snippet := range r.Snippets {
			text, err := renderSnippet(snippet, format)
			if err != nil {
				return err
			}
			cmd.Printf("      %s\n", text)
		}
		cmd.Println()
	}
	return nil
}

func outputSearchHTML(cmd *cobra.Command, query string, results []domain.SearchResult) error {
	fragments := make([]string, 0, len(results))
	for i := range results {
		r := &results[i]
		var b strings.Builder
		fmt.Fprintf(&b, "<strong>[%d] %s</strong> (%.2f)\n", i+1, xhtml.EscapeString(resultTitle(r)), r.Score)
		if r.ProjectName != "" {
			fmt.Fprintf(&b, "Project: %s\n", xhtml.EscapeString(r.ProjectName))
		}
		for _, snippet := range r.Snippets {
			text, err := renderSnippet(snippet, domain.RenderHTML)
			if err != nil {
				return err
			}
			b.WriteString(text)
			b.WriteString("\n")
		}
		fragments = append(fragments, b.String())
	}

	css := ""
	if highlightService != nil {
		sheet, err := highlightService.StyleSheet(domain.RenderHTML)
		if err != nil {
			return err
		}
		css = sheet
	}
	cmd.Print(render.Document("Results for "+query, css, fragments...))
	return nil
}

// renderSnippet marks a snippet's spans in format, or returns the bare
// text when no highlight service is configured.
func renderSnippet(snippet domain.Snippet, format domain.RenderFormat) (string, error) {
	if highlightService == nil {
		if format == domain.RenderHTML {
			return xhtml.EscapeString(snippet.Text), nil
		}
		return snippet.Text, nil
	}
	return highlightService.Render(snippet.Text, snippet.Spans, format)
}
